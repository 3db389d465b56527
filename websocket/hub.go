package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Event is pushed to every connected admin panel.
type Event struct {
	Type    string    `json:"type"` // order_created | payment_confirmed
	OrderID string    `json:"order_id"`
	Status  string    `json:"status,omitempty"`
	Method  string    `json:"method,omitempty"`
	Total   float64   `json:"total,omitempty"`
	At      time.Time `json:"at"`
}

type Hub struct {
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Events     chan Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Events:     make(chan Event, 16),
	}
}

// Publish queues an event without ever blocking the request that raised it.
func (h *Hub) Publish(evt Event) {
	evt.At = time.Now()
	select {
	case h.Events <- evt:
	default:
		log.Println("Event channel full, dropping admin notification")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.clientsMu.Lock()
			h.clients[conn] = true
			h.clientsMu.Unlock()
			log.Println("Admin panel connected to event hub")
		case conn := <-h.Unregister:
			h.clientsMu.Lock()
			delete(h.clients, conn)
			h.clientsMu.Unlock()
			log.Println("Admin panel disconnected from event hub")
		case evt := <-h.Events:
			h.clientsMu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteJSON(evt); err != nil {
					log.Printf("Error pushing event to admin client: %v", err)
					conn.Close()
					dead = append(dead, conn)
				}
			}
			h.clientsMu.RUnlock()
			if len(dead) > 0 {
				h.clientsMu.Lock()
				for _, conn := range dead {
					delete(h.clients, conn)
				}
				h.clientsMu.Unlock()
			}
		}
	}
}
