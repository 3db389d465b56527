package routes

import (
	"github.com/edubridge-lk/edubridge-api/middleware"
	ws "github.com/edubridge-lk/edubridge-api/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func WebsocketRoutes(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/admin", middleware.Protected(), middleware.AdminRequired(), websocket.New(func(conn *websocket.Conn) {
		hub.Register <- conn
		defer func() {
			hub.Unregister <- conn
			conn.Close()
		}()

		// Drain the connection; the hub only pushes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
