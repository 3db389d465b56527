package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/edubridge-lk/edubridge-api/notifications"
	"github.com/edubridge-lk/edubridge-api/services"
	ws "github.com/edubridge-lk/edubridge-api/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderFinalizer runs the post-completion side effects shared by the three
// paths that mark an order paid: admin confirm-payment, admin status edit,
// and the gateway webhook. Enrollment failures are logged and never
// propagate; the payment bookkeeping the caller already committed stands.
type OrderFinalizer struct {
	Orders   *mongo.Collection
	Users    *mongo.Collection
	Enroll   *services.EnrollmentService
	Receipts *services.ReceiptService
	Mailer   notifications.Mailer
	Hub      *ws.Hub
	SiteName string
}

func (f *OrderFinalizer) Finalize(ctx context.Context, order models.Order) {
	if err := f.Enroll.Reconcile(ctx, order); err != nil {
		log.Printf("🔥 CRITICAL: enrollment failed for order %s: %v", order.ID.Hex(), err)
	} else if order.UserID != nil {
		now := time.Now()
		_, err := f.Orders.UpdateOne(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{"enrollment_synced_at": now}},
		)
		if err != nil {
			log.Printf("Error stamping enrollment_synced_at for order %s: %v", order.ID.Hex(), err)
		}
	}

	if f.Hub != nil {
		f.Hub.Publish(ws.Event{
			Type:    "payment_confirmed",
			OrderID: order.ID.Hex(),
			Status:  order.Status,
			Method:  order.Method,
			Total:   order.Total,
		})
	}

	name, email := f.contactFor(ctx, order)
	if email != "" {
		notifications.SendAsync(f.Mailer, name, email,
			"Payment Confirmed",
			fmt.Sprintf("<h1>Payment Confirmed</h1><p>Your payment of %.2f %s for order <b>%s</b> has been confirmed. Your content is now unlocked.</p>",
				order.Total, order.Currency, order.ID.Hex()))
	}

	if f.Receipts != nil {
		go f.generateReceipt(order, name)
	}
}

// NotifyCreated publishes the order_created admin event and sends the
// order-received email.
func (f *OrderFinalizer) NotifyCreated(ctx context.Context, order models.Order) {
	if f.Hub != nil {
		f.Hub.Publish(ws.Event{
			Type:    "order_created",
			OrderID: order.ID.Hex(),
			Status:  order.Status,
			Method:  order.Method,
			Total:   order.Total,
		})
	}

	name, email := f.contactFor(ctx, order)
	if email != "" {
		notifications.SendAsync(f.Mailer, name, email,
			fmt.Sprintf("%s — Order Received", f.SiteName),
			fmt.Sprintf("<h1>Order Received</h1><p>We received your order <b>%s</b> for %.2f %s. You will be notified once the payment is confirmed.</p>",
				order.ID.Hex(), order.Total, order.Currency))
	}
}

func (f *OrderFinalizer) contactFor(ctx context.Context, order models.Order) (name, email string) {
	if order.UserID != nil {
		var user models.User
		if err := f.Users.FindOne(ctx, bson.M{"_id": *order.UserID}).Decode(&user); err == nil {
			return user.FullName, user.Email
		}
		log.Printf("Purchaser %s of order %s not found for notification", order.UserID.Hex(), order.ID.Hex())
	}
	return order.Customer.Name, order.Customer.Email
}

func (f *OrderFinalizer) generateReceipt(order models.Order, customerName string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	url, err := f.Receipts.Generate(ctx, order, customerName)
	if err != nil {
		log.Printf("Receipt generation failed for order %s: %v", order.ID.Hex(), err)
		return
	}

	_, err = f.Orders.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{"receipt_url": url}},
	)
	if err != nil {
		log.Printf("Error saving receipt URL for order %s: %v", order.ID.Hex(), err)
	}
}
