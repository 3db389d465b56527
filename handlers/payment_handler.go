package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/edubridge-lk/edubridge-api/payments"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentHandler struct {
	Orders    *mongo.Collection
	PayHere   payments.PayHere
	Finalizer *OrderFinalizer
}

// GetPayHereCheckout returns the form fields (including the md5 hash) the
// frontend posts to the hosted checkout page for a pending online order.
func (h *PaymentHandler) GetPayHereCheckout(c *fiber.Ctx) error {
	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	ctx := c.Context()
	var order models.Order
	if err := h.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	if order.Method != models.MethodOnline {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order is not an online payment"})
	}
	if order.Status != models.OrderPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order is not pending"})
	}

	name, email := h.Finalizer.contactFor(ctx, order)
	fields := h.PayHere.CheckoutFields(order, name, email, order.Customer.Phone)
	return c.JSON(fields)
}

// HandlePayHereNotify is the server-to-server callback. The md5sig check
// is the trust boundary: nothing is read from or written to the database
// until the signature verifies. Replies are the bare text bodies the
// provider expects.
func (h *PaymentHandler) HandlePayHereNotify(c *fiber.Ctx) error {
	merchantID := c.FormValue("merchant_id")
	orderIDStr := c.FormValue("order_id")
	amount := c.FormValue("payhere_amount")
	currency := c.FormValue("payhere_currency")
	statusCodeStr := c.FormValue("status_code")
	md5sig := c.FormValue("md5sig")
	paymentID := c.FormValue("payment_id")

	if !h.PayHere.VerifyNotification(merchantID, orderIDStr, amount, currency, statusCodeStr, md5sig) {
		log.Printf("PayHere notify rejected for order %s: signature mismatch", orderIDStr)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid signature")
	}

	statusCode, err := strconv.Atoi(statusCodeStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid status code")
	}

	orderID, err := primitive.ObjectIDFromHex(orderIDStr)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Order not found")
	}

	ctx := c.Context()
	var order models.Order
	if err := h.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Order not found")
	}

	if order.Status == models.OrderCompleted {
		// Duplicate delivery; the earlier one already did the work.
		return c.SendString("OK")
	}

	newStatus := payments.OrderStatusFor(statusCode)
	now := time.Now()
	set := bson.M{
		"status":     newStatus,
		"updated_at": now,
		"payment.online": models.OnlinePayment{
			Provider:   "payhere",
			PaymentID:  paymentID,
			StatusCode: statusCode,
			Amount:     amount,
			Currency:   currency,
		},
	}
	if newStatus == models.OrderCompleted {
		set["payment.verified"] = true
		set["payment.verified_at"] = now
	}

	err = h.Orders.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		log.Printf("🔥 Error updating order %s from PayHere notify: %v", orderIDStr, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update order")
	}

	if newStatus == models.OrderCompleted {
		h.Finalizer.Finalize(ctx, order)
	}

	return c.SendString("OK")
}
