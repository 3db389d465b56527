package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderHandler struct {
	Orders    *mongo.Collection
	Months    *mongo.Collection
	Finalizer *OrderFinalizer
	JWTSecret string
}

type CheckoutCustomer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

type CreateOrderRequest struct {
	MonthIDs      []string         `json:"month_ids" validate:"required,min=1"`
	Method        string           `json:"method" validate:"required,oneof=bank cash online"`
	Customer      CheckoutCustomer `json:"customer"`
	BankReference string           `json:"bank_reference,omitempty"`
	SlipURL       string           `json:"slip_url,omitempty"`
}

// CreateOrder opens a purchase intent at status pending. Checkout is open
// to anonymous buyers, so the purchaser reference is taken from the
// Authorization header only when a valid token is present.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	monthIDs := make([]primitive.ObjectID, 0, len(req.MonthIDs))
	for _, idStr := range req.MonthIDs {
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month ID: " + idStr})
		}
		monthIDs = append(monthIDs, id)
	}

	ctx := c.Context()
	cursor, err := h.Months.Find(ctx, bson.M{"_id": bson.M{"$in": monthIDs}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch months"})
	}
	months := make([]models.Month, 0)
	if err := cursor.All(ctx, &months); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding months"})
	}
	if len(months) != len(monthIDs) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "One or more months not found"})
	}

	var total float64
	currency := months[0].Currency
	items := make([]models.OrderItem, 0, len(months))
	for _, month := range months {
		if month.Currency != currency {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All months in an order must share a currency"})
		}
		monthID := month.ID
		title := month.Title
		if title == "" {
			title = month.Name
		}
		items = append(items, models.OrderItem{
			MonthID:  &monthID,
			Title:    title,
			Price:    month.Price,
			Currency: month.Currency,
		})
		total += month.Price
	}

	now := time.Now()
	order := models.Order{
		UserID: h.optionalUserID(c),
		Customer: models.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items:     items,
		Total:     total,
		Currency:  currency,
		Method:    req.Method,
		Status:    models.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch req.Method {
	case models.MethodBank:
		ref := req.BankReference
		if ref == "" {
			ref = uuid.New().String()
		}
		order.Payment.Bank = &models.BankPayment{Reference: ref, SlipURL: req.SlipURL}
	case models.MethodCash:
		order.Payment.Cash = &models.CashPayment{Reference: uuid.New().String()}
	case models.MethodOnline:
		order.Payment.Online = &models.OnlinePayment{Provider: "payhere"}
	}

	res, err := h.Orders.InsertOne(ctx, order)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create order"})
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	h.Finalizer.NotifyCreated(ctx, order)

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if method := c.Query("method"); method != "" {
		filter["method"] = method
	}

	ctx := c.Context()
	cursor, err := h.Orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding orders"})
	}
	return c.JSON(orders)
}

func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Context()
	cursor, err := h.Orders.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding orders"})
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var order models.Order
	if err := h.Orders.FindOne(c.Context(), bson.M{"_id": orderID}).Decode(&order); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}

type UpdateOrderRequest struct {
	Status        *string           `json:"status,omitempty" validate:"omitempty,oneof=pending completed failed cancelled"`
	Method        *string           `json:"method,omitempty" validate:"omitempty,oneof=bank cash online"`
	Customer      *CheckoutCustomer `json:"customer,omitempty"`
	BankReference *string           `json:"bank_reference,omitempty"`
	SlipURL       *string           `json:"slip_url,omitempty"`
}

// UpdateOrder is the free-form admin patch. A patch that sets the status
// to completed runs the enrollment reconciler, same as confirm-payment.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.Method != nil {
		set["method"] = *req.Method
	}
	if req.Customer != nil {
		set["customer"] = models.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}
	if req.BankReference != nil {
		set["payment.bank.reference"] = *req.BankReference
	}
	if req.SlipURL != nil {
		set["payment.bank.slip_url"] = *req.SlipURL
	}

	ctx := c.Context()
	var order models.Order
	err = h.Orders.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update order"})
	}

	if req.Status != nil && *req.Status == models.OrderCompleted {
		h.Finalizer.Finalize(ctx, order)
	}

	return c.JSON(order)
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	res, err := h.Orders.DeleteOne(c.Context(), bson.M{"_id": orderID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete order"})
	}
	if res.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}

type ConfirmPaymentRequest struct {
	// KeepStatus leaves the order status untouched and only stamps the
	// verification envelope.
	KeepStatus bool   `json:"keep_status,omitempty"`
	Reference  string `json:"reference,omitempty"`
}

// ConfirmPayment is the manual "mark verified" admin action. It stamps
// verified/verified_by/verified_at and, unless keep_status is set, moves
// the order to completed and runs the enrollment reconciler.
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req ConfirmPaymentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}

	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}

	now := time.Now()
	set := bson.M{
		"payment.verified":    true,
		"payment.verified_by": adminID,
		"payment.verified_at": now,
		"updated_at":          now,
	}
	if !req.KeepStatus {
		set["status"] = models.OrderCompleted
	}

	ctx := c.Context()
	var order models.Order
	err = h.Orders.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm payment"})
	}

	if req.Reference != "" {
		refField := ""
		switch order.Method {
		case models.MethodBank:
			refField = "payment.bank.reference"
		case models.MethodCash:
			refField = "payment.cash.reference"
		}
		if refField != "" {
			if _, err := h.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{refField: req.Reference}}); err != nil {
				log.Printf("Error saving payment reference for order %s: %v", orderID.Hex(), err)
			}
		}
	}

	if order.Status == models.OrderCompleted {
		h.Finalizer.Finalize(ctx, order)
	}

	return c.JSON(order)
}

// optionalUserID parses the Authorization header without requiring it;
// checkout is the one route where auth is optional.
func (h *OrderHandler) optionalUserID(c *fiber.Ctx) *primitive.ObjectID {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}

	token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	idStr, _ := claims["user_id"].(string)
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return nil
	}
	return &id
}
