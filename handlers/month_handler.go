package handlers

import (
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MonthHandler struct {
	Months  *mongo.Collection
	Batches *mongo.Collection
}

type CreateMonthRequest struct {
	BatchID  string  `json:"batch_id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Title    string  `json:"title,omitempty"`
	Price    float64 `json:"price" validate:"min=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
}

func (h *MonthHandler) CreateMonth(c *fiber.Ctx) error {
	var req CreateMonthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	batchID, err := primitive.ObjectIDFromHex(req.BatchID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	ctx := c.Context()
	count, err := h.Batches.CountDocuments(ctx, bson.M{"_id": batchID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify batch"})
	}
	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}

	now := time.Now()
	month := models.Month{
		BatchID:   batchID,
		Name:      req.Name,
		Title:     req.Title,
		Price:     req.Price,
		Currency:  req.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := h.Months.InsertOne(ctx, month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create month"})
	}
	month.ID = res.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(month)
}

func (h *MonthHandler) ListMonths(c *fiber.Ctx) error {
	filter := bson.M{}
	if batchIDStr := c.Query("batch_id"); batchIDStr != "" {
		batchID, err := primitive.ObjectIDFromHex(batchIDStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
		}
		filter["batch_id"] = batchID
	}

	ctx := c.Context()
	cursor, err := h.Months.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch months"})
	}
	defer cursor.Close(ctx)

	months := make([]models.Month, 0)
	if err := cursor.All(ctx, &months); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding months"})
	}
	return c.JSON(months)
}

type UpdateMonthRequest struct {
	Name     *string  `json:"name,omitempty"`
	Title    *string  `json:"title,omitempty"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Currency *string  `json:"currency,omitempty" validate:"omitempty,len=3"`
}

func (h *MonthHandler) UpdateMonth(c *fiber.Ctx) error {
	monthID, err := primitive.ObjectIDFromHex(c.Params("monthId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month ID"})
	}

	var req UpdateMonthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Currency != nil {
		set["currency"] = *req.Currency
	}

	res, err := h.Months.UpdateOne(c.Context(), bson.M{"_id": monthID}, bson.M{"$set": set})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update month"})
	}
	if res.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Month not found"})
	}

	return c.JSON(fiber.Map{"message": "Month updated successfully"})
}

func (h *MonthHandler) DeleteMonth(c *fiber.Ctx) error {
	monthID, err := primitive.ObjectIDFromHex(c.Params("monthId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month ID"})
	}

	res, err := h.Months.DeleteOne(c.Context(), bson.M{"_id": monthID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete month"})
	}
	if res.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Month not found"})
	}

	return c.JSON(fiber.Map{"message": "Month deleted successfully"})
}
