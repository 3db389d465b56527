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

type BatchHandler struct {
	Batches *mongo.Collection
}

type CreateBatchRequest struct {
	Year int    `json:"year" validate:"required,min=2000,max=2100"`
	Name string `json:"name" validate:"required"`
}

func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	batch := models.Batch{
		Year:      req.Year,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	res, err := h.Batches.InsertOne(c.Context(), batch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A batch for that year already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create batch"})
	}
	batch.ID = res.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(batch)
}

func (h *BatchHandler) ListBatches(c *fiber.Ctx) error {
	ctx := c.Context()
	cursor, err := h.Batches.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "year", Value: -1}}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch batches"})
	}
	defer cursor.Close(ctx)

	batches := make([]models.Batch, 0)
	if err := cursor.All(ctx, &batches); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding batches"})
	}
	return c.JSON(batches)
}

type UpdateBatchRequest struct {
	Year *int    `json:"year" validate:"omitempty,min=2000,max=2100"`
	Name *string `json:"name"`
}

func (h *BatchHandler) UpdateBatch(c *fiber.Ctx) error {
	batchID, err := primitive.ObjectIDFromHex(c.Params("batchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	var req UpdateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	update := bson.M{}
	if req.Year != nil {
		update["year"] = *req.Year
	}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if len(update) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	var batch models.Batch
	err = h.Batches.FindOneAndUpdate(
		c.Context(),
		bson.M{"_id": batchID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&batch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
		}
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A batch for that year already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update batch"})
	}

	return c.JSON(batch)
}

func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
	batchID, err := primitive.ObjectIDFromHex(c.Params("batchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	res, err := h.Batches.DeleteOne(c.Context(), bson.M{"_id": batchID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete batch"})
	}
	if res.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}

	return c.JSON(fiber.Map{"message": "Batch deleted successfully"})
}
