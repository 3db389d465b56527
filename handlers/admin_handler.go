package handlers

import (
	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AdminHandler struct {
	Users   *mongo.Collection
	Orders  *mongo.Collection
	Courses *mongo.Collection
}

// GetDashboardAnalytics powers the admin panel landing page: headline
// counts plus confirmed revenue.
func (h *AdminHandler) GetDashboardAnalytics(c *fiber.Ctx) error {
	ctx := c.Context()

	studentCount, err := h.Users.CountDocuments(ctx, bson.M{"role": models.RoleStudent})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count students"})
	}

	courseCount, err := h.Courses.CountDocuments(ctx, bson.M{"archived": false})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count courses"})
	}

	pendingOrders, err := h.Orders.CountDocuments(ctx, bson.M{"status": models.OrderPending})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count orders"})
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.OrderCompleted}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := h.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to aggregate revenue"})
	}
	defer cursor.Close(ctx)

	var revenue float64
	var completedOrders int64
	if cursor.Next(ctx) {
		var row struct {
			Revenue float64 `bson:"revenue"`
			Count   int64   `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error decoding revenue"})
		}
		revenue = row.Revenue
		completedOrders = row.Count
	}

	return c.JSON(fiber.Map{
		"students":         studentCount,
		"courses":          courseCount,
		"pending_orders":   pendingOrders,
		"completed_orders": completedOrders,
		"revenue":          revenue,
	})
}
