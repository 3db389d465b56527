package handlers

import (
	"time"

	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The settings collection holds exactly one document, keyed "site".
const settingsKey = "site"

type SettingHandler struct {
	Settings *mongo.Collection
}

func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	var settings models.SiteSettings
	err := h.Settings.FindOne(c.Context(), bson.M{"_id": settingsKey}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(models.SiteSettings{})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}
	return c.JSON(settings)
}

func (h *SettingHandler) UpdateSettings(c *fiber.Ctx) error {
	var req models.SiteSettings
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	req.UpdatedAt = time.Now()

	_, err := h.Settings.UpdateOne(c.Context(),
		bson.M{"_id": settingsKey},
		bson.M{"$set": req},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update settings"})
	}

	return c.JSON(req)
}
