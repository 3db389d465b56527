package routes

import (
	"github.com/edubridge-lk/edubridge-api/handlers"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App, h *handlers.UploadHandler) {
	api := app.Group("/api/v1")

	api.Post("/uploads/slip-signature", h.GenerateSlipSignature)
}
