package routes

import (
	"github.com/edubridge-lk/edubridge-api/handlers"
	"github.com/edubridge-lk/edubridge-api/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App, h *handlers.OrderHandler) {
	api := app.Group("/api/v1")

	// Checkout is open to anonymous buyers; the handler picks up the
	// purchaser from the Authorization header when one is present.
	api.Post("/orders", h.CreateOrder)

	api.Get("/my/orders", middleware.Protected(), h.ListMyOrders)
}
