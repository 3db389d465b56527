package routes

import (
	"github.com/edubridge-lk/edubridge-api/handlers"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, h *handlers.PaymentHandler) {
	api := app.Group("/api/v1")

	payhere := api.Group("/payments/payhere")
	payhere.Get("/checkout/:orderId", h.GetPayHereCheckout)
	payhere.Post("/notify", h.HandlePayHereNotify)
}
