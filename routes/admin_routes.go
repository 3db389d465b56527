package routes

import (
	"github.com/edubridge-lk/edubridge-api/handlers"
	"github.com/edubridge-lk/edubridge-api/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, admin *handlers.AdminHandler, users *handlers.UserHandler, batches *handlers.BatchHandler, months *handlers.MonthHandler, courses *handlers.CourseHandler, orders *handlers.OrderHandler, settings *handlers.SettingHandler) {
	api := app.Group("/api/v1")

	ad := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	ad.Get("/dashboard", admin.GetDashboardAnalytics)

	u := ad.Group("/users")
	u.Get("", users.ListUsers)
	u.Post("", users.CreateUser)
	u.Put("/:userId", users.UpdateUser)
	u.Delete("/:userId", users.DeleteUser)

	b := ad.Group("/batches")
	b.Post("", batches.CreateBatch)
	b.Put("/:batchId", batches.UpdateBatch)
	b.Delete("/:batchId", batches.DeleteBatch)

	m := ad.Group("/months")
	m.Post("", months.CreateMonth)
	m.Put("/:monthId", months.UpdateMonth)
	m.Delete("/:monthId", months.DeleteMonth)

	o := ad.Group("/orders")
	o.Get("", orders.ListOrders)
	o.Get("/:orderId", orders.GetOrder)
	o.Put("/:orderId", orders.UpdateOrder)
	o.Delete("/:orderId", orders.DeleteOrder)
	o.Post("/:orderId/confirm-payment", orders.ConfirmPayment)

	ad.Put("/settings", settings.UpdateSettings)

	// Course management is open to teachers as well.
	staff := api.Group("/staff", middleware.Protected(), middleware.StaffRequired())
	sc := staff.Group("/courses")
	sc.Post("", courses.CreateCourse)
	sc.Put("/:courseId", courses.UpdateCourse)
	sc.Delete("/:courseId", courses.DeleteCourse)
}
