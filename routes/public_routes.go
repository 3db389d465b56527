package routes

import (
	"github.com/edubridge-lk/edubridge-api/handlers"
	"github.com/edubridge-lk/edubridge-api/middleware"
	"github.com/gofiber/fiber/v2"
)

// PublicRoutes serves the catalog and site content the student site
// renders without a session, plus the JWT-gated content endpoint.
func PublicRoutes(app *fiber.App, batches *handlers.BatchHandler, months *handlers.MonthHandler, courses *handlers.CourseHandler, settings *handlers.SettingHandler, users *handlers.UserHandler) {
	api := app.Group("/api/v1")

	api.Get("/batches", batches.ListBatches)
	api.Get("/months", months.ListMonths)
	api.Get("/courses", courses.ListCourses)
	api.Get("/settings", settings.GetSettings)

	api.Get("/courses/:courseId/content", middleware.Protected(), courses.GetCourseContent)
	api.Get("/me", middleware.Protected(), users.GetProfile)
}
