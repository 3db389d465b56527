package main

import (
	"log"
	"time"

	config "github.com/edubridge-lk/edubridge-api/configs"
	"github.com/edubridge-lk/edubridge-api/database"
	"github.com/edubridge-lk/edubridge-api/handlers"
	"github.com/edubridge-lk/edubridge-api/jobs"
	"github.com/edubridge-lk/edubridge-api/notifications"
	"github.com/edubridge-lk/edubridge-api/payments"
	"github.com/edubridge-lk/edubridge-api/routes"
	"github.com/edubridge-lk/edubridge-api/services"
	ws "github.com/edubridge-lk/edubridge-api/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	defer database.Disconnect()
	database.EnsureIndexes()
	database.SeedAdmin()

	siteName := config.Config("SITE_NAME")
	if siteName == "" {
		siteName = "EduBridge"
	}

	// Mail transport is resolved once here and injected; handlers never
	// construct their own.
	var mailer notifications.Mailer
	if apiKey := config.Config("BREVO_API_KEY"); apiKey != "" {
		mailer = notifications.NewBrevoMailer(apiKey, config.Config("EMAIL_SENDER"), config.Config("EMAIL_SENDER_NAME"))
		log.Println("✅ Email service initialized (Brevo)")
	} else {
		mailer = notifications.ConsoleMailer{}
		log.Println("⚠️ BREVO_API_KEY not set, emails go to the console")
	}

	payhere := payments.PayHere{
		MerchantID:     config.Config("PAYHERE_MERCHANT_ID"),
		MerchantSecret: config.Config("PAYHERE_MERCHANT_SECRET"),
		ReturnURL:      config.Config("PAYHERE_RETURN_URL"),
		CancelURL:      config.Config("PAYHERE_CANCEL_URL"),
		NotifyURL:      config.Config("PAYHERE_NOTIFY_URL"),
	}

	enroll := services.NewEnrollmentService(services.MongoCourseStore{Courses: database.Courses()})

	var receipts *services.ReceiptService
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	if cloudinaryURL != "" {
		receipts = services.NewReceiptService(cloudinaryURL, siteName)
	} else {
		log.Println("⚠️ CLOUDINARY_URL not set, receipts and slip uploads disabled")
	}

	hub := ws.NewHub()
	go hub.Run()

	jwtSecret := config.Config("JWT_SECRET")

	finalizer := &handlers.OrderFinalizer{
		Orders:   database.Orders(),
		Users:    database.Users(),
		Enroll:   enroll,
		Receipts: receipts,
		Mailer:   mailer,
		Hub:      hub,
		SiteName: siteName,
	}

	authHandler := &handlers.AuthHandler{Users: database.Users(), Mailer: mailer, JWTSecret: jwtSecret, SiteName: siteName}
	userHandler := &handlers.UserHandler{Users: database.Users(), Mailer: mailer, SiteName: siteName}
	batchHandler := &handlers.BatchHandler{Batches: database.Batches()}
	monthHandler := &handlers.MonthHandler{Months: database.Months(), Batches: database.Batches()}
	courseHandler := &handlers.CourseHandler{Courses: database.Courses(), Months: database.Months()}
	orderHandler := &handlers.OrderHandler{Orders: database.Orders(), Months: database.Months(), Finalizer: finalizer, JWTSecret: jwtSecret}
	paymentHandler := &handlers.PaymentHandler{Orders: database.Orders(), PayHere: payhere, Finalizer: finalizer}
	uploadHandler := &handlers.UploadHandler{CloudinaryURL: cloudinaryURL}
	settingHandler := &handlers.SettingHandler{Settings: database.Settings()}
	adminHandler := &handlers.AdminHandler{Users: database.Users(), Orders: database.Orders(), Courses: database.Courses()}

	c := cron.New()
	c.AddFunc("*/5 * * * *", func() { jobs.ReconcileEnrollments(enroll) })
	c.AddFunc("0 * * * *", jobs.CancelStaleOnlineOrders)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           siteName,
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Colombo",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to " + siteName + " API",
		})
	})

	routes.AuthRoutes(app, authHandler)
	routes.PublicRoutes(app, batchHandler, monthHandler, courseHandler, settingHandler, userHandler)
	routes.OrderRoutes(app, orderHandler)
	routes.PaymentRoutes(app, paymentHandler)
	routes.UploadRoutes(app, uploadHandler)
	routes.AdminRoutes(app, adminHandler, userHandler, batchHandler, monthHandler, courseHandler, orderHandler, settingHandler)
	routes.WebsocketRoutes(app, hub)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
