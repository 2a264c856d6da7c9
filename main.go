package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"quickstaff-server/config"
	"quickstaff-server/database"
	"quickstaff-server/metrics"
	"quickstaff-server/middleware"
	"quickstaff-server/routes"
	"quickstaff-server/services"
	ws "quickstaff-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Seed the service catalog on demand
	if os.Getenv("SEED_DATA") == "true" {
		if err := seedServices(database.DB); err != nil {
			log.Printf("⚠️ Service catalog seeding failed: %v", err)
		}
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security middleware stack
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "QuickStaff server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", metrics.Handler())

	// Notification hub for booking status pushes
	notifyHub := ws.NewHub()
	go notifyHub.Run()
	routes.InitNotificationHub(notifyHub)
	router.GET("/api/v1/ws/notifications", ws.HandleNotifications(notifyHub))

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Public catalog and worker discovery
		routes.RegisterServiceRoutes(api)
		routes.RegisterPublicWorkerRoutes(api)
		routes.RegisterPublicReviewRoutes(api)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			authProtected := protected.Group("/auth")
			routes.RegisterAuthProtectedRoutes(authProtected)

			routes.RegisterBookingRoutes(protected)
			routes.RegisterJobRequestRoutes(protected)
			routes.RegisterReviewRoutes(protected)
			routes.RegisterWorkerRoutes(protected)
			routes.RegisterAdminRoutes(protected)
		}
	}

	// Booking reminder scheduler
	if config.AppConfig.Reminder.Enabled {
		reminderService := services.NewReminderService(database.DB)
		if err := reminderService.StartScheduler(); err != nil {
			log.Printf("⚠️ Reminder scheduler not started: %v", err)
		} else {
			defer reminderService.Stop()
		}
	}

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
