package routes

import (
	"HillsideClinic/cache"
	"HillsideClinic/config"
	"HillsideClinic/controllers"
	"HillsideClinic/handlers"
	"HillsideClinic/middlewares"
	"HillsideClinic/repositories"
	"HillsideClinic/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Repositories
	patientRepo := repositories.NewPatientRepository(cache)
	doctorRepo := repositories.NewDoctorRepository(cache)
	visitRepo := repositories.NewVisitRepository()
	orderRepo := repositories.NewOrderRepository(cache)
	billingRepo := repositories.NewBillingRepository(cache)
	emergencyRepo := repositories.NewEmergencyBillingRepository()
	catalogRepo := repositories.NewCatalogRepository(cache)
	preRegRepo := repositories.NewPreRegistrationRepository()
	userRepo := repositories.NewUserRepository(db, cache)

	// Services. The event bus must exist before any subscriber; the billing
	// service publishes settlements the card and visit services react to.
	bus := services.NewEventBus()
	billingService := services.NewBillingService(billingRepo, catalogRepo, bus)
	cardService := services.NewCardService(patientRepo, billingService, bus)
	queueService := services.NewQueueService(visitRepo, doctorRepo)
	visitService := services.NewVisitService(
		visitRepo, orderRepo, billingRepo, emergencyRepo, catalogRepo, patientRepo,
		billingService, cardService, queueService, bus,
	)
	emergencyService := services.NewEmergencyBillingService(emergencyRepo, catalogRepo, bus)
	patientService := services.NewPatientService(patientRepo, billingService, cardService)
	preRegService := services.NewPreRegistrationService(preRegRepo, patientRepo, visitService)
	doctorService := services.NewDoctorService(doctorRepo)
	userService := services.NewUserService(userRepo)
	services.NewNotificationService(patientRepo, bus)

	// Handlers
	patientHandler := handlers.NewPatientHandler(patientService, cardService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	visitHandler := handlers.NewVisitHandler(visitService)
	billingHandler := handlers.NewBillingHandler(billingService, emergencyService)
	queueHandler := handlers.NewQueueHandler(queueService)
	orderHandler := handlers.NewOrderHandler(visitService)
	preRegHandler := handlers.NewPreRegistrationHandler(preRegService)
	authHandler := handlers.NewAuthHandler(userService)

	// Register routes
	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		doctorHandler,
		visitHandler,
		billingHandler,
		queueHandler,
		orderHandler,
		preRegHandler,
	)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
