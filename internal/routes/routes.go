package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salon-booking-server/internal/booking"
	"salon-booking-server/internal/config"
	"salon-booking-server/internal/handlers"
	"salon-booking-server/internal/metrics"
	"salon-booking-server/internal/middleware"
	"salon-booking-server/internal/models"
	"salon-booking-server/pkg/logging"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Config      *config.Config
	Booking     *booking.Service
	Logger      *logging.Logger
	Limiter     middleware.Limiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Deps) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router.Use(middleware.RequestLogger(logger), middleware.Metrics(deps.HTTPMetrics))

	admin := models.Staff{Email: cfg.Admin.Email, PasswordHash: cfg.Admin.PasswordHash, Role: models.RoleAdmin}
	authHandler := handlers.NewAuthHandler(admin, cfg.JWTSecret, time.Duration(cfg.JWTExpirationMinutes)*time.Minute, logger)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Booking, logger)
	catalogueHandler := handlers.NewCatalogueHandler(deps.Booking.Catalogue())

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.POST("/auth/login", middleware.RateLimit(limiter, "login", logger), authHandler.Login)
		public.GET("/services", catalogueHandler.GetServices)
		public.GET("/slots", appointmentHandler.GetSlots)
		public.POST("/appointments", middleware.RateLimit(limiter, "book", logger), appointmentHandler.CreateAppointment)
	}

	// Staff routes
	private := router.Group("/api/v1")
	if cfg.AuthEnabled() {
		private.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RoleAuthMiddleware(models.RoleAdmin))
	} else {
		logger.Warn("ADMIN_PASSWORD_HASH not set, admin routes are unauthenticated")
	}
	{
		private.GET("/appointments", appointmentHandler.GetAppointments)
		private.GET("/appointments/:id", appointmentHandler.GetAppointmentByID)
		private.PATCH("/appointments/:id/status", appointmentHandler.UpdateAppointmentStatus)
		private.PUT("/services/:id/price", catalogueHandler.SetServicePrice)
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
