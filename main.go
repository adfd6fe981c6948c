package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"salon-booking-server/internal/booking"
	"salon-booking-server/internal/catalogue"
	"salon-booking-server/internal/config"
	"salon-booking-server/internal/metrics"
	"salon-booking-server/internal/middleware"
	"salon-booking-server/internal/models"
	"salon-booking-server/internal/routes"
	"salon-booking-server/internal/store"
	"salon-booking-server/internal/telemetry"
	"salon-booking-server/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Error("otel setup failed, tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				logger.Warn("otel shutdown error", "error", err)
			}
		}()
		if cfg.Telemetry.Enabled {
			logger.Info("tracing enabled", "endpoint", cfg.Telemetry.OTLPEndpoint, "sample_ratio", cfg.Telemetry.SampleRatio)
		}
	}

	repo, err := openStore(cfg)
	if err != nil {
		logger.Error("error opening appointment store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	logger.Info("appointment store ready", "driver", cfg.StoreDriver)

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	svc := booking.NewService(repo, catalogue.Default(), bookingMetrics, logger)

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Deps{
		Config:      cfg,
		Booking:     svc,
		Logger:      logger,
		Limiter:     limiter,
		HTTPMetrics: httpMetrics,
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "salon-booking"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("http server stopped")
}

func openStore(cfg *config.Config) (store.Repository, error) {
	if cfg.StoreDriver != config.StoreMySQL {
		return store.NewMemoryRepository(), nil
	}
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		return nil, err
	}
	return store.NewGormRepository(db), nil
}

// newLimiter prefers the shared Redis limiter and falls back to the local
// token bucket when Redis is not configured or not reachable.
func newLimiter(ctx context.Context, cfg *config.Config, logger *logging.Logger) (middleware.Limiter, func()) {
	local := middleware.NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	if cfg.RateLimit.RedisAddr == "" {
		return local, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limiter", "addr", cfg.RateLimit.RedisAddr, "error", err)
		_ = rdb.Close()
		return local, func() {}
	}
	logger.Info("using redis rate limiter", "addr", cfg.RateLimit.RedisAddr, "per_window", cfg.RateLimit.PerWindow, "window", cfg.RateLimit.Window.String())
	return middleware.NewRedisLimiter(rdb, cfg.RateLimit.PerWindow, cfg.RateLimit.Window, "salon:rl"), func() { _ = rdb.Close() }
}
