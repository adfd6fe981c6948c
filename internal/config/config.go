package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogLevel             string
	StoreDriver          string
	Timezone             string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	Admin                AdminConfig
	RateLimit            RateLimitConfig
	Messaging            MessagingConfig
	Telemetry            TelemetryConfig
}

const defaultJWTSecret = "default_jwt_secret"

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// AdminConfig is the single staff account allowed into the admin routes.
// An empty PasswordHash leaves those routes open.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// RateLimitConfig covers both limiters. With RedisAddr set the fixed-window
// Redis limiter is used, otherwise the in-process token bucket.
type RateLimitConfig struct {
	RPS           float64
	Burst         int
	PerWindow     int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
}

// MessagingConfig describes where booking summaries are handed off.
type MessagingConfig struct {
	SalonName      string
	WhatsAppNumber string
	WebhookURL     string
	WebhookToken   string
}

// TelemetryConfig switches OpenTelemetry tracing and points it at an OTLP
// gRPC collector.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SampleRatio  float64
}

// AuthEnabled reports whether admin routes require a token.
func (c *Config) AuthEnabled() bool {
	return c.Admin.PasswordHash != ""
}

// Location resolves the salon time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "salon"),
	}
	dbConfig.DSN = getEnv("DB_DSN", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name))

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	perWindow, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_WINDOW", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_WINDOW: %w", err)
	}
	window, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	otelEnabled, err := strconv.ParseBool(getEnv("OTEL_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_ENABLED: %w", err)
	}
	sampleRatio, err := strconv.ParseFloat(getEnv("OTEL_SAMPLING_RATIO", "1"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("invalid OTEL_SAMPLING_RATIO: want a number between 0 and 1")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:5173"),
		Environment:          getEnv("NODE_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		StoreDriver:          strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		Timezone:             getEnv("SALON_TIMEZONE", "America/Bogota"),
		JWTSecret:            getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpirationMinutes: jwtExpMinutes,
		Database:             dbConfig,
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", "admin@noratob.com"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:           rps,
			Burst:         burst,
			PerWindow:     perWindow,
			Window:        window,
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
		},
		Messaging: MessagingConfig{
			SalonName:      getEnv("SALON_NAME", "Norato B"),
			WhatsAppNumber: getEnv("SALON_WHATSAPP_NUMBER", "573182745713"),
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookToken:   getEnv("NOTIFY_WEBHOOK_TOKEN", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      otelEnabled,
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "salon-booking-server"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio:  sampleRatio,
		},
	}

	switch cfg.StoreDriver {
	case StoreMemory, StoreMySQL:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", cfg.StoreDriver, StoreMemory, StoreMySQL)
	}
	if cfg.AuthEnabled() && (cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret) {
		return nil, fmt.Errorf("JWT_SECRET must be set when ADMIN_PASSWORD_HASH enables admin auth")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid SALON_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
