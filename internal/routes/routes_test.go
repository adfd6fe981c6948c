package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-booking-server/internal/booking"
	"salon-booking-server/internal/catalogue"
	"salon-booking-server/internal/config"
	"salon-booking-server/internal/metrics"
	"salon-booking-server/internal/middleware"
	"salon-booking-server/internal/models"
	"salon-booking-server/internal/store"
	"salon-booking-server/internal/utils"
	"salon-booking-server/pkg/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 10,
		Admin:                config.AdminConfig{Email: "admin@noratob.com"},
		RateLimit:            config.RateLimitConfig{RPS: 100, Burst: 100},
	}
}

func newServer(t *testing.T, cfg *config.Config, limiter middleware.Limiter) *gin.Engine {
	t.Helper()
	quiet := logging.NewWithWriter(io.Discard, "error")
	reg := prometheus.NewRegistry()
	svc := booking.NewService(store.NewMemoryRepository(), catalogue.Default(), metrics.NewBookingMetrics(reg), quiet)

	r := gin.New()
	SetupRoutes(r, Deps{
		Config:      cfg,
		Booking:     svc,
		Logger:      quiet,
		Limiter:     limiter,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	})
	return r
}

func request(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func anaBooking() map[string]string {
	return map[string]string{
		"serviceId":     "Corte Caballero",
		"customerName":  "Ana",
		"customerPhone": "3001234567",
		"date":          "2025-03-10",
		"time":          "11:00 AM",
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newServer(t, testConfig(), nil)

	w := request(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())

	request(r, http.MethodPost, "/api/v1/appointments", "", anaBooking())
	w = request(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `salon_booking_create_total{outcome="created"} 1`)
	assert.Contains(t, w.Body.String(), `route="/api/v1/appointments"`)
}

func TestOpenAdminRoutesWithoutPasswordHash(t *testing.T) {
	r := newServer(t, testConfig(), nil)
	w := request(r, http.MethodGet, "/api/v1/appointments", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	cfg := testConfig()
	hash, err := models.HashPassword("s3cret", 4)
	require.NoError(t, err)
	cfg.Admin.PasswordHash = hash
	r := newServer(t, cfg, nil)

	w := request(r, http.MethodPost, "/api/v1/appointments", "", anaBooking())
	require.Equal(t, http.StatusCreated, w.Code, "booking stays public")
	var created struct {
		Data booking.Confirmation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/v1/appointments", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodPut, "/api/v1/services/corte-caballero/price", "", map[string]int{"price": 1}).Code)

	w = request(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@noratob.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Data.AccessToken
	require.NotEmpty(t, token)

	w = request(r, http.MethodPatch, "/api/v1/appointments/"+created.Data.ID+"/status", token, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusOK, w.Code)

	staffToken, _, err := utils.GenerateAccessToken(&models.Staff{Email: "ana@noratob.com", Role: models.RoleStaff}, "test-secret", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "/api/v1/appointments", staffToken, nil).Code)
}

func TestBookingIsRateLimited(t *testing.T) {
	r := newServer(t, testConfig(), middleware.NewLocalLimiter(0.001, 2))

	codes := make([]int, 0, 3)
	for _, slot := range []string{"10:00 AM", "10:30 AM", "11:00 AM"} {
		b := anaBooking()
		b["time"] = slot
		codes = append(codes, request(r, http.MethodPost, "/api/v1/appointments", "", b).Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// reads are not limited
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/v1/services", "", nil).Code)
	// login has its own bucket
	w := request(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@noratob.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), utils.CodeUnauthorized))
}
