package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-booking-server/internal/metrics"
	"salon-booking-server/internal/models"
	"salon-booking-server/internal/utils"
	"salon-booking-server/pkg/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(secret string, roles ...models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthMiddleware(secret), RoleAuthMiddleware(roles...), func(c *gin.Context) {
		email, _ := GetStaffEmailFromContext(c)
		c.String(http.StatusOK, email)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter("secret", models.RoleAdmin)
	admin, _, err := utils.GenerateAccessToken(&models.Staff{Email: "admin@norato.co", Role: models.RoleAdmin}, "secret", time.Minute)
	require.NoError(t, err)
	staff, _, err := utils.GenerateAccessToken(&models.Staff{Email: "ana@norato.co", Role: models.RoleStaff}, "secret", time.Minute)
	require.NoError(t, err)

	w := get(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body utils.ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, utils.CodeUnauthorized, body.Code)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "Token "+admin).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "Bearer garbage").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/private", "Bearer "+staff).Code)

	w = get(r, "/private", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@norato.co", w.Body.String())
}

func TestLocalLimiter(t *testing.T) {
	l := NewLocalLimiter(1, 2)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "call %d", i)
	}
	ok, _ := l.Allow(ctx, "b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok, "token refilled")

	now = now.Add(10 * time.Minute)
	_, _ = l.Allow(ctx, "c")
	assert.Len(t, l.visitors, 1, "idle visitors swept")
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLimiter(rdb, 2, time.Minute, "test")
	ctx := context.Background()
	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "call %d", i)
	}
	assert.True(t, mr.Exists("test:1.2.3.4"))

	mr.FastForward(time.Minute + time.Millisecond)
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, assert.AnError
}

func TestRateLimitMiddleware(t *testing.T) {
	quiet := logging.NewWithWriter(&bytes.Buffer{}, "error")
	r := gin.New()
	r.GET("/limited", RateLimit(NewLocalLimiter(0.001, 1), "book", quiet), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/open", RateLimit(brokenLimiter{}, "book", quiet), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, get(r, "/limited", "").Code)
	w := get(r, "/limited", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), utils.CodeRateLimited)

	assert.Equal(t, http.StatusNoContent, get(r, "/open", "").Code)
}

func TestRequestLoggerAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	r := gin.New()
	r.Use(RequestLogger(logging.NewWithWriter(&buf, "info")), Metrics(metrics.NewHTTPMetrics(reg)))
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/things/42", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"status":200`)

	w = get(r, "/things/43", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	n, err := testutil.GatherAndCount(reg, "salon_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
