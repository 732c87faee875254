package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func rateLimitedServer(rps float64, burst int) *echo.Echo {
	e := echo.New()
	e.Use(RateLimiter(rps, burst, nil))
	e.GET("/api/replies", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	e := rateLimitedServer(1, 3)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/replies", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	e := rateLimitedServer(0.001, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/replies", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/replies", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_LimitsPerIP(t *testing.T) {
	e := rateLimitedServer(0.001, 1)

	// First client drains its bucket
	req := httptest.NewRequest(http.MethodGet, "/api/replies", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A different client is unaffected
	req = httptest.NewRequest(http.MethodGet, "/api/replies", nil)
	req.RemoteAddr = "198.51.100.7:4321"
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter_CleanupResetsState(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)

	first := limiter.GetLimiter("203.0.113.9")
	limiter.CleanupOldEntries()
	second := limiter.GetLimiter("203.0.113.9")

	assert.NotSame(t, first, second)
}
