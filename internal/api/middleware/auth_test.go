package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func authTestServer(secret string) *echo.Echo {
	e := echo.New()
	e.Use(SharedSecretAuth(secret, nil))
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/ready", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/api/sync/run", func(c echo.Context) error { return c.String(http.StatusOK, "ran") })
	return e
}

func TestSharedSecretAuth_ValidSecret(t *testing.T) {
	e := authTestServer("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/api/sync/run", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSharedSecretAuth_MissingHeader(t *testing.T) {
	e := authTestServer("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/api/sync/run", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSharedSecretAuth_WrongSecret(t *testing.T) {
	e := authTestServer("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/api/sync/run", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSharedSecretAuth_TokenWithoutBearerPrefix(t *testing.T) {
	e := authTestServer("s3cret")

	// A bare token is accepted; only the Bearer prefix is optional
	req := httptest.NewRequest(http.MethodPost, "/api/sync/run", nil)
	req.Header.Set("Authorization", "s3cret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSharedSecretAuth_HealthEndpointsSkipped(t *testing.T) {
	e := authTestServer("s3cret")

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestSharedSecretAuth_EmptySecretDisablesAuth(t *testing.T) {
	e := authTestServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/sync/run", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
