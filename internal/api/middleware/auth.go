// Package middleware provides HTTP middleware for the trigger API.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	applogger "github.com/outreachly/replysync-backend/internal/logger"
)

// SharedSecretAuth validates the scheduler's shared secret from the
// Authorization header. The secret is injected rather than read from the
// environment so tests and the composition root control it.
// Uses constant-time comparison to prevent timing attacks.
func SharedSecretAuth(secret string, logger *slog.Logger) echo.MiddlewareFunc {
	if secret == "" && logger != nil {
		logger.Warn("SYNC_SECRET not set - trigger API is UNSECURED")
	}
	secLogger := applogger.NewSecurityLoggerFrom(logger)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()

			// Skip auth for health endpoints
			if strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/ready") {
				return next(c)
			}

			// Skip if no secret configured (development mode)
			if secret == "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				secLogger.AuthFailure(c.RealIP(), path, "missing authorization header")
				return echo.NewHTTPError(401, map[string]string{
					"error": "missing authorization header",
					"code":  "UNAUTHORIZED",
				})
			}

			// Extract token from "Bearer <token>" format
			token := strings.TrimPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)

			// Use constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				secLogger.AuthFailure(c.RealIP(), path, "invalid secret")
				return echo.NewHTTPError(401, map[string]string{
					"error": "invalid secret",
					"code":  "UNAUTHORIZED",
				})
			}

			return next(c)
		}
	}
}
