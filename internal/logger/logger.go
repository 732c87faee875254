// Package logger provides structured logging for the reply sync backend.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// New creates a JSON slog.Logger at the given level ("debug", "info",
// "warn", "error"; anything else falls back to info).
func New(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

// parseLevel maps a config string to a slog level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SecurityLogger provides methods for logging security-related events on the
// trigger API. It never logs credentials.
type SecurityLogger struct {
	logger *slog.Logger
}

// NewSecurityLogger creates a new SecurityLogger with JSON output
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: New("info")}
}

// NewSecurityLoggerWithHandler creates a SecurityLogger with a custom handler
func NewSecurityLoggerWithHandler(handler slog.Handler) *SecurityLogger {
	return &SecurityLogger{logger: slog.New(handler)}
}

// NewSecurityLoggerFrom wraps an existing logger, so security events share
// the process log stream
func NewSecurityLoggerFrom(log *slog.Logger) *SecurityLogger {
	if log == nil {
		return NewSecurityLogger()
	}
	return &SecurityLogger{logger: log}
}

// AuthFailure logs a failed authentication attempt.
// Never logs the presented secret.
func (s *SecurityLogger) AuthFailure(ip, path, reason string) {
	s.logger.Warn("authentication_failure",
		slog.String("event_type", "auth_failure"),
		slog.String("ip", ip),
		slog.String("path", path),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// RateLimitExceeded logs when a client exceeds rate limits
func (s *SecurityLogger) RateLimitExceeded(ip, path string) {
	s.logger.Warn("rate_limit_exceeded",
		slog.String("event_type", "rate_limit"),
		slog.String("ip", ip),
		slog.String("path", path),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// GetLogger returns the underlying slog.Logger for use with middleware
func (s *SecurityLogger) GetLogger() *slog.Logger {
	return s.logger
}
