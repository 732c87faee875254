package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        *gorm.DB
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
}

// Health handles GET /health
// Liveness probe: the process is up and serving.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready handles GET /ready
// Readiness probe: the store is reachable, so a sync pass could run.
func (h *HealthHandler) Ready(c echo.Context) error {
	checks := make(map[string]string)
	status := http.StatusOK

	if err := h.pingDatabase(c); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	overall := "ready"
	if status != http.StatusOK {
		overall = "not ready"
	}

	return c.JSON(status, ReadyResponse{
		Status:  overall,
		Checks:  checks,
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// pingDatabase verifies database connectivity
func (h *HealthHandler) pingDatabase(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request().Context())
}
