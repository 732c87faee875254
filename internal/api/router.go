// Package api wires the HTTP surface of the reply sync backend.
package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/outreachly/replysync-backend/internal/api/handlers"
	"github.com/outreachly/replysync-backend/internal/api/middleware"
	"github.com/outreachly/replysync-backend/internal/repository"
	syncengine "github.com/outreachly/replysync-backend/internal/sync"
)

// RouterConfig holds the dependencies of the HTTP router
type RouterConfig struct {
	DB           *gorm.DB
	Orchestrator *syncengine.Orchestrator
	Accounts     repository.AccountRepository
	Cursors      repository.CursorRepository
	Replies      repository.ReplyRepository
	Threads      repository.ThreadRepository
	Messages     repository.MessageRepository
	Logger       *slog.Logger

	// SyncSecret guards every /api route; empty disables auth (development)
	SyncSecret string
	// RateLimitRPS and RateLimitBurst bound per-IP request rates
	RateLimitRPS   float64
	RateLimitBurst int
	Version        string
}

// NewRouter creates and configures the Echo router
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(middleware.Recover())
	e.Use(echomw.Secure())
	if cfg.RateLimitRPS > 0 {
		e.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}
	e.Use(middleware.SharedSecretAuth(cfg.SyncSecret, cfg.Logger))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Version)
	syncHandler := handlers.NewSyncHandler(cfg.Orchestrator, cfg.Accounts, cfg.Cursors, cfg.Logger)
	repliesHandler := handlers.NewRepliesHandler(cfg.Replies, cfg.Logger)
	threadsHandler := handlers.NewThreadsHandler(cfg.Threads, cfg.Messages, cfg.Logger)

	// Health endpoints (unauthenticated)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	api := e.Group("/api")

	// Sync trigger surface for the external scheduler
	api.POST("/sync/run", syncHandler.Run)
	api.GET("/sync/status", syncHandler.Status)

	// Recorded replies for downstream consumers
	api.GET("/replies", repliesHandler.List)
	api.GET("/replies/:id", repliesHandler.Get)
	api.PATCH("/replies/:id/processed", repliesHandler.MarkProcessed)

	// Conversation threads
	api.GET("/threads/:id", threadsHandler.Get)
	api.GET("/threads/:id/messages", threadsHandler.Messages)
	api.PATCH("/threads/:id/read", threadsHandler.MarkRead)
	api.GET("/accounts/:id/threads", threadsHandler.ListByAccount)

	return e
}
