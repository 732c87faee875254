package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outreachly/replysync-backend/internal/api"
	"github.com/outreachly/replysync-backend/internal/config"
	"github.com/outreachly/replysync-backend/internal/database"
	"github.com/outreachly/replysync-backend/internal/logger"
	"github.com/outreachly/replysync-backend/internal/provider"
	"github.com/outreachly/replysync-backend/internal/repository"
	syncengine "github.com/outreachly/replysync-backend/internal/sync"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting reply sync backend", slog.String("version", version))
	cfg.LogConfig(log)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	cursorRepo := repository.NewCursorRepository(db)
	lockRepo := repository.NewLockRepository(db)

	// Provider adapters over the mailbox APIs
	registry := provider.NewRegistry(
		provider.NewGoogleAdapter(provider.NewGmailHTTPClient(
			cfg.GoogleAPIBaseURL, nil, provider.StaticTokenSource(cfg.GoogleAPIToken))),
		provider.NewMicrosoftAdapter(provider.NewGraphHTTPClient(
			cfg.MicrosoftAPIBaseURL, nil, provider.StaticTokenSource(cfg.MicrosoftAPIToken))),
	)

	// Sync engine
	limiter := syncengine.NewProviderLimiter(cfg.ProviderRateLimit, cfg.ProviderRateBurst)
	recorder := syncengine.NewReplyRecorder(replyRepo, log)
	orchestrator := syncengine.NewOrchestrator(
		accountRepo, messageRepo, cursorRepo, lockRepo, recorder, registry, limiter,
		syncengine.OrchestratorConfig{
			LockKey:      cfg.LockKey,
			LockTTL:      cfg.LockTTL,
			PassTimeout:  cfg.PassTimeout,
			WorkerCount:  cfg.SyncWorkers,
			FetchLimit:   cfg.FetchLimit,
			LookbackDays: cfg.LookbackDays,
		},
		log,
	)

	// Optional in-process scheduler; the default deployment relies on an
	// external cron hitting the trigger endpoint instead.
	var scheduler *syncengine.Scheduler
	if cfg.SyncInterval > 0 {
		scheduler = syncengine.NewScheduler(orchestrator, cfg.SyncInterval, log)
		scheduler.Start()
	}

	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Orchestrator:   orchestrator,
		Accounts:       accountRepo,
		Cursors:        cursorRepo,
		Replies:        replyRepo,
		Threads:        threadRepo,
		Messages:       messageRepo,
		Logger:         log,
		SyncSecret:     cfg.SyncSecret,
		RateLimitRPS:   cfg.RateLimitRequests,
		RateLimitBurst: cfg.RateLimitBurst,
		Version:        version,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		log.Info("http server listening", slog.String("addr", addr))
		if err := router.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}
