// Package handlers contains the HTTP handlers for the trigger API.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/outreachly/replysync-backend/internal/api/response"
	"github.com/outreachly/replysync-backend/internal/models"
	"github.com/outreachly/replysync-backend/internal/repository"
	syncengine "github.com/outreachly/replysync-backend/internal/sync"
)

// SyncHandler exposes the trigger surface over the sync orchestrator
type SyncHandler struct {
	orchestrator *syncengine.Orchestrator
	accounts     repository.AccountRepository
	cursors      repository.CursorRepository
	logger       *slog.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(
	orchestrator *syncengine.Orchestrator,
	accounts repository.AccountRepository,
	cursors repository.CursorRepository,
	logger *slog.Logger,
) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		accounts:     accounts,
		cursors:      cursors,
		logger:       logger,
	}
}

// accountCursors pairs one connected account with its poll watermarks
type accountCursors struct {
	AccountID uint                `json:"accountId"`
	Email     string              `json:"email"`
	Cursors   []models.SyncCursor `json:"cursors"`
}

// syncStatus is the GET /api/sync/status payload
type syncStatus struct {
	LastPass *syncengine.Summary `json:"lastPass"`
	Cursors  []accountCursors    `json:"cursors"`
}

// Run handles POST /api/sync/run
// Executes one synchronization pass and returns the per-account summary.
// A pass already holding the run lock is reported as a 200 with
// alreadyRunning set, not an error; the external scheduler treats both
// the same way.
func (h *SyncHandler) Run(c echo.Context) error {
	summary, err := h.orchestrator.RunPass(c.Request().Context())
	if err != nil {
		h.logger.Error("sync pass failed", slog.String("error", err.Error()))
		return response.Error(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// Status handles GET /api/sync/status
// Returns the summary of the most recent pass run by this process plus the
// current per-account cursors, or 404 before the first pass.
func (h *SyncHandler) Status(c echo.Context) error {
	summary := h.orchestrator.LastSummary()
	if summary == nil {
		return response.NotFound(c, "no sync pass has run yet")
	}

	ctx := c.Request().Context()
	accounts, err := h.accounts.ListConnected(ctx)
	if err != nil {
		h.logger.Error("failed to list accounts for status", slog.String("error", err.Error()))
		return response.Error(c, err)
	}

	status := syncStatus{LastPass: summary, Cursors: make([]accountCursors, 0, len(accounts))}
	for _, account := range accounts {
		cursors, err := h.cursors.ListByAccount(ctx, account.ID)
		if err != nil {
			h.logger.Error("failed to list cursors for status",
				slog.Uint64("account_id", uint64(account.ID)),
				slog.String("error", err.Error()))
			return response.Error(c, err)
		}
		status.Cursors = append(status.Cursors, accountCursors{
			AccountID: account.ID,
			Email:     account.Email,
			Cursors:   cursors,
		})
	}

	return response.Success(c, status)
}
