package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/outreachly/replysync-backend/internal/api/response"
	"github.com/outreachly/replysync-backend/internal/repository"
	"github.com/outreachly/replysync-backend/internal/validator"
)

// RepliesHandler serves the recorded replies to downstream consumers
type RepliesHandler struct {
	replies repository.ReplyRepository
	logger  *slog.Logger
}

// NewRepliesHandler creates a new RepliesHandler
func NewRepliesHandler(replies repository.ReplyRepository, logger *slog.Logger) *RepliesHandler {
	return &RepliesHandler{
		replies: replies,
		logger:  logger,
	}
}

// List handles GET /api/replies
// Query params: processed (true/false, optional filter), limit, offset
func (h *RepliesHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	var processed *bool
	if raw := c.QueryParam("processed"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BadRequest(c, "processed must be true or false")
		}
		processed = &val
	}

	replies, total, err := h.replies.List(c.Request().Context(), processed, limit, offset)
	if err != nil {
		h.logger.Error("failed to list replies", slog.String("error", err.Error()))
		return response.InternalError(c, "failed to list replies")
	}

	return response.Paginated(c, replies, total, limit, offset)
}

// Get handles GET /api/replies/:id where id is the reply's external UUID
func (h *RepliesHandler) Get(c echo.Context) error {
	externalID := c.Param("id")
	if externalID == "" {
		return response.BadRequest(c, "reply id is required")
	}

	reply, err := h.replies.GetByExternalID(c.Request().Context(), externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "reply not found")
		}
		h.logger.Error("failed to get reply",
			slog.String("external_id", externalID),
			slog.String("error", err.Error()))
		return response.InternalError(c, "failed to get reply")
	}

	return response.Success(c, reply)
}

// MarkProcessed handles PATCH /api/replies/:id/processed
// Flags the reply as consumed so the downstream notifier does not pick it
// up again.
func (h *RepliesHandler) MarkProcessed(c echo.Context) error {
	externalID := c.Param("id")
	if externalID == "" {
		return response.BadRequest(c, "reply id is required")
	}

	err := h.replies.MarkProcessed(c.Request().Context(), externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "reply not found")
		}
		h.logger.Error("failed to mark reply processed",
			slog.String("external_id", externalID),
			slog.String("error", err.Error()))
		return response.InternalError(c, "failed to mark reply processed")
	}

	return response.SuccessWithMessage(c, nil, "reply marked processed")
}
