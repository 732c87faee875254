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

// ThreadsHandler serves conversation threads and their messages
type ThreadsHandler struct {
	threads  repository.ThreadRepository
	messages repository.MessageRepository
	logger   *slog.Logger
}

// NewThreadsHandler creates a new ThreadsHandler
func NewThreadsHandler(threads repository.ThreadRepository, messages repository.MessageRepository, logger *slog.Logger) *ThreadsHandler {
	return &ThreadsHandler{
		threads:  threads,
		messages: messages,
		logger:   logger,
	}
}

// Get handles GET /api/threads/:id
func (h *ThreadsHandler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid thread id")
	}

	thread, err := h.threads.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "thread not found")
		}
		h.logger.Error("failed to get thread",
			slog.Uint64("thread_id", uint64(id)),
			slog.String("error", err.Error()))
		return response.InternalError(c, "failed to get thread")
	}

	return response.Success(c, thread)
}

// ListByAccount handles GET /api/accounts/:id/threads
func (h *ThreadsHandler) ListByAccount(c echo.Context) error {
	accountID, err := parseID(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid account id")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	threads, total, err := h.threads.ListByAccount(c.Request().Context(), accountID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list threads",
			slog.Uint64("account_id", uint64(accountID)),
			slog.String("error", err.Error()))
		return response.InternalError(c, "failed to list threads")
	}

	return response.Paginated(c, threads, total, limit, offset)
}

// Messages handles GET /api/threads/:id/messages
func (h *ThreadsHandler) Messages(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid thread id")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	messages, total, err := h.messages.ListByThread(c.Request().Context(), id, limit, offset)
	if err != nil {
		h.logger.Error("failed to list thread messages",
			slog.Uint64("thread_id", uint64(id)),
			slog.String("error", err.Error()))
		return response.InternalError(c, "failed to list thread messages")
	}

	return response.Paginated(c, messages, total, limit, offset)
}

// MarkRead handles PATCH /api/threads/:id/read
// Clears the unread-replies flag after the user views the thread.
func (h *ThreadsHandler) MarkRead(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid thread id")
	}

	if err := h.threads.MarkRead(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "thread not found")
		}
		h.logger.Error("failed to mark thread read",
			slog.Uint64("thread_id", uint64(id)),
			slog.String("error", err.Error()))
		return response.InternalError(c, "failed to mark thread read")
	}

	return response.SuccessWithMessage(c, nil, "thread marked read")
}

// parseID parses a positive numeric path parameter
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
