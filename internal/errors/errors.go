package errors

import (
	"errors"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccountNotFound indicates the email account was not found
	ErrAccountNotFound = errors.New("account not found")

	// ErrThreadNotFound indicates the thread was not found
	ErrThreadNotFound = errors.New("thread not found")

	// ErrReplyNotFound indicates the reply was not found
	ErrReplyNotFound = errors.New("reply not found")

	// ErrUnsupportedProvider indicates no adapter exists for a provider
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrSyncAlreadyRunning indicates a pass holds the run lock
	ErrSyncAlreadyRunning = errors.New("sync already running")

	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicateEntry      = "DUPLICATE_ENTRY"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
	CodeSyncAlreadyRunning  = "SYNC_ALREADY_RUNNING"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternalError       = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrThreadNotFound),
		errors.Is(err, ErrReplyNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicateEntry):
		return CodeDuplicateEntry
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrUnsupportedProvider):
		return CodeUnsupportedProvider
	case errors.Is(err, ErrSyncAlreadyRunning):
		return CodeSyncAlreadyRunning
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternalError
	}
}
