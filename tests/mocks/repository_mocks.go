// Package mocks provides testify mocks for repository and provider
// interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/outreachly/replysync-backend/internal/models"
)

// MockAccountRepository implements repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// Create creates a new email account
func (m *MockAccountRepository) Create(ctx context.Context, account *models.EmailAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// GetByID retrieves an account by its ID
func (m *MockAccountRepository) GetByID(ctx context.Context, id uint) (*models.EmailAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailAccount), args.Error(1)
}

// ListConnected retrieves all sync-enabled accounts
func (m *MockAccountRepository) ListConnected(ctx context.Context) ([]models.EmailAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmailAccount), args.Error(1)
}

// MockMessageRepository implements repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Create inserts a message row
func (m *MockMessageRepository) Create(ctx context.Context, message *models.EmailMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// ListSentSince retrieves outbound messages sent after the given time
func (m *MockMessageRepository) ListSentSince(ctx context.Context, accountID uint, since time.Time) ([]models.EmailMessage, error) {
	args := m.Called(ctx, accountID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmailMessage), args.Error(1)
}

// ListByThread retrieves the messages of one thread
func (m *MockMessageRepository) ListByThread(ctx context.Context, threadID uint, limit, offset int) ([]models.EmailMessage, int64, error) {
	args := m.Called(ctx, threadID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.EmailMessage), args.Get(1).(int64), args.Error(2)
}

// MockReplyRepository implements repository.ReplyRepository
type MockReplyRepository struct {
	mock.Mock
}

// Record applies one detected reply atomically
func (m *MockReplyRepository) Record(ctx context.Context, reply *models.Reply, mirror *models.EmailMessage) error {
	args := m.Called(ctx, reply, mirror)
	return args.Error(0)
}

// GetByExternalID retrieves a reply by its external UUID
func (m *MockReplyRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Reply, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reply), args.Error(1)
}

// List retrieves replies with pagination
func (m *MockReplyRepository) List(ctx context.Context, processed *bool, limit, offset int) ([]models.Reply, int64, error) {
	args := m.Called(ctx, processed, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Reply), args.Get(1).(int64), args.Error(2)
}

// MarkProcessed flags a reply as consumed
func (m *MockReplyRepository) MarkProcessed(ctx context.Context, externalID string) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}

// CountByAccount counts recorded replies for one account
func (m *MockReplyRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockThreadRepository implements repository.ThreadRepository
type MockThreadRepository struct {
	mock.Mock
}

// GetByID retrieves a thread by its ID
func (m *MockThreadRepository) GetByID(ctx context.Context, id uint) (*models.EmailThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailThread), args.Error(1)
}

// ListByAccount retrieves threads for an account
func (m *MockThreadRepository) ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]models.EmailThread, int64, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.EmailThread), args.Get(1).(int64), args.Error(2)
}

// MarkRead clears the unread-replies flag on a thread
func (m *MockThreadRepository) MarkRead(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCursorRepository implements repository.CursorRepository
type MockCursorRepository struct {
	mock.Mock
}

// GetCursor returns the stored watermark or the fallback
func (m *MockCursorRepository) GetCursor(ctx context.Context, accountID uint, provider string, fallback time.Time) (time.Time, error) {
	args := m.Called(ctx, accountID, provider, fallback)
	return args.Get(0).(time.Time), args.Error(1)
}

// SetCursor upserts the watermark
func (m *MockCursorRepository) SetCursor(ctx context.Context, accountID uint, provider string, checkedAt time.Time) error {
	args := m.Called(ctx, accountID, provider, checkedAt)
	return args.Error(0)
}

// ListByAccount returns all cursors for one account
func (m *MockCursorRepository) ListByAccount(ctx context.Context, accountID uint) ([]models.SyncCursor, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SyncCursor), args.Error(1)
}

// MockLockRepository implements repository.LockRepository
type MockLockRepository struct {
	mock.Mock
}

// Acquire claims the named lock
func (m *MockLockRepository) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, holder, ttl)
	return args.Bool(0), args.Error(1)
}

// Release frees the lock if the holder still owns it
func (m *MockLockRepository) Release(ctx context.Context, key, holder string) error {
	args := m.Called(ctx, key, holder)
	return args.Error(0)
}
