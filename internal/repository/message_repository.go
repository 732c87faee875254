package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/outreachly/replysync-backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for unified thread message access.
// Sent rows are written by the outbound path and read here as the match
// candidates; received rows are written by the reply recorder.
type MessageRepository interface {
	Create(ctx context.Context, message *models.EmailMessage) error
	ListSentSince(ctx context.Context, accountID uint, since time.Time) ([]models.EmailMessage, error)
	ListByThread(ctx context.Context, threadID uint, limit, offset int) ([]models.EmailMessage, int64, error)
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a message row. A unique-constraint hit on
// (account_id, provider_message_id) surfaces as ErrDuplicateEntry.
func (r *messageRepository) Create(ctx context.Context, message *models.EmailMessage) error {
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create message: %w", result.Error)
	}
	return nil
}

// ListSentSince retrieves outbound messages for an account sent after the
// given time, most recent last. The resolver builds its match indices from
// this set, so the ascending order makes "last entry wins" equal
// "most recently sent wins" for the address index.
func (r *messageRepository) ListSentSince(ctx context.Context, accountID uint, since time.Time) ([]models.EmailMessage, error) {
	var messages []models.EmailMessage
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND direction = ? AND occurred_at > ?", accountID, models.DirectionSent, since).
		Order("occurred_at ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", result.Error)
	}
	return messages, nil
}

// ListByThread retrieves the messages of one thread with pagination, oldest
// first for conversation rendering.
func (r *messageRepository) ListByThread(ctx context.Context, threadID uint, limit, offset int) ([]models.EmailMessage, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.EmailMessage{}).Where("thread_id = ?", threadID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count thread messages: %w", err)
	}

	var messages []models.EmailMessage
	result := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("occurred_at ASC").
		Limit(limit).Offset(offset).
		Find(&messages)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list thread messages: %w", result.Error)
	}
	return messages, total, nil
}
