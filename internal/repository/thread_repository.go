package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/outreachly/replysync-backend/internal/models"
	"gorm.io/gorm"
)

// ThreadRepository defines the interface for thread data access
type ThreadRepository interface {
	GetByID(ctx context.Context, id uint) (*models.EmailThread, error)
	ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]models.EmailThread, int64, error)
	MarkRead(ctx context.Context, id uint) error
}

// threadRepository implements ThreadRepository using GORM
type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new ThreadRepository instance
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// GetByID retrieves a thread by its ID
func (r *threadRepository) GetByID(ctx context.Context, id uint) (*models.EmailThread, error) {
	var thread models.EmailThread
	result := r.db.WithContext(ctx).First(&thread, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread by ID: %w", result.Error)
	}
	return &thread, nil
}

// ListByAccount retrieves threads for an account with pagination, most
// recently active first.
func (r *threadRepository) ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]models.EmailThread, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.EmailThread{}).Where("account_id = ?", accountID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count threads: %w", err)
	}

	var threads []models.EmailThread
	result := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("last_message_at DESC NULLS LAST").
		Limit(limit).Offset(offset).
		Find(&threads)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list threads: %w", result.Error)
	}
	return threads, total, nil
}

// MarkRead clears the unread-replies flag on a thread
func (r *threadRepository) MarkRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.EmailThread{}).
		Where("id = ?", id).
		Update("has_unread_replies", false)
	if result.Error != nil {
		return fmt.Errorf("failed to mark thread read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
