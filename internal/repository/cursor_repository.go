package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/outreachly/replysync-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CursorRepository persists the per (account, provider) poll watermark
type CursorRepository interface {
	// GetCursor returns the last successfully processed poll time, or the
	// given default when no cursor exists yet.
	GetCursor(ctx context.Context, accountID uint, provider string, fallback time.Time) (time.Time, error)
	// SetCursor upserts the watermark for an account and provider.
	SetCursor(ctx context.Context, accountID uint, provider string, checkedAt time.Time) error
	// ListByAccount returns all cursors for one account.
	ListByAccount(ctx context.Context, accountID uint) ([]models.SyncCursor, error)
}

// cursorRepository implements CursorRepository using GORM
type cursorRepository struct {
	db *gorm.DB
}

// NewCursorRepository creates a new CursorRepository instance
func NewCursorRepository(db *gorm.DB) CursorRepository {
	return &cursorRepository{db: db}
}

// GetCursor returns the stored watermark or the fallback when absent
func (r *cursorRepository) GetCursor(ctx context.Context, accountID uint, provider string, fallback time.Time) (time.Time, error) {
	var cursor models.SyncCursor
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND provider = ?", accountID, provider).
		First(&cursor)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fallback, nil
		}
		return time.Time{}, fmt.Errorf("failed to get cursor: %w", result.Error)
	}
	return cursor.LastCheckedAt, nil
}

// SetCursor upserts the watermark in one statement
func (r *cursorRepository) SetCursor(ctx context.Context, accountID uint, provider string, checkedAt time.Time) error {
	cursor := models.SyncCursor{
		AccountID:     accountID,
		Provider:      provider,
		LastCheckedAt: checkedAt,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_checked_at", "updated_at"}),
	}).Create(&cursor)
	if result.Error != nil {
		return fmt.Errorf("failed to set cursor: %w", result.Error)
	}
	return nil
}

// ListByAccount returns all cursors for one account
func (r *cursorRepository) ListByAccount(ctx context.Context, accountID uint) ([]models.SyncCursor, error) {
	var cursors []models.SyncCursor
	result := r.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&cursors)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list cursors: %w", result.Error)
	}
	return cursors, nil
}
