package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/outreachly/replysync-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReplyRepository defines the interface for reply data access
type ReplyRepository interface {
	// Record applies one detected reply as a single atomic unit: the reply
	// row, its mirrored received message, the thread counter/status update
	// and the contact update. Returns ErrDuplicateEntry without side effects
	// when the reply was already recorded by an earlier pass.
	Record(ctx context.Context, reply *models.Reply, mirror *models.EmailMessage) error
	GetByExternalID(ctx context.Context, externalID string) (*models.Reply, error)
	List(ctx context.Context, processed *bool, limit, offset int) ([]models.Reply, int64, error)
	MarkProcessed(ctx context.Context, externalID string) error
	CountByAccount(ctx context.Context, accountID uint) (int64, error)
}

// replyRepository implements ReplyRepository using GORM
type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository instance
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

// Record inserts the reply and its mirror and advances thread and contact
// state in one transaction. The unique index on
// (account_id, provider_message_id) is the sole idempotency gate: a conflict
// there rolls the whole transaction back and reports ErrDuplicateEntry.
func (r *replyRepository) Record(ctx context.Context, reply *models.Reply, mirror *models.EmailMessage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrDuplicateEntry
			}
			return fmt.Errorf("failed to insert reply: %w", err)
		}

		// The mirror row may already exist if another flow recorded the same
		// provider message; skip the insert but keep the thread message count
		// honest by only counting rows actually written.
		mirrorRes := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mirror)
		if mirrorRes.Error != nil {
			return fmt.Errorf("failed to insert mirrored message: %w", mirrorRes.Error)
		}
		messageDelta := int(mirrorRes.RowsAffected)

		threadUpdates := map[string]interface{}{
			"message_count":      gorm.Expr("message_count + ?", messageDelta),
			"reply_count":        gorm.Expr("reply_count + 1"),
			"status":             models.ThreadStatusReplied,
			"has_unread_replies": true,
			"last_message_at":    reply.ReceivedAt,
			"last_reply_at":      reply.ReceivedAt,
		}
		threadRes := tx.Model(&models.EmailThread{}).Where("id = ?", reply.ThreadID).Updates(threadUpdates)
		if threadRes.Error != nil {
			return fmt.Errorf("failed to update thread: %w", threadRes.Error)
		}
		if threadRes.RowsAffected == 0 {
			return fmt.Errorf("thread %d: %w", reply.ThreadID, ErrNotFound)
		}

		if err := tx.Model(&models.Contact{}).Where("id = ?", reply.ContactID).
			Update("status", models.ContactStatusReplied).Error; err != nil {
			return fmt.Errorf("failed to update contact status: %w", err)
		}

		// First reply wins for reply_received_at; a later reply replayed out
		// of order must not overwrite an earlier timestamp.
		if err := tx.Model(&models.Contact{}).
			Where("id = ? AND (reply_received_at IS NULL OR reply_received_at > ?)", reply.ContactID, reply.ReceivedAt).
			Update("reply_received_at", reply.ReceivedAt).Error; err != nil {
			return fmt.Errorf("failed to update contact reply time: %w", err)
		}

		return nil
	})
	return err
}

// GetByExternalID retrieves a reply by its external UUID
func (r *replyRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Reply, error) {
	var reply models.Reply
	result := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&reply)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reply: %w", result.Error)
	}
	return &reply, nil
}

// List retrieves replies with pagination, newest first. A nil processed
// filter returns all replies.
func (r *replyRepository) List(ctx context.Context, processed *bool, limit, offset int) ([]models.Reply, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Reply{})
	if processed != nil {
		query = query.Where("processed = ?", *processed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count replies: %w", err)
	}

	var replies []models.Reply
	result := query.Order("received_at DESC").Limit(limit).Offset(offset).Find(&replies)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list replies: %w", result.Error)
	}
	return replies, total, nil
}

// MarkProcessed flags a reply as consumed by the downstream notifier
func (r *replyRepository) MarkProcessed(ctx context.Context, externalID string) error {
	result := r.db.WithContext(ctx).Model(&models.Reply{}).
		Where("external_id = ?", externalID).
		Update("processed", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark reply processed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByAccount counts recorded replies for one account
func (r *replyRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Reply{}).Where("account_id = ?", accountID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count replies: %w", result.Error)
	}
	return count, nil
}
