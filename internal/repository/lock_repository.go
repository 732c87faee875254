package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/outreachly/replysync-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockRepository provides the TTL-bounded run lock preventing overlapping
// synchronization passes. The lock is an optimization, not a correctness
// requirement: every write it guards is independently idempotent.
type LockRepository interface {
	// Acquire claims the named lock for the holder if it is free or its
	// previous claim has expired. Returns false without error on contention.
	Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error)
	// Release frees the lock if the holder still owns it. Best effort; an
	// unreleased lock clears itself via TTL.
	Release(ctx context.Context, key, holder string) error
}

// lockRepository implements LockRepository using GORM
type lockRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLockRepository creates a new LockRepository instance
func NewLockRepository(db *gorm.DB) LockRepository {
	return &lockRepository{db: db, now: time.Now}
}

// NewLockRepositoryWithClock creates a LockRepository with an injected clock,
// so tests can control expiry.
func NewLockRepositoryWithClock(db *gorm.DB, now func() time.Time) LockRepository {
	return &lockRepository{db: db, now: now}
}

// Acquire performs a single atomic insert-or-steal: the insert takes the lock
// when no row exists, and the conflict branch takes it over only when the
// existing claim has expired. RowsAffected == 0 means someone else holds it.
func (r *lockRepository) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	now := r.now().UTC()
	lock := models.SyncLock{
		Key:       key,
		Holder:    holder,
		ExpiresAt: now.Add(ttl),
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"holder":     lock.Holder,
			"expires_at": lock.ExpiresAt,
			"updated_at": now,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Lte{Column: clause.Column{Table: "sync_locks", Name: "expires_at"}, Value: now},
		}},
	}).Create(&lock)
	if result.Error != nil {
		return false, fmt.Errorf("failed to acquire lock %q: %w", key, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Release deletes the lock row, but only for its current holder so a slow
// pass cannot free a lock that has since been taken over.
func (r *lockRepository) Release(ctx context.Context, key, holder string) error {
	result := r.db.WithContext(ctx).
		Where("key = ? AND holder = ?", key, holder).
		Delete(&models.SyncLock{})
	if result.Error != nil {
		return fmt.Errorf("failed to release lock %q: %w", key, result.Error)
	}
	return nil
}
