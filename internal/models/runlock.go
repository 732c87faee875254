package models

import (
	"time"
)

// SyncLock backs the distributed run lock. A row is claimed with a single
// atomic upsert that only succeeds when the existing claim has expired, so a
// crashed holder self-clears after the TTL.
type SyncLock struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Holder    string    `gorm:"not null;size:64" json:"holder"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for SyncLock
func (SyncLock) TableName() string {
	return "sync_locks"
}
