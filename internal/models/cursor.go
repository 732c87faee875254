package models

import (
	"time"
)

// SyncCursor is the per (account, provider) poll watermark. It is advanced
// once per pass, after the account's batch finished, with the wall-clock time
// the poll started. That trades a little re-scanning for never skipping a
// message that arrived while the poll ran.
type SyncCursor struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AccountID     uint      `gorm:"not null;uniqueIndex:ux_cursors_account_provider,priority:1" json:"account_id"`
	Provider      string    `gorm:"not null;size:32;uniqueIndex:ux_cursors_account_provider,priority:2" json:"provider"`
	LastCheckedAt time.Time `gorm:"not null" json:"last_checked_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for SyncCursor
func (SyncCursor) TableName() string {
	return "sync_cursors"
}
