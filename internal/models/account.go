package models

import (
	"time"
)

// Supported mailbox providers
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// EmailAccount represents a connected sending mailbox. Token refresh and the
// provider OAuth dance are handled by the provider clients; this row only
// carries what the sync engine needs to drive a poll.
type EmailAccount struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Provider    string    `gorm:"not null;size:32;index" json:"provider"`
	DisplayName string    `gorm:"size:255" json:"display_name,omitempty"`
	SyncEnabled bool      `gorm:"default:true;index" json:"sync_enabled"`
	ConnectedAt time.Time `gorm:"autoCreateTime" json:"connected_at"`
}

// TableName returns the table name for EmailAccount
func (EmailAccount) TableName() string {
	return "email_accounts"
}
