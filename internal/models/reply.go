package models

import (
	"time"
)

// Reply is the durable record of one detected inbound reply. The composite
// unique index on (account_id, provider_message_id) is the idempotency gate:
// a message re-observed on a later poll conflicts here and is treated as
// already processed.
type Reply struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ExternalID        string    `gorm:"not null;size:36;uniqueIndex" json:"external_id"`
	AccountID         uint      `gorm:"not null;index;uniqueIndex:ux_replies_account_provider_id,priority:1" json:"account_id"`
	ContactID         uint      `gorm:"not null;index" json:"contact_id"`
	ThreadID          uint      `gorm:"not null;index" json:"thread_id"`
	ProviderMessageID string    `gorm:"not null;size:512;uniqueIndex:ux_replies_account_provider_id,priority:2" json:"provider_message_id"`
	InReplyTo         string    `gorm:"size:512" json:"in_reply_to,omitempty"`
	Subject           string    `json:"subject,omitempty"`
	FromEmail         string    `gorm:"not null;size:255" json:"from_email"`
	FromName          string    `gorm:"size:255" json:"from_name,omitempty"`
	ReceivedAt        time.Time `gorm:"not null;index" json:"received_at"`
	BodyText          string    `json:"body_text,omitempty"`
	BodyHTML          string    `json:"body_html,omitempty"`
	Processed         bool      `gorm:"not null;default:false;index" json:"processed"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Thread EmailThread `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Reply
func (Reply) TableName() string {
	return "replies"
}
