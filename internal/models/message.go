package models

import (
	"time"
)

// Message directions
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// EmailMessage is one entry in a thread's unified message list. Outbound rows
// are created by the sending path and are the OutboundRecord inputs of the
// sync engine; inbound rows mirror detected replies. The composite unique
// index on (account_id, provider_message_id) makes inserts survive provider
// re-delivery and pagination overlap.
type EmailMessage struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AccountID         uint      `gorm:"not null;index;uniqueIndex:ux_messages_account_provider_id,priority:1" json:"account_id"`
	ThreadID          uint      `gorm:"not null;index" json:"thread_id"`
	ContactID         uint      `gorm:"not null;index" json:"contact_id"`
	Direction         string    `gorm:"not null;size:16;index" json:"direction"`
	ProviderMessageID string    `gorm:"not null;size:512;uniqueIndex:ux_messages_account_provider_id,priority:2" json:"provider_message_id"`
	InternetMessageID string    `gorm:"size:512;index" json:"internet_message_id,omitempty"`
	FromEmail         string    `gorm:"not null;size:255" json:"from_email"`
	ToEmail           string    `gorm:"not null;size:255;index" json:"to_email"`
	Subject           string    `json:"subject,omitempty"`
	BodyText          string    `json:"body_text,omitempty"`
	BodyHTML          string    `json:"body_html,omitempty"`
	OccurredAt        time.Time `gorm:"not null;index" json:"occurred_at"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Thread EmailThread `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for EmailMessage
func (EmailMessage) TableName() string {
	return "email_messages"
}
