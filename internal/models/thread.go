package models

import (
	"time"
)

// Thread statuses
const (
	ThreadStatusActive  = "active"
	ThreadStatusReplied = "replied"
)

// EmailThread ties one contact, one campaign and an ordered set of messages.
// Invariants: message_count >= reply_count; status is "replied" iff
// reply_count > 0. Once replied, further replies only bump counts and
// timestamps.
type EmailThread struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	AccountID        uint       `gorm:"not null;index" json:"account_id"`
	ContactID        uint       `gorm:"not null;index" json:"contact_id"`
	CampaignID       uint       `gorm:"not null;index" json:"campaign_id"`
	Subject          string     `json:"subject,omitempty"`
	Status           string     `gorm:"not null;size:32;default:active" json:"status"`
	MessageCount     int        `gorm:"not null;default:0" json:"message_count"`
	ReplyCount       int        `gorm:"not null;default:0" json:"reply_count"`
	HasUnreadReplies bool       `gorm:"not null;default:false" json:"has_unread_replies"`
	LastMessageAt    *time.Time `json:"last_message_at,omitempty"`
	LastReplyAt      *time.Time `json:"last_reply_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Account  EmailAccount `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	Contact  Contact      `gorm:"foreignKey:ContactID" json:"-"`
	Campaign Campaign     `gorm:"foreignKey:CampaignID" json:"-"`
}

// TableName returns the table name for EmailThread
func (EmailThread) TableName() string {
	return "email_threads"
}
