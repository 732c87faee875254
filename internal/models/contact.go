package models

import (
	"time"
)

// Contact statuses
const (
	ContactStatusContacted = "contacted"
	ContactStatusReplied   = "replied"
)

// Contact represents an outreach recipient. The sync engine only ever moves a
// contact forward to "replied"; it never regresses the status, and
// ReplyReceivedAt keeps first-reply semantics (earliest reply wins).
type Contact struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name            string     `gorm:"size:255" json:"name,omitempty"`
	Status          string     `gorm:"not null;size:32;default:contacted" json:"status"`
	ReplyReceivedAt *time.Time `json:"reply_received_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
