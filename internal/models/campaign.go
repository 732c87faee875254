package models

import (
	"time"
)

// Campaign groups outreach threads. Created and mutated by the outbound
// sending path; read-only here.
type Campaign struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Status    string    `gorm:"size:32;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Campaign
func (Campaign) TableName() string {
	return "campaigns"
}
