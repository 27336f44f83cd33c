package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder event outcomes
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// ReminderEvent is an append-only audit row for every delivery attempt.
// It is never read to decide eligibility; the sent flags on
// DocumentRecord own that.
type ReminderEvent struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	RunID         string     `gorm:"size:36;index" json:"run_id"`
	Channel       Channel    `gorm:"size:10;not null;index" json:"channel"`
	ClientID      uint       `gorm:"not null;index" json:"client_id"`
	Target        string     `gorm:"size:255;not null" json:"target"`
	Month         string     `gorm:"size:7;not null;index" json:"month"`
	Tier          Tier       `gorm:"not null" json:"tier"`
	DocumentTypes StringList `gorm:"type:json" json:"document_types"`
	Content       string     `gorm:"type:text" json:"content"`
	Outcome       string     `gorm:"size:10;not null;index" json:"outcome"`
	ErrorDetail   string     `gorm:"type:text" json:"error_detail,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"created_at"`
}

// TableName specifies the table name for the ReminderEvent model
func (ReminderEvent) TableName() string {
	return "reminder_event"
}

// BeforeCreate assigns the event id and timestamp
func (e *ReminderEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return nil
}
