package store

import (
	"fmt"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"gorm.io/gorm"
)

// EventStore appends to and queries the reminder audit log. Rows are
// never updated after creation.
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Record appends one delivery-attempt event
func (s *EventStore) Record(ev *models.ReminderEvent) error {
	if err := s.db.Create(ev).Error; err != nil {
		return fmt.Errorf("record reminder event: %w", err)
	}
	return nil
}

// List returns events, newest first, optionally filtered by month
func (s *EventStore) List(month string, limit int) ([]models.ReminderEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := s.db.Order("created_at DESC").Limit(limit)
	if month != "" {
		q = q.Where("month = ?", month)
	}
	var events []models.ReminderEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list reminder events: %w", err)
	}
	return events, nil
}
