package store

import (
	"errors"
	"fmt"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"gorm.io/gorm"
)

// SettingsStore reads and replaces the reminder configuration. The
// newest row is the active one; updates insert, never mutate in place.
type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Active returns the current settings snapshot, or nil when no
// configuration row exists yet (not an error: nothing is due then).
func (s *SettingsStore) Active() (*models.Settings, error) {
	var settings models.Settings
	err := s.db.Order("id DESC").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load active settings: %w", err)
	}
	return &settings, nil
}

// Save inserts a new settings row, superseding the previous one
func (s *SettingsStore) Save(settings *models.Settings) error {
	settings.ID = 0
	if err := s.db.Create(settings).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// ResetTierSentFlags clears every tier-sent flag and timestamp for the
// given month. Used when an operator changes reminder dates mid-cycle
// and wants the new schedule to re-fire. Received flags are untouched.
func (s *SettingsStore) ResetTierSentFlags(month string) (int64, error) {
	updates := make(map[string]interface{}, len(models.SentFlagColumns)*2)
	for _, cols := range models.SentFlagColumns {
		updates[cols.Flag] = false
		updates[cols.At] = nil
	}

	res := s.db.Model(&models.DocumentRecord{}).
		Where("month = ?", month).
		Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("reset tier sent flags for %s: %w", month, res.Error)
	}
	return res.RowsAffected, nil
}
