package reminder

import (
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"gorm.io/datatypes"
)

// DueToday returns the (document type, tier) pairs whose configured
// reminder date falls on the given day. Exact calendar-day match: a
// missed run day is not retried automatically, the next opportunity is
// a manual trigger. An unset date means that tier is never due. When a
// type's tier-1 and tier-2 dates coincide both pairs are returned;
// per-client handling of that is the grouping policy's concern.
func DueToday(today time.Time, s *models.Settings) []models.TierKey {
	if s == nil {
		return nil
	}

	var due []models.TierKey
	for _, t := range models.AllDocumentTypes {
		for _, tier := range models.AllTiers {
			if sameDay(today, s.ReminderDate(t, tier)) {
				due = append(due, models.TierKey{Type: t, Tier: tier})
			}
		}
	}
	return due
}

func sameDay(t time.Time, d *datatypes.Date) bool {
	if d == nil {
		return false
	}
	dd := time.Time(*d)
	return t.Year() == dd.Year() && t.Month() == dd.Month() && t.Day() == dd.Day()
}
