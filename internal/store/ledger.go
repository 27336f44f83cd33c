package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"gorm.io/gorm"
)

// LedgerStore owns the reminder engine's view of document records:
// eligibility queries, the idempotent sent-marker write, the monthly
// rollover, and the duplicate-row cleanup pass.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// FindEligible returns clients whose month record has the document type
// applicable, not received, and the given tier's reminder not yet sent.
// Contact details ride along on the Client rows; clients without a
// contact for a channel are filtered later by the dispatchers.
func (s *LedgerStore) FindEligible(t models.DocumentType, tier models.Tier, month string) ([]models.Client, error) {
	cols, ok := models.SentFlagColumns[models.TierKey{Type: t, Tier: tier}]
	if !ok {
		return nil, fmt.Errorf("unknown document type %q tier %d", t, tier)
	}
	recvCol := models.ReceivedColumns[t]
	appCol := models.ApplicableColumns[t]

	var clients []models.Client
	err := s.db.Model(&models.Client{}).
		Joins("JOIN document_record ON document_record.client_id = client.id AND document_record.month = ?", month).
		Where("client."+appCol+" = ?", true).
		Where("document_record."+recvCol+" = ?", false).
		Where("document_record."+cols.Flag+" = ?", false).
		Order("client.id").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("find eligible clients for %s tier %d: %w", t, tier, err)
	}
	return clients, nil
}

// MarkReminderSent sets the tier's sent flag and timestamp for one
// client's month record. Idempotent: the WHERE guard means a repeat
// call matches zero rows, so the first send's timestamp is never
// overwritten and the flag is never re-written.
func (s *LedgerStore) MarkReminderSent(clientID uint, t models.DocumentType, tier models.Tier, month string, at time.Time) error {
	cols, ok := models.SentFlagColumns[models.TierKey{Type: t, Tier: tier}]
	if !ok {
		return fmt.Errorf("unknown document type %q tier %d", t, tier)
	}

	res := s.db.Model(&models.DocumentRecord{}).
		Where("client_id = ? AND month = ?", clientID, month).
		Where(cols.Flag+" = ?", false).
		Updates(map[string]interface{}{cols.Flag: true, cols.At: at})
	if res.Error != nil {
		return fmt.Errorf("mark reminder sent for client %d %s tier %d: %w", clientID, t, tier, res.Error)
	}
	return nil
}

// FindRecord loads the month record for one client
func (s *LedgerStore) FindRecord(clientID uint, month string) (*models.DocumentRecord, error) {
	var rec models.DocumentRecord
	err := s.db.Where("client_id = ? AND month = ?", clientID, month).
		Order("id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find record for client %d month %s: %w", clientID, month, err)
	}
	return &rec, nil
}

// CreateMonthRecords creates one document record per client for the
// given month, skipping clients that already have one. Returns the
// number of records created.
func (s *LedgerStore) CreateMonthRecords(month string) (int, error) {
	var clients []models.Client
	if err := s.db.Find(&clients).Error; err != nil {
		return 0, fmt.Errorf("list clients for rollover: %w", err)
	}

	created := 0
	for _, client := range clients {
		var count int64
		if err := s.db.Model(&models.DocumentRecord{}).
			Where("client_id = ? AND month = ?", client.ID, month).
			Count(&count).Error; err != nil {
			return created, fmt.Errorf("check record for client %d: %w", client.ID, err)
		}
		if count > 0 {
			continue
		}
		rec := models.DocumentRecord{ClientID: client.ID, Month: month}
		if err := s.db.Create(&rec).Error; err != nil {
			return created, fmt.Errorf("create record for client %d: %w", client.ID, err)
		}
		created++
	}
	return created, nil
}

// MonthEntries returns the month's records paired with their clients,
// ordered by client id. Records whose client was deleted are skipped.
func (s *LedgerStore) MonthEntries(month string) ([]models.MonthEntry, error) {
	var records []models.DocumentRecord
	if err := s.db.Where("month = ?", month).Order("client_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list records for %s: %w", month, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ClientID)
	}
	var clients []models.Client
	if err := s.db.Where("id IN ?", ids).Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("load clients for %s: %w", month, err)
	}
	byID := make(map[uint]models.Client, len(clients))
	for _, client := range clients {
		byID[client.ID] = client
	}

	entries := make([]models.MonthEntry, 0, len(records))
	for _, rec := range records {
		client, ok := byID[rec.ClientID]
		if !ok {
			continue
		}
		entries = append(entries, models.MonthEntry{Client: client, Record: rec})
	}
	return entries, nil
}

// Dedupe removes duplicate document records, keeping the newest row per
// (client, month). A separate cleanup pass: the engine itself assumes
// at most one row.
func (s *LedgerStore) Dedupe() (int64, error) {
	res := s.db.Exec(`DELETE FROM document_record WHERE id NOT IN (
		SELECT MAX(id) FROM document_record GROUP BY client_id, month)`)
	if res.Error != nil {
		return 0, fmt.Errorf("dedupe document records: %w", res.Error)
	}
	return res.RowsAffected, nil
}
