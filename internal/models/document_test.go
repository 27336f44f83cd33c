package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetReminderSentKeepsFirstTimestamp(t *testing.T) {
	rec := DocumentRecord{ClientID: 1, Month: "2024-06"}
	first := time.Date(2024, time.June, 10, 10, 30, 0, 0, time.UTC)
	later := first.Add(2 * time.Hour)

	rec.SetReminderSent(DocTypeTaxFiling, Tier1, first)
	require.True(t, rec.TaxFilingReminder1Sent)
	require.NotNil(t, rec.TaxFilingReminder1SentAt)
	assert.Equal(t, first, *rec.TaxFilingReminder1SentAt)

	// Marking again never overwrites the original timestamp
	rec.SetReminderSent(DocTypeTaxFiling, Tier1, later)
	assert.Equal(t, first, *rec.TaxFilingReminder1SentAt)

	// Other flags stay untouched
	assert.False(t, rec.TaxFilingReminder2Sent)
	assert.False(t, rec.BankStatementReminder1Sent)
}

func TestReminderSentCoversAllPairs(t *testing.T) {
	at := time.Now()
	for _, typ := range AllDocumentTypes {
		for _, tier := range AllTiers {
			rec := DocumentRecord{}
			assert.False(t, rec.ReminderSent(typ, tier))
			rec.SetReminderSent(typ, tier, at)
			assert.True(t, rec.ReminderSent(typ, tier), "%s tier %d", typ, tier)
		}
	}
}

func TestReceived(t *testing.T) {
	rec := DocumentRecord{BankStatementReceived: true}
	assert.False(t, rec.Received(DocTypeTaxFiling))
	assert.True(t, rec.Received(DocTypeBankStatement))
	assert.False(t, rec.Received(DocumentType("unknown")))
}

func TestColumnMapsComplete(t *testing.T) {
	for _, typ := range AllDocumentTypes {
		assert.NotEmpty(t, ReceivedColumns[typ])
		assert.NotEmpty(t, ReceivedAtColumns[typ])
		assert.NotEmpty(t, ApplicableColumns[typ])
		for _, tier := range AllTiers {
			cols, ok := SentFlagColumns[TierKey{typ, tier}]
			require.True(t, ok, "%s tier %d", typ, tier)
			assert.NotEmpty(t, cols.Flag)
			assert.NotEmpty(t, cols.At)
		}
	}
	assert.Len(t, SentFlagColumns, len(AllDocumentTypes)*len(AllTiers))
}
