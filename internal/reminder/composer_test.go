package reminder

import (
	"strings"
	"testing"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComposeGentleTone(t *testing.T) {
	due := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	msg := Compose(Task{
		Client:  models.Client{Name: "Acme Traders"},
		Month:   "2024-06",
		Tier:    models.Tier1,
		Types:   []models.DocumentType{models.DocTypeTaxFiling},
		DueDate: &due,
	})

	assert.Equal(t, "Reminder: tax filing for 2024-06", msg.Subject)
	assert.Contains(t, msg.PlainBody, "Dear Acme Traders")
	assert.Contains(t, msg.PlainBody, "gentle reminder")
	assert.Contains(t, msg.PlainBody, "by Thu, 20 Jun 2024")
	assert.NotContains(t, msg.PlainBody, "URGENT")
	assert.Contains(t, msg.ChatText, "Gentle reminder for Acme Traders")
}

func TestComposeUrgentTone(t *testing.T) {
	msg := Compose(Task{
		Client: models.Client{Name: "Acme Traders"},
		Month:  "2024-06",
		Tier:   models.Tier2,
		Types:  []models.DocumentType{models.DocTypeWithholding},
	})

	assert.True(t, strings.HasPrefix(msg.Subject, "URGENT:"), "subject %q", msg.Subject)
	assert.Contains(t, msg.PlainBody, "urgent reminder")
	assert.Contains(t, msg.PlainBody, "late fees")
	assert.Contains(t, msg.ChatText, "URGENT reminder")
}

func TestComposeDueDateFallbackWording(t *testing.T) {
	msg := Compose(Task{
		Client: models.Client{Name: "Acme Traders"},
		Month:  "2024-06",
		Tier:   models.Tier1,
		Types:  []models.DocumentType{models.DocTypeBankStatement},
	})
	assert.Contains(t, msg.PlainBody, "at the earliest")
}

func TestComposeHTMLMirrorsPlain(t *testing.T) {
	msg := Compose(Task{
		Client: models.Client{Name: "Acme Traders"},
		Month:  "2024-06",
		Tier:   models.Tier1,
		Types:  []models.DocumentType{models.DocTypeTaxFiling},
	})
	assert.Contains(t, msg.HTMLBody, "<strong>tax filing</strong>")
	assert.Contains(t, msg.HTMLBody, "Dear Acme Traders")
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "", typeNames(nil))
	assert.Equal(t, "tax filing",
		typeNames([]models.DocumentType{models.DocTypeTaxFiling}))
	assert.Equal(t, "tax filing and bank statement",
		typeNames([]models.DocumentType{models.DocTypeTaxFiling, models.DocTypeBankStatement}))
	assert.Equal(t, "tax filing, bank statement and withholding tax statement",
		typeNames(models.AllDocumentTypes))
}
