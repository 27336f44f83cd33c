package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentRecord tracks, for one client and one month, which documents
// came in and which reminder tiers already went out. At most one row
// exists per (client, month); duplicates are merged by a cleanup pass,
// keeping the newest row.
type DocumentRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID uint   `gorm:"not null;index:idx_record_client_month" json:"client_id"`
	Month    string `gorm:"size:7;not null;index:idx_record_client_month" json:"month"` // "2024-06"

	TaxFilingReceived       bool            `gorm:"column:tax_filing_received;not null;default:false" json:"tax_filing_received"`
	TaxFilingReceivedAt     *datatypes.Date `gorm:"column:tax_filing_received_at" json:"tax_filing_received_at"`
	BankStatementReceived   bool            `gorm:"column:bank_statement_received;not null;default:false" json:"bank_statement_received"`
	BankStatementReceivedAt *datatypes.Date `gorm:"column:bank_statement_received_at" json:"bank_statement_received_at"`
	WithholdingReceived     bool            `gorm:"column:withholding_received;not null;default:false" json:"withholding_received"`
	WithholdingReceivedAt   *datatypes.Date `gorm:"column:withholding_received_at" json:"withholding_received_at"`

	TaxFilingReminder1Sent       bool       `gorm:"column:tax_filing_reminder1_sent;not null;default:false" json:"tax_filing_reminder1_sent"`
	TaxFilingReminder1SentAt     *time.Time `gorm:"column:tax_filing_reminder1_sent_at" json:"tax_filing_reminder1_sent_at"`
	TaxFilingReminder2Sent       bool       `gorm:"column:tax_filing_reminder2_sent;not null;default:false" json:"tax_filing_reminder2_sent"`
	TaxFilingReminder2SentAt     *time.Time `gorm:"column:tax_filing_reminder2_sent_at" json:"tax_filing_reminder2_sent_at"`
	BankStatementReminder1Sent   bool       `gorm:"column:bank_statement_reminder1_sent;not null;default:false" json:"bank_statement_reminder1_sent"`
	BankStatementReminder1SentAt *time.Time `gorm:"column:bank_statement_reminder1_sent_at" json:"bank_statement_reminder1_sent_at"`
	BankStatementReminder2Sent   bool       `gorm:"column:bank_statement_reminder2_sent;not null;default:false" json:"bank_statement_reminder2_sent"`
	BankStatementReminder2SentAt *time.Time `gorm:"column:bank_statement_reminder2_sent_at" json:"bank_statement_reminder2_sent_at"`
	WithholdingReminder1Sent     bool       `gorm:"column:withholding_reminder1_sent;not null;default:false" json:"withholding_reminder1_sent"`
	WithholdingReminder1SentAt   *time.Time `gorm:"column:withholding_reminder1_sent_at" json:"withholding_reminder1_sent_at"`
	WithholdingReminder2Sent     bool       `gorm:"column:withholding_reminder2_sent;not null;default:false" json:"withholding_reminder2_sent"`
	WithholdingReminder2SentAt   *time.Time `gorm:"column:withholding_reminder2_sent_at" json:"withholding_reminder2_sent_at"`

	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the DocumentRecord model
func (DocumentRecord) TableName() string {
	return "document_record"
}

// BeforeCreate hook fills timestamps when callers leave them zero
func (r *DocumentRecord) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	return nil
}

// Received reports whether the document of the given type came in
func (r *DocumentRecord) Received(t DocumentType) bool {
	switch t {
	case DocTypeTaxFiling:
		return r.TaxFilingReceived
	case DocTypeBankStatement:
		return r.BankStatementReceived
	case DocTypeWithholding:
		return r.WithholdingReceived
	}
	return false
}

// ReminderSent reports whether the given tier's reminder already went out
func (r *DocumentRecord) ReminderSent(t DocumentType, tier Tier) bool {
	switch (TierKey{t, tier}) {
	case TierKey{DocTypeTaxFiling, Tier1}:
		return r.TaxFilingReminder1Sent
	case TierKey{DocTypeTaxFiling, Tier2}:
		return r.TaxFilingReminder2Sent
	case TierKey{DocTypeBankStatement, Tier1}:
		return r.BankStatementReminder1Sent
	case TierKey{DocTypeBankStatement, Tier2}:
		return r.BankStatementReminder2Sent
	case TierKey{DocTypeWithholding, Tier1}:
		return r.WithholdingReminder1Sent
	case TierKey{DocTypeWithholding, Tier2}:
		return r.WithholdingReminder2Sent
	}
	return false
}

// SetReminderSent flips a tier's sent flag in memory. It never clears:
// an already-set flag keeps its original timestamp.
func (r *DocumentRecord) SetReminderSent(t DocumentType, tier Tier, at time.Time) {
	if r.ReminderSent(t, tier) {
		return
	}
	switch (TierKey{t, tier}) {
	case TierKey{DocTypeTaxFiling, Tier1}:
		r.TaxFilingReminder1Sent, r.TaxFilingReminder1SentAt = true, &at
	case TierKey{DocTypeTaxFiling, Tier2}:
		r.TaxFilingReminder2Sent, r.TaxFilingReminder2SentAt = true, &at
	case TierKey{DocTypeBankStatement, Tier1}:
		r.BankStatementReminder1Sent, r.BankStatementReminder1SentAt = true, &at
	case TierKey{DocTypeBankStatement, Tier2}:
		r.BankStatementReminder2Sent, r.BankStatementReminder2SentAt = true, &at
	case TierKey{DocTypeWithholding, Tier1}:
		r.WithholdingReminder1Sent, r.WithholdingReminder1SentAt = true, &at
	case TierKey{DocTypeWithholding, Tier2}:
		r.WithholdingReminder2Sent, r.WithholdingReminder2SentAt = true, &at
	}
}

// SentFlagColumns maps a (type, tier) pair to its flag and timestamp
// columns. The source system built these names by string concatenation
// at every call site; a fixed table keeps the schema in one place.
var SentFlagColumns = map[TierKey]struct{ Flag, At string }{
	{DocTypeTaxFiling, Tier1}:     {"tax_filing_reminder1_sent", "tax_filing_reminder1_sent_at"},
	{DocTypeTaxFiling, Tier2}:     {"tax_filing_reminder2_sent", "tax_filing_reminder2_sent_at"},
	{DocTypeBankStatement, Tier1}: {"bank_statement_reminder1_sent", "bank_statement_reminder1_sent_at"},
	{DocTypeBankStatement, Tier2}: {"bank_statement_reminder2_sent", "bank_statement_reminder2_sent_at"},
	{DocTypeWithholding, Tier1}:   {"withholding_reminder1_sent", "withholding_reminder1_sent_at"},
	{DocTypeWithholding, Tier2}:   {"withholding_reminder2_sent", "withholding_reminder2_sent_at"},
}

// ReceivedColumns maps a document type to its received-flag column
var ReceivedColumns = map[DocumentType]string{
	DocTypeTaxFiling:     "tax_filing_received",
	DocTypeBankStatement: "bank_statement_received",
	DocTypeWithholding:   "withholding_received",
}

// ReceivedAtColumns maps a document type to its received-date column
var ReceivedAtColumns = map[DocumentType]string{
	DocTypeTaxFiling:     "tax_filing_received_at",
	DocTypeBankStatement: "bank_statement_received_at",
	DocTypeWithholding:   "withholding_received_at",
}

// ApplicableColumns maps a document type to the client applicability column
var ApplicableColumns = map[DocumentType]string{
	DocTypeTaxFiling:     "tax_filing_applicable",
	DocTypeBankStatement: "bank_statement_applicable",
	DocTypeWithholding:   "withholding_applicable",
}

// MonthEntry pairs a month's record with its client, used by the
// status report
type MonthEntry struct {
	Client Client
	Record DocumentRecord
}
