package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Settings holds the reminder configuration for one tracking period.
// Rows are never mutated in place: saving a new row supersedes the old
// one, and the newest row is the active configuration.
type Settings struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ActiveMonth string `gorm:"size:7;not null;index" json:"active_month" binding:"required"` // "2024-06"

	TaxFilingDue     *datatypes.Date `gorm:"column:tax_filing_due" json:"tax_filing_due"`
	BankStatementDue *datatypes.Date `gorm:"column:bank_statement_due" json:"bank_statement_due"`
	WithholdingDue   *datatypes.Date `gorm:"column:withholding_due" json:"withholding_due"`

	TaxFilingReminder1     *datatypes.Date `gorm:"column:tax_filing_reminder1" json:"tax_filing_reminder1"`
	TaxFilingReminder2     *datatypes.Date `gorm:"column:tax_filing_reminder2" json:"tax_filing_reminder2"`
	BankStatementReminder1 *datatypes.Date `gorm:"column:bank_statement_reminder1" json:"bank_statement_reminder1"`
	BankStatementReminder2 *datatypes.Date `gorm:"column:bank_statement_reminder2" json:"bank_statement_reminder2"`
	WithholdingReminder1   *datatypes.Date `gorm:"column:withholding_reminder1" json:"withholding_reminder1"`
	WithholdingReminder2   *datatypes.Date `gorm:"column:withholding_reminder2" json:"withholding_reminder2"`

	EmailEnabled bool `gorm:"not null;default:true" json:"email_enabled"`
	ChatEnabled  bool `gorm:"not null;default:true" json:"chat_enabled"`

	// Daily dispatch time as the operators enter it: 12-hour clock plus meridiem
	DispatchHour     int    `gorm:"not null;default:10" json:"dispatch_hour" binding:"omitempty,min=1,max=12"`
	DispatchMinute   int    `gorm:"not null;default:0" json:"dispatch_minute" binding:"omitempty,min=0,max=59"`
	DispatchMeridiem string `gorm:"size:2;not null;default:AM" json:"dispatch_meridiem" binding:"omitempty,oneof=AM PM am pm"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for the Settings model
func (Settings) TableName() string {
	return "app_settings"
}

// DueDate returns the compliance deadline for a document type, nil when unset
func (s *Settings) DueDate(t DocumentType) *datatypes.Date {
	switch t {
	case DocTypeTaxFiling:
		return s.TaxFilingDue
	case DocTypeBankStatement:
		return s.BankStatementDue
	case DocTypeWithholding:
		return s.WithholdingDue
	}
	return nil
}

// ReminderDate returns the calendar date a tier's reminder fires for a
// document type, nil when that tier is not configured
func (s *Settings) ReminderDate(t DocumentType, tier Tier) *datatypes.Date {
	switch t {
	case DocTypeTaxFiling:
		if tier == Tier1 {
			return s.TaxFilingReminder1
		}
		return s.TaxFilingReminder2
	case DocTypeBankStatement:
		if tier == Tier1 {
			return s.BankStatementReminder1
		}
		return s.BankStatementReminder2
	case DocTypeWithholding:
		if tier == Tier1 {
			return s.WithholdingReminder1
		}
		return s.WithholdingReminder2
	}
	return nil
}

// ChannelEnabled reports whether outbound delivery on a channel is switched on
func (s *Settings) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return s.EmailEnabled
	case ChannelChat:
		return s.ChatEnabled
	}
	return false
}

// DispatchClock converts the stored 12-hour dispatch time to 24-hour form
func (s *Settings) DispatchClock() (hour, minute int, err error) {
	hour = s.DispatchHour
	if hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("dispatch hour %d out of range", s.DispatchHour)
	}
	if s.DispatchMinute < 0 || s.DispatchMinute > 59 {
		return 0, 0, fmt.Errorf("dispatch minute %d out of range", s.DispatchMinute)
	}
	switch strings.ToUpper(s.DispatchMeridiem) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	default:
		return 0, 0, fmt.Errorf("unknown meridiem %q", s.DispatchMeridiem)
	}
	return hour, s.DispatchMinute, nil
}
