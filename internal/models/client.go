package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// StringList represents a list of strings stored as JSONB
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = make([]string, 0)
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Client represents a client of the office. Each of the three document
// types applies independently; a client may be exempt from any subset.
type Client struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string     `gorm:"size:120;not null;index" json:"name" binding:"required"`
	Code       string     `gorm:"size:30;uniqueIndex" json:"code"`
	Emails     StringList `gorm:"type:json" json:"emails"`     // up to three addresses
	ChatTarget string     `gorm:"size:120" json:"chat_target"` // group-chat id, optional

	TaxFilingApplicable     bool `gorm:"not null;default:true" json:"tax_filing_applicable"`
	BankStatementApplicable bool `gorm:"not null;default:true" json:"bank_statement_applicable"`
	WithholdingApplicable   bool `gorm:"not null;default:true" json:"withholding_applicable"`

	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "client"
}

// Applicable reports whether a document type applies to this client
func (c *Client) Applicable(t DocumentType) bool {
	switch t {
	case DocTypeTaxFiling:
		return c.TaxFilingApplicable
	case DocTypeBankStatement:
		return c.BankStatementApplicable
	case DocTypeWithholding:
		return c.WithholdingApplicable
	}
	return false
}

// Reachable reports whether the client can be contacted on a channel.
// Clients without a contact for a channel are silently excluded from it.
func (c *Client) Reachable(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return len(c.Emails) > 0
	case ChannelChat:
		return c.ChatTarget != ""
	}
	return false
}

// BeforeCreate hook fills timestamps when callers leave them zero
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	return nil
}

// CreateClientRequest represents the data needed to register a client
type CreateClientRequest struct {
	Name                    string   `json:"name" binding:"required"`
	Code                    string   `json:"code"`
	Emails                  []string `json:"emails" binding:"max=3,dive,email"`
	ChatTarget              string   `json:"chat_target"`
	TaxFilingApplicable     *bool    `json:"tax_filing_applicable"`
	BankStatementApplicable *bool    `json:"bank_statement_applicable"`
	WithholdingApplicable   *bool    `json:"withholding_applicable"`
	Notes                   string   `json:"notes"`
}
