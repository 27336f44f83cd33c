package models

// DocumentType identifies one of the tracked monthly compliance documents
type DocumentType string

const (
	DocTypeTaxFiling     DocumentType = "tax_filing"
	DocTypeBankStatement DocumentType = "bank_statement"
	DocTypeWithholding   DocumentType = "withholding"
)

// AllDocumentTypes lists types in display/precedence order
var AllDocumentTypes = []DocumentType{DocTypeTaxFiling, DocTypeBankStatement, DocTypeWithholding}

// DisplayName returns the human-readable name used in outbound messages
func (t DocumentType) DisplayName() string {
	switch t {
	case DocTypeTaxFiling:
		return "tax filing"
	case DocTypeBankStatement:
		return "bank statement"
	case DocTypeWithholding:
		return "withholding tax statement"
	}
	return string(t)
}

// Valid reports whether t is one of the known document types
func (t DocumentType) Valid() bool {
	switch t {
	case DocTypeTaxFiling, DocTypeBankStatement, DocTypeWithholding:
		return true
	}
	return false
}

// Tier is the reminder stage: 1 is the gentle nudge, 2 the urgent one
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
)

// AllTiers in escalation order
var AllTiers = []Tier{Tier1, Tier2}

// Valid reports whether the tier is a known stage
func (t Tier) Valid() bool {
	return t == Tier1 || t == Tier2
}

// Channel identifies an outbound delivery channel
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
)

// TierKey identifies a (document type, tier) pair
type TierKey struct {
	Type DocumentType
	Tier Tier
}
