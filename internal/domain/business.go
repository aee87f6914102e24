package domain

import (
	"github.com/google/uuid"
)

// Classification is the tax treatment assigned to a business balance-sheet
// line item, following AAOIFI-style conventions.
type Classification string

const (
	Zakatable          Classification = "zakatable"
	Deductible         Classification = "deductible"
	Exempt             Classification = "exempt"
	NotDeductible      Classification = "not_deductible"
	NeedsClarification Classification = "needs_clarification"
)

// Valid reports whether c is one of the five declared treatments.
func (c Classification) Valid() bool {
	switch c {
	case Zakatable, Deductible, Exempt, NotDeductible, NeedsClarification:
		return true
	}
	return false
}

// BusinessLineItem is one imported or manually entered balance-sheet row.
// Items start with the classifier's verdict; a needs_clarification item may
// later be resolved by the user into a final classification.
type BusinessLineItem struct {
	ID                    uuid.UUID      `json:"id"`
	Name                  string         `json:"name"`
	Amount                float64        `json:"amount"`
	Classification        Classification `json:"classification"`
	ClarificationQuestion string         `json:"clarification_question,omitempty"`
	ClarificationAnswer   string         `json:"clarification_answer,omitempty"`
	MarketValue           *float64       `json:"market_value,omitempty"`
	IslamicRuling         string         `json:"islamic_ruling,omitempty"`
}

// ZakatableValue returns the amount this item contributes to the zakatable
// base: market value when the user supplied one, book amount otherwise.
func (li BusinessLineItem) ZakatableValue() float64 {
	if li.MarketValue != nil {
		return *li.MarketValue
	}
	return li.Amount
}

// BusinessAssets is the company declaration: base balance-sheet figures plus
// the classified line items.
type BusinessAssets struct {
	CompanyName  string             `json:"company_name"`
	IndustryType string             `json:"industry_type"`
	Cash         float64            `json:"cash"`
	Receivables  float64            `json:"receivables"`
	Inventory    float64            `json:"inventory"`
	Investments  float64            `json:"investments"`
	LineItems    []BusinessLineItem `json:"line_items"`
}

// NewBusinessAssets returns an empty company declaration.
func NewBusinessAssets() *BusinessAssets {
	return &BusinessAssets{LineItems: []BusinessLineItem{}}
}

// Normalize repairs a deserialized snapshot (nil line-item list from an older
// snapshot becomes empty).
func (b *BusinessAssets) Normalize() {
	if b.LineItems == nil {
		b.LineItems = []BusinessLineItem{}
	}
}
