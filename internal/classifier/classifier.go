// Package classifier maps free-text balance-sheet line names to an
// AAOIFI-style zakat treatment. It is a fixed, ordered keyword scan:
// rule groups are checked zakatable → deductible → exempt → not_deductible →
// needs_clarification, and within each group rules run in declared order. The
// first keyword that is a substring of the normalized name wins — broad
// keywords can shadow later, more specific ones (e.g. any name containing
// "accounts receivable" resolves in the zakatable group before later groups
// get a look). That first-match-wins ordering is load-bearing; do not
// reorganize the rules into a map.
package classifier

import (
	"strings"

	"barakah-backend/internal/domain"
)

// Result is the classifier verdict for one line name.
type Result struct {
	Classification        domain.Classification `json:"classification"`
	IslamicRuling         string                `json:"islamic_ruling,omitempty"`
	ClarificationQuestion string                `json:"clarification_question,omitempty"`
}

// DefaultClarificationQuestion is attached when no rule matches.
const DefaultClarificationQuestion = "What is the nature of this item and how is it used in the business?"

type rule struct {
	keyword  string
	ruling   string
	question string
}

type ruleGroup struct {
	classification domain.Classification
	rules          []rule
}

// ruleGroups in priority order. Keywords are lower-case; matching is a
// case-insensitive substring test against the trimmed name.
var ruleGroups = []ruleGroup{
	{
		classification: domain.Zakatable,
		rules: []rule{
			{keyword: "cash", ruling: "Cash and cash equivalents are fully zakatable at the standard rate."},
			{keyword: "bank balance", ruling: "Bank balances are treated as cash and are fully zakatable."},
			{keyword: "petty", ruling: "Petty cash is treated as cash on hand."},
			{keyword: "accounts receivable", ruling: "Receivables expected to be collected are zakatable at face value."},
			{keyword: "trade receivable", ruling: "Trade receivables expected to be collected are zakatable."},
			{keyword: "inventory", ruling: "Trading inventory is zakatable at current market value."},
			{keyword: "stock in trade", ruling: "Stock held for resale is zakatable at market value."},
			{keyword: "merchandise", ruling: "Merchandise held for resale is zakatable at market value."},
			{keyword: "finished goods", ruling: "Finished goods held for sale are zakatable at market value."},
			{keyword: "raw material", ruling: "Raw materials destined for trade goods are zakatable."},
			{keyword: "work in progress", ruling: "Work in progress intended for sale is zakatable at its realizable value."},
			{keyword: "short term investment", ruling: "Short-term investments held for trading are zakatable at market value."},
			{keyword: "marketable securit", ruling: "Marketable securities held for trading are zakatable at market value."},
			{keyword: "trading securit", ruling: "Securities held for trading are zakatable at market value."},
			{keyword: "money market", ruling: "Money market instruments are treated as cash equivalents."},
			{keyword: "gold", ruling: "Gold holdings are zakatable at current market value."},
			{keyword: "silver", ruling: "Silver holdings are zakatable at current market value."},
		},
	},
	{
		classification: domain.Deductible,
		rules: []rule{
			{keyword: "accounts payable", ruling: "Debts due within the year reduce the zakatable base."},
			{keyword: "trade payable", ruling: "Trade payables due within the year are deductible."},
			{keyword: "wages payable", ruling: "Wages owed to employees are an immediate obligation and deductible."},
			{keyword: "salaries payable", ruling: "Salaries owed to employees are deductible."},
			{keyword: "tax payable", ruling: "Taxes due now are deductible from the zakatable base."},
			{keyword: "accrued expense", ruling: "Accrued expenses due within the year are deductible."},
			{keyword: "short term loan", ruling: "Short-term borrowings due within the year are deductible."},
			{keyword: "overdraft", ruling: "Bank overdrafts are current obligations and deductible."},
			{keyword: "current liabilit", ruling: "Current liabilities due within the year are deductible."},
			{keyword: "payable", ruling: "Amounts payable within the year reduce the zakatable base."},
		},
	},
	{
		classification: domain.Exempt,
		rules: []rule{
			{keyword: "fixed asset", ruling: "Fixed assets used in operations (not for resale) are exempt."},
			{keyword: "property, plant", ruling: "Property, plant and equipment used in the business are exempt."},
			{keyword: "plant and equipment", ruling: "Operating plant and equipment are exempt."},
			{keyword: "equipment", ruling: "Equipment used in operations is exempt."},
			{keyword: "machinery", ruling: "Machinery used in production is exempt."},
			{keyword: "building", ruling: "Buildings used by the business (not held for trade) are exempt."},
			{keyword: "land", ruling: "Land used by the business (not held for trade) is exempt."},
			{keyword: "furniture", ruling: "Furniture and fittings used in operations are exempt."},
			{keyword: "vehicle", ruling: "Vehicles used in operations are exempt."},
			{keyword: "leasehold", ruling: "Leasehold improvements are operating assets and exempt."},
			{keyword: "goodwill", ruling: "Goodwill is an intangible operating asset and exempt."},
			{keyword: "intangible", ruling: "Intangible operating assets are exempt."},
			{keyword: "patent", ruling: "Patents held for use (not resale) are exempt."},
			{keyword: "trademark", ruling: "Trademarks held for use are exempt."},
		},
	},
	{
		classification: domain.NotDeductible,
		rules: []rule{
			{keyword: "long term loan", ruling: "Only the portion due within the year is deductible; the long-term balance is not."},
			{keyword: "long-term debt", ruling: "Long-term debt is not deducted from the zakatable base."},
			{keyword: "share capital", ruling: "Share capital is equity, not a deductible liability."},
			{keyword: "owner", ruling: "Owner's equity is not a liability and is not deductible."},
			{keyword: "retained earnings", ruling: "Retained earnings are equity and not deductible."},
			{keyword: "reserve", ruling: "Reserves are equity appropriations and not deductible."},
			{keyword: "provision", ruling: "General provisions are not firm obligations and are not deductible."},
			{keyword: "deferred tax", ruling: "Deferred tax balances are not current obligations and are not deductible."},
		},
	},
	{
		classification: domain.NeedsClarification,
		rules: []rule{
			{keyword: "investment", question: "Is this investment held for trading (zakatable at market value) or held long term in an operating business?"},
			{keyword: "securit", question: "Are these securities held for trading or as a long-term strategic stake?"},
			{keyword: "loan", question: "Is this a loan you owe (possibly deductible) or a loan you have extended (possibly zakatable)?"},
			{keyword: "deposit", question: "Is this deposit refundable to you (zakatable) or a customer deposit you must return?"},
			{keyword: "advance", question: "Is this an advance you paid out (asset) or received from customers (liability)?"},
			{keyword: "prepaid", question: "Is this prepayment recoverable in cash, or consumed as an operating expense?"},
			{keyword: "receivable", question: "Is this receivable good (expected to be collected) or doubtful?"},
		},
	},
}

// Classify assigns a tax treatment to a free-text line name. It is pure and
// deterministic: the name is lower-cased and trimmed, then scanned against
// the ordered rule list; no match falls through to needs_clarification with
// the generic prompt.
func Classify(name string) Result {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, group := range ruleGroups {
		for _, r := range group.rules {
			if strings.Contains(normalized, r.keyword) {
				return Result{
					Classification:        group.classification,
					IslamicRuling:         r.ruling,
					ClarificationQuestion: r.question,
				}
			}
		}
	}
	return Result{
		Classification:        domain.NeedsClarification,
		ClarificationQuestion: DefaultClarificationQuestion,
	}
}

// Apply runs Classify over a line item and writes the verdict onto it.
func Apply(li *domain.BusinessLineItem) {
	res := Classify(li.Name)
	li.Classification = res.Classification
	li.IslamicRuling = res.IslamicRuling
	li.ClarificationQuestion = res.ClarificationQuestion
}
