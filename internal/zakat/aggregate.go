package zakat

import (
	"barakah-backend/internal/domain"
)

// TotalAssets sums the cached scalar total of every category plus the priced
// gold list. Only the top-level scalar per category is summed — the sub-entry
// lists are already folded into those scalars by the ledger, so iterating
// them here would double-count. Extracted-resource categories are included:
// gross wealth reflects them even though they are taxed separately.
func TotalAssets(a *domain.IndividualAssets) float64 {
	var total float64
	for _, c := range domain.AllCategories {
		if state := a.Categories[c]; state != nil {
			total += state.Total
		}
	}
	return total + GoldValue(a.Gold)
}

// ExtractedResourcesTotal sums minerals, oil and gas. These are part of
// TotalAssets but get the flat extraction rate instead of the nisab-gated
// standard rate.
func ExtractedResourcesTotal(a *domain.IndividualAssets) float64 {
	var total float64
	for _, c := range domain.ExtractedResourceCategories {
		if state := a.Categories[c]; state != nil {
			total += state.Total
		}
	}
	return total
}

// TotalDeductions sums the allowances subtracted before the nisab test.
func TotalDeductions(d domain.IndividualDeductions) float64 {
	return d.ZakatAlreadyPaid + d.UrgentDebts + d.GoodReceivables
}

// BusinessTotals splits a company declaration into its zakatable and
// deductible sides. The zakatable base is the four balance-sheet figures plus
// line items classified zakatable (at market value when supplied); only items
// classified deductible count against it. Exempt, not_deductible and
// unresolved needs_clarification items contribute zero to either side until
// reclassified.
func BusinessTotals(b *domain.BusinessAssets) (zakatable, deductible float64) {
	zakatable = b.Cash + b.Receivables + b.Inventory + b.Investments
	for _, li := range b.LineItems {
		switch li.Classification {
		case domain.Zakatable:
			zakatable += li.ZakatableValue()
		case domain.Deductible:
			deductible += li.Amount
		}
	}
	return zakatable, deductible
}
