package zakat

import (
	"barakah-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Purity multipliers per karat grade.
var purity = map[domain.Karat]decimal.Decimal{
	domain.Karat24: decimal.NewFromInt(1),
	domain.Karat21: decimal.RequireFromString("0.875"),
	domain.Karat18: decimal.RequireFromString("0.75"),
}

// PurityMultiplier returns the fraction of pure gold for a karat grade
// (24k = 1.0). Unknown grades return zero.
func PurityMultiplier(k domain.Karat) decimal.Decimal {
	return purity[k]
}

// GoldValue prices a gold holding list: Σ weight × price-per-gram × purity.
// Decimal math keeps the purity scaling exact (10g of 21k at 70 is exactly
// 612.5). An empty list values to zero.
func GoldValue(entries []domain.GoldEntry) float64 {
	total := decimal.Zero
	for _, e := range entries {
		v := decimal.NewFromFloat(e.WeightGrams).
			Mul(decimal.NewFromFloat(e.PricePerGram)).
			Mul(purity[e.Karat])
		total = total.Add(v)
	}
	f, _ := total.Float64()
	return f
}
