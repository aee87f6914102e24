package zakat

import (
	"math"

	"barakah-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// NisabGoldGrams is the conventional nisab threshold in grams of gold.
const NisabGoldGrams = 85

var (
	rateIslamic    = decimal.RequireFromString("0.025")
	rateWestern    = decimal.RequireFromString("0.02577")
	rateExtraction = decimal.RequireFromString("0.20")
	nisabGrams     = decimal.NewFromInt(NisabGoldGrams)
)

// RateFor returns the standard zakat rate for a calendar type: 2.5% for the
// lunar year, 2.577% adjusted for the longer solar year.
func RateFor(t domain.CalendarType) decimal.Decimal {
	if t == domain.CalendarWestern {
		return rateWestern
	}
	return rateIslamic
}

// NisabThreshold is the minimum net wealth above which zakat is owed:
// the value of 85 grams of gold at the supplied price.
func NisabThreshold(goldPricePerGram float64) float64 {
	f, _ := nisabGrams.Mul(decimal.NewFromFloat(goldPricePerGram)).Float64()
	return f
}

// Assessment is the full outcome of one calculation, consumed by the report
// layer and snapshotted into history.
type Assessment struct {
	EntityType         domain.EntityType   `json:"entity_type"`
	CalendarType       domain.CalendarType `json:"calendar_type"`
	TotalAssets        float64             `json:"total_assets"`
	TotalDeductions    float64             `json:"total_deductions"`
	ExtractedResources float64             `json:"extracted_resources"`
	NetWealth          float64             `json:"net_wealth"`
	NisabThreshold     float64             `json:"nisab_threshold"`
	MeetsNisab         bool                `json:"meets_nisab"`
	Regular            float64             `json:"regular"`
	Extracted          float64             `json:"extracted"`
	Total              float64             `json:"total"`
}

// AssessIndividual runs the personal calculation. The standard-rate base is
// net wealth excluding extracted resources, gated by the inclusive nisab
// threshold; extracted resources are taxed at the flat rate regardless of
// nisab, so resource wealth is owed even when everything else sits below the
// threshold. Those two paths must stay separate.
func AssessIndividual(a *domain.IndividualAssets, d domain.IndividualDeductions, goldPricePerGram float64, cal domain.CalendarType) (Assessment, error) {
	if !cal.Valid() {
		return Assessment{}, ErrUnknownCalendar
	}
	if math.IsNaN(goldPricePerGram) || math.IsInf(goldPricePerGram, 0) || goldPricePerGram <= 0 {
		return Assessment{}, ErrGoldPriceNotPositive
	}

	totalAssets := TotalAssets(a)
	deductions := TotalDeductions(d)
	extracted := ExtractedResourcesTotal(a)
	netWealth := totalAssets - deductions - extracted
	nisab := NisabThreshold(goldPricePerGram)

	return assess(domain.EntityPersonal, cal, totalAssets, deductions, extracted, netWealth, nisab), nil
}

// AssessBusiness runs the company calculation: net wealth is the zakatable
// base minus deductible liabilities, through the same nisab gate and rate
// selection as the personal path. Companies declare no extracted resources.
func AssessBusiness(b *domain.BusinessAssets, goldPricePerGram float64, cal domain.CalendarType) (Assessment, error) {
	if !cal.Valid() {
		return Assessment{}, ErrUnknownCalendar
	}
	if math.IsNaN(goldPricePerGram) || math.IsInf(goldPricePerGram, 0) || goldPricePerGram <= 0 {
		return Assessment{}, ErrGoldPriceNotPositive
	}

	zakatable, deductible := BusinessTotals(b)
	netWealth := zakatable - deductible
	nisab := NisabThreshold(goldPricePerGram)

	return assess(domain.EntityCompany, cal, zakatable, deductible, 0, netWealth, nisab), nil
}

func assess(entity domain.EntityType, cal domain.CalendarType, totalAssets, deductions, extracted, netWealth, nisab float64) Assessment {
	out := Assessment{
		EntityType:         entity,
		CalendarType:       cal,
		TotalAssets:        totalAssets,
		TotalDeductions:    deductions,
		ExtractedResources: extracted,
		NetWealth:          netWealth,
		NisabThreshold:     nisab,
		MeetsNisab:         netWealth >= nisab,
	}

	if out.MeetsNisab {
		f, _ := decimal.NewFromFloat(netWealth).Mul(RateFor(cal)).Float64()
		out.Regular = f
	}
	if extracted > 0 {
		f, _ := decimal.NewFromFloat(extracted).Mul(rateExtraction).Float64()
		out.Extracted = f
	}
	out.Total = out.Regular + out.Extracted
	return out
}
