package zakat

import (
	"testing"

	"barakah-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldValue(t *testing.T) {
	assert.Equal(t, 0.0, GoldValue(nil))

	// 10g of 21k at 70/g: 10 * 70 * 0.875 = 612.5 exactly
	entries := []domain.GoldEntry{{Karat: domain.Karat21, WeightGrams: 10, PricePerGram: 70}}
	assert.Equal(t, 612.5, GoldValue(entries))

	entries = append(entries,
		domain.GoldEntry{Karat: domain.Karat24, WeightGrams: 5, PricePerGram: 80},
		domain.GoldEntry{Karat: domain.Karat18, WeightGrams: 4, PricePerGram: 100},
	)
	// 612.5 + 400 + 300
	assert.Equal(t, 1312.5, GoldValue(entries))
}

func TestNisabThreshold(t *testing.T) {
	assert.Equal(t, 5950.0, NisabThreshold(70))
}

func setTotal(a *domain.IndividualAssets, cat domain.Category, amount float64) {
	if _, err := AddEntry(a, cat, SubEntryInput{Name: "fixture", Amount: amount, Currency: "USD", ExchangeRate: 1}); err != nil {
		panic(err)
	}
}

func TestAssessIndividual_RateSelection(t *testing.T) {
	a := domain.NewIndividualAssets()
	setTotal(a, domain.CategoryCashOnHand, 100000)

	// nisab at 85*10 = 850, well below net wealth
	islamic, err := AssessIndividual(a, domain.IndividualDeductions{}, 10, domain.CalendarIslamic)
	require.NoError(t, err)
	assert.True(t, islamic.MeetsNisab)
	assert.Equal(t, 2500.0, islamic.Regular)
	assert.Equal(t, 2500.0, islamic.Total)

	western, err := AssessIndividual(a, domain.IndividualDeductions{}, 10, domain.CalendarWestern)
	require.NoError(t, err)
	assert.Equal(t, 2577.0, western.Regular)
	assert.Equal(t, 2577.0, western.Total)
}

func TestAssessIndividual_NisabBoundary(t *testing.T) {
	gold := 70.0
	nisab := NisabThreshold(gold) // 5950

	// net wealth exactly at nisab: zakat IS due (inclusive threshold)
	a := domain.NewIndividualAssets()
	setTotal(a, domain.CategoryCashOnHand, nisab)
	res, err := AssessIndividual(a, domain.IndividualDeductions{}, gold, domain.CalendarIslamic)
	require.NoError(t, err)
	assert.True(t, res.MeetsNisab)
	assert.Greater(t, res.Regular, 0.0)

	// one cent below nisab: standard component is zero
	a = domain.NewIndividualAssets()
	setTotal(a, domain.CategoryCashOnHand, nisab-0.01)
	res, err = AssessIndividual(a, domain.IndividualDeductions{}, gold, domain.CalendarIslamic)
	require.NoError(t, err)
	assert.False(t, res.MeetsNisab)
	assert.Equal(t, 0.0, res.Regular)
	assert.Equal(t, 0.0, res.Total)
}

func TestAssessIndividual_ExtractedResourcesBypassNisab(t *testing.T) {
	a := domain.NewIndividualAssets()
	setTotal(a, domain.CategoryCashOnHand, 100)
	setTotal(a, domain.CategoryOil, 1000)

	res, err := AssessIndividual(a, domain.IndividualDeductions{}, 70, domain.CalendarIslamic)
	require.NoError(t, err)

	// extracted resources are in gross assets but excluded from the
	// standard-rate base
	assert.Equal(t, 1100.0, res.TotalAssets)
	assert.Equal(t, 1000.0, res.ExtractedResources)
	assert.Equal(t, 100.0, res.NetWealth)
	assert.Equal(t, 5950.0, res.NisabThreshold)

	assert.False(t, res.MeetsNisab)
	assert.Equal(t, 0.0, res.Regular)
	assert.Equal(t, 200.0, res.Extracted)
	assert.Equal(t, 200.0, res.Total)
}

func TestAssessIndividual_Deductions(t *testing.T) {
	a := domain.NewIndividualAssets()
	setTotal(a, domain.CategoryCashOnHand, 10000)

	res, err := AssessIndividual(a, domain.IndividualDeductions{
		ZakatAlreadyPaid: 100,
		UrgentDebts:      400,
		GoodReceivables:  500,
	}, 70, domain.CalendarIslamic)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, res.TotalDeductions)
	assert.Equal(t, 9000.0, res.NetWealth)
	assert.True(t, res.MeetsNisab)
	assert.Equal(t, 225.0, res.Regular)
}

func TestAssessIndividual_InvalidInputs(t *testing.T) {
	a := domain.NewIndividualAssets()

	_, err := AssessIndividual(a, domain.IndividualDeductions{}, 0, domain.CalendarIslamic)
	assert.ErrorIs(t, err, ErrGoldPriceNotPositive)

	_, err = AssessIndividual(a, domain.IndividualDeductions{}, 70, domain.CalendarType("lunar"))
	assert.ErrorIs(t, err, ErrUnknownCalendar)
}

func TestAssessBusiness(t *testing.T) {
	market := 12000.0
	b := &domain.BusinessAssets{
		CompanyName: "Noor Trading LLC",
		Cash:        50000,
		Receivables: 10000,
		Inventory:   25000,
		Investments: 5000,
		LineItems: []domain.BusinessLineItem{
			{Name: "Trading securities", Amount: 10000, Classification: domain.Zakatable, MarketValue: &market},
			{Name: "Accounts payable", Amount: 20000, Classification: domain.Deductible},
			{Name: "Office building", Amount: 300000, Classification: domain.Exempt},
			{Name: "Long term loan", Amount: 40000, Classification: domain.NotDeductible},
			{Name: "Some deposit", Amount: 7000, Classification: domain.NeedsClarification},
		},
	}

	res, err := AssessBusiness(b, 70, domain.CalendarIslamic)
	require.NoError(t, err)

	// zakatable: 90000 base + 12000 market value; deductible: 20000.
	// exempt/not_deductible/needs_clarification contribute zero.
	assert.Equal(t, 102000.0, res.TotalAssets)
	assert.Equal(t, 20000.0, res.TotalDeductions)
	assert.Equal(t, 82000.0, res.NetWealth)
	assert.True(t, res.MeetsNisab)
	assert.Equal(t, 2050.0, res.Regular)
	assert.Equal(t, domain.EntityCompany, res.EntityType)
}

func TestAssessBusiness_BelowNisab(t *testing.T) {
	b := &domain.BusinessAssets{Cash: 500}
	res, err := AssessBusiness(b, 70, domain.CalendarWestern)
	require.NoError(t, err)
	assert.False(t, res.MeetsNisab)
	assert.Equal(t, 0.0, res.Total)
}
