package zakat

import (
	"encoding/json"
	"math/rand"
	"testing"

	"barakah-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	v, err := Convert(100, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)

	v, err = Convert(0, 3.2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = Convert(100, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = Convert(-1, 2)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = Convert(1, -2)
	assert.ErrorIs(t, err, ErrNegativeRate)
}

func TestAddEntry_RecomputesTotal(t *testing.T) {
	a := domain.NewIndividualAssets()

	e1, err := AddEntry(a, domain.CategoryInvestments, SubEntryInput{
		Name: "Brokerage A", Amount: 1000, Currency: "USD", ExchangeRate: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, e1.ConvertedAmount)

	_, err = AddEntry(a, domain.CategoryInvestments, SubEntryInput{
		Name: "Brokerage B", Amount: 200, Currency: "EUR", ExchangeRate: 1.1,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1220.0, a.Categories[domain.CategoryInvestments].Total, 1e-9)
}

func TestAddEntry_RejectsInvalidInput(t *testing.T) {
	a := domain.NewIndividualAssets()

	_, err := AddEntry(a, domain.CategoryCashOnHand, SubEntryInput{Name: "x", Amount: 0, ExchangeRate: 1})
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = AddEntry(a, domain.CategoryCashOnHand, SubEntryInput{Name: "x", Amount: -5, ExchangeRate: 1})
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = AddEntry(a, domain.CategoryCashOnHand, SubEntryInput{Name: "x", Amount: 5, ExchangeRate: -1})
	assert.ErrorIs(t, err, ErrRateNotPositive)

	_, err = AddEntry(a, domain.Category("mystery"), SubEntryInput{Name: "x", Amount: 5, ExchangeRate: 1})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	// nothing was inserted
	assert.Empty(t, a.Categories[domain.CategoryCashOnHand].Entries)
	assert.Equal(t, 0.0, a.Categories[domain.CategoryCashOnHand].Total)
}

func TestUpdateEntry_RecomputesConvertedAmount(t *testing.T) {
	a := domain.NewIndividualAssets()
	e, err := AddEntry(a, domain.CategoryDigitalAssets, SubEntryInput{
		Name: "BTC", Amount: 2, Currency: "BTC", ExchangeRate: 40000,
	})
	require.NoError(t, err)

	newRate := 45000.0
	updated, err := UpdateEntry(a, domain.CategoryDigitalAssets, e.ID, SubEntryPatch{ExchangeRate: &newRate})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 90000.0, updated.ConvertedAmount)
	assert.Equal(t, 90000.0, a.Categories[domain.CategoryDigitalAssets].Total)
}

func TestUpdateEntry_UnknownIDIsNoOp(t *testing.T) {
	a := domain.NewIndividualAssets()
	_, err := AddEntry(a, domain.CategoryReceivables, SubEntryInput{Name: "IOU", Amount: 50, ExchangeRate: 1})
	require.NoError(t, err)

	amount := 999.0
	updated, err := UpdateEntry(a, domain.CategoryReceivables, uuid.New(), SubEntryPatch{Amount: &amount})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, 50.0, a.Categories[domain.CategoryReceivables].Total)
}

func TestRemoveEntry(t *testing.T) {
	a := domain.NewIndividualAssets()
	e1, _ := AddEntry(a, domain.CategorySavingsAccount, SubEntryInput{Name: "Bank A", Amount: 300, ExchangeRate: 1})
	_, _ = AddEntry(a, domain.CategorySavingsAccount, SubEntryInput{Name: "Bank B", Amount: 700, ExchangeRate: 1})

	require.NoError(t, RemoveEntry(a, domain.CategorySavingsAccount, e1.ID))
	assert.Equal(t, 700.0, a.Categories[domain.CategorySavingsAccount].Total)

	// double-tap: removing the same id again is a no-op, not an error
	require.NoError(t, RemoveEntry(a, domain.CategorySavingsAccount, e1.ID))
	assert.Equal(t, 700.0, a.Categories[domain.CategorySavingsAccount].Total)
	assert.Len(t, a.Categories[domain.CategorySavingsAccount].Entries, 1)
}

// The cached total must equal the exact sum of converted amounts after any
// sequence of add/update/remove operations, not just after a single one.
func TestLedgerInvariant_RandomOperationSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := domain.NewIndividualAssets()
	cat := domain.CategoryTradeGoods

	var ids []uuid.UUID
	for i := 0; i < 200; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(ids) == 0:
			e, err := AddEntry(a, cat, SubEntryInput{
				Name:         "entry",
				Amount:       float64(rng.Intn(10000)+1) / 100,
				Currency:     "USD",
				ExchangeRate: float64(rng.Intn(300)+1) / 100,
			})
			require.NoError(t, err)
			ids = append(ids, e.ID)
		case op == 1:
			amount := float64(rng.Intn(10000)+1) / 100
			_, err := UpdateEntry(a, cat, ids[rng.Intn(len(ids))], SubEntryPatch{Amount: &amount})
			require.NoError(t, err)
		default:
			idx := rng.Intn(len(ids))
			require.NoError(t, RemoveEntry(a, cat, ids[idx]))
			ids = append(ids[:idx], ids[idx+1:]...)
		}

		var want float64
		for _, e := range a.Categories[cat].Entries {
			want += e.ConvertedAmount
		}
		assert.Equal(t, want, a.Categories[cat].Total)
	}
}

func TestTotalAssets_InvariantUnderReordering(t *testing.T) {
	a := domain.NewIndividualAssets()
	for i := 1; i <= 5; i++ {
		_, err := AddEntry(a, domain.CategoryInvestments, SubEntryInput{
			Name: "pos", Amount: float64(i) * 10.5, Currency: "USD", ExchangeRate: 1.25,
		})
		require.NoError(t, err)
	}
	before := TotalAssets(a)

	entries := a.Categories[domain.CategoryInvestments].Entries
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	assert.Equal(t, before, TotalAssets(a))
}

func TestSnapshotRoundTrip_PreservesTotalAssets(t *testing.T) {
	a := domain.NewIndividualAssets()
	_, err := AddEntry(a, domain.CategoryCashOnHand, SubEntryInput{
		Name: "Wallet", Amount: 123.45, Currency: "USD", ExchangeRate: 1,
	})
	require.NoError(t, err)
	_, err = AddEntry(a, domain.CategoryReceivables, SubEntryInput{
		Name: "Loan to cousin", Amount: 800, Currency: "EUR", ExchangeRate: 1.08,
	})
	require.NoError(t, err)
	_, err = AddGoldEntry(a, GoldInput{Karat: domain.Karat18, WeightGrams: 12, PricePerGram: 68})
	require.NoError(t, err)

	b, err := json.Marshal(a)
	require.NoError(t, err)

	restored := domain.NewIndividualAssets()
	require.NoError(t, json.Unmarshal(b, restored))
	restored.Normalize()

	assert.Equal(t, TotalAssets(a), TotalAssets(restored))
}

func TestGoldEntryLifecycle(t *testing.T) {
	a := domain.NewIndividualAssets()

	e, err := AddGoldEntry(a, GoldInput{Karat: domain.Karat21, WeightGrams: 10, PricePerGram: 70})
	require.NoError(t, err)
	require.Len(t, a.Gold, 1)

	_, err = AddGoldEntry(a, GoldInput{Karat: domain.Karat21, WeightGrams: -1, PricePerGram: 70})
	assert.ErrorIs(t, err, ErrWeightNotPositive)

	_, err = AddGoldEntry(a, GoldInput{Karat: domain.Karat24, WeightGrams: 5, PricePerGram: -70})
	assert.ErrorIs(t, err, ErrPriceNotPositive)

	_, err = AddGoldEntry(a, GoldInput{Karat: domain.Karat("22k"), WeightGrams: 5, PricePerGram: 70})
	assert.ErrorIs(t, err, ErrUnknownKarat)

	RemoveGoldEntry(a, uuid.New()) // unknown id is a no-op
	require.Len(t, a.Gold, 1)

	RemoveGoldEntry(a, e.ID)
	assert.Empty(t, a.Gold)
}
