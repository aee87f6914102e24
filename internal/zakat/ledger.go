package zakat

import (
	"math"

	"barakah-backend/internal/domain"

	"github.com/google/uuid"
)

// SubEntryInput is the validated payload for a new sub-entry.
type SubEntryInput struct {
	Name         string
	Description  string
	Amount       float64
	Currency     string
	ExchangeRate float64
}

// SubEntryPatch carries the fields to change on an existing sub-entry. Nil
// fields are left untouched. Any patch that changes Amount or ExchangeRate
// recomputes ConvertedAmount; the stored value is never silently stale after
// an update goes through the ledger.
type SubEntryPatch struct {
	Name         *string
	Description  *string
	Amount       *float64
	Currency     *string
	ExchangeRate *float64
}

// AddEntry validates the input, converts it at the supplied rate and appends
// it to the category's list, then recomputes the cached total.
func AddEntry(a *domain.IndividualAssets, cat domain.Category, in SubEntryInput) (domain.AssetSubEntry, error) {
	if !cat.Valid() {
		return domain.AssetSubEntry{}, ErrUnknownCategory
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return domain.AssetSubEntry{}, ErrAmountNotFinite
	}
	if in.Amount <= 0 {
		return domain.AssetSubEntry{}, ErrAmountNotPositive
	}
	if math.IsNaN(in.ExchangeRate) || math.IsInf(in.ExchangeRate, 0) {
		return domain.AssetSubEntry{}, ErrRateNotFinite
	}
	if in.ExchangeRate <= 0 {
		return domain.AssetSubEntry{}, ErrRateNotPositive
	}

	entry := domain.AssetSubEntry{
		ID:              uuid.New(),
		Name:            in.Name,
		Description:     in.Description,
		Amount:          in.Amount,
		Currency:        in.Currency,
		ExchangeRate:    in.ExchangeRate,
		ConvertedAmount: in.Amount * in.ExchangeRate,
	}

	state := a.Categories[cat]
	state.Entries = append(state.Entries, entry)
	state.Total = sumConverted(state.Entries)
	return entry, nil
}

// UpdateEntry applies the patch to the entry with the given id and recomputes
// the category total. An unknown id is tolerated as a no-op (nil, nil) to
// absorb UI double-taps; the caller can tell from the nil entry.
func UpdateEntry(a *domain.IndividualAssets, cat domain.Category, id uuid.UUID, patch SubEntryPatch) (*domain.AssetSubEntry, error) {
	if !cat.Valid() {
		return nil, ErrUnknownCategory
	}
	if patch.Amount != nil {
		if math.IsNaN(*patch.Amount) || math.IsInf(*patch.Amount, 0) {
			return nil, ErrAmountNotFinite
		}
		if *patch.Amount <= 0 {
			return nil, ErrAmountNotPositive
		}
	}
	if patch.ExchangeRate != nil {
		if math.IsNaN(*patch.ExchangeRate) || math.IsInf(*patch.ExchangeRate, 0) {
			return nil, ErrRateNotFinite
		}
		if *patch.ExchangeRate <= 0 {
			return nil, ErrRateNotPositive
		}
	}

	state := a.Categories[cat]
	for i := range state.Entries {
		if state.Entries[i].ID != id {
			continue
		}
		e := &state.Entries[i]
		if patch.Name != nil {
			e.Name = *patch.Name
		}
		if patch.Description != nil {
			e.Description = *patch.Description
		}
		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}
		if patch.Currency != nil {
			e.Currency = *patch.Currency
		}
		if patch.ExchangeRate != nil {
			e.ExchangeRate = *patch.ExchangeRate
		}
		e.ConvertedAmount = e.Amount * e.ExchangeRate
		state.Total = sumConverted(state.Entries)
		out := *e
		return &out, nil
	}
	return nil, nil
}

// RemoveEntry deletes the entry with the given id and recomputes the category
// total. Removing an id that no longer exists is a no-op, not an error.
func RemoveEntry(a *domain.IndividualAssets, cat domain.Category, id uuid.UUID) error {
	if !cat.Valid() {
		return ErrUnknownCategory
	}
	state := a.Categories[cat]
	for i := range state.Entries {
		if state.Entries[i].ID == id {
			state.Entries = append(state.Entries[:i], state.Entries[i+1:]...)
			break
		}
	}
	state.Total = sumConverted(state.Entries)
	return nil
}

// GoldInput is the validated payload for a new gold holding.
type GoldInput struct {
	Karat        domain.Karat
	WeightGrams  float64
	PricePerGram float64
}

// AddGoldEntry validates and appends a gold holding. Negative weight or price
// is rejected here, never clamped.
func AddGoldEntry(a *domain.IndividualAssets, in GoldInput) (domain.GoldEntry, error) {
	if !in.Karat.Valid() {
		return domain.GoldEntry{}, ErrUnknownKarat
	}
	if math.IsNaN(in.WeightGrams) || math.IsInf(in.WeightGrams, 0) || in.WeightGrams <= 0 {
		return domain.GoldEntry{}, ErrWeightNotPositive
	}
	if math.IsNaN(in.PricePerGram) || math.IsInf(in.PricePerGram, 0) || in.PricePerGram <= 0 {
		return domain.GoldEntry{}, ErrPriceNotPositive
	}
	entry := domain.GoldEntry{
		ID:           uuid.New(),
		Karat:        in.Karat,
		WeightGrams:  in.WeightGrams,
		PricePerGram: in.PricePerGram,
	}
	a.Gold = append(a.Gold, entry)
	return entry, nil
}

// RemoveGoldEntry deletes the gold holding with the given id; unknown ids are
// a no-op.
func RemoveGoldEntry(a *domain.IndividualAssets, id uuid.UUID) {
	for i := range a.Gold {
		if a.Gold[i].ID == id {
			a.Gold = append(a.Gold[:i], a.Gold[i+1:]...)
			return
		}
	}
}

// sumConverted is the single source of truth for a category total: the exact
// sum over the current list, never an incrementally patched running value.
func sumConverted(entries []domain.AssetSubEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.ConvertedAmount
	}
	return total
}
