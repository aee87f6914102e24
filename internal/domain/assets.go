package domain

import (
	"github.com/google/uuid"
)

// Category is the closed set of individual asset categories. Every category
// owns a sub-entry list plus a cached scalar total; using a typed key (rather
// than string-built field names) keeps lookups checkable at compile time.
type Category string

const (
	CategoryCashOnHand     Category = "cashOnHand"
	CategorySavingsAccount Category = "savingsAccount"
	CategoryInvestments    Category = "investments"
	CategoryDigitalAssets  Category = "digitalAssets"
	CategoryRealEstate     Category = "realEstate"
	CategoryReceivables    Category = "receivables"
	CategoryTradeGoods     Category = "tradeGoods"
	CategoryUniqueAssets   Category = "uniqueAssets"
	CategoryMinerals       Category = "minerals"
	CategoryOil            Category = "oil"
	CategoryGas            Category = "gas"
)

// AllCategories lists every category in declaration order (stable for UI breakdowns).
var AllCategories = []Category{
	CategoryCashOnHand,
	CategorySavingsAccount,
	CategoryInvestments,
	CategoryDigitalAssets,
	CategoryRealEstate,
	CategoryReceivables,
	CategoryTradeGoods,
	CategoryUniqueAssets,
	CategoryMinerals,
	CategoryOil,
	CategoryGas,
}

// ExtractedResourceCategories are taxed at the flat extraction rate instead of
// the standard nisab-gated rate.
var ExtractedResourceCategories = []Category{CategoryMinerals, CategoryOil, CategoryGas}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsExtractedResource reports whether the category is minerals, oil or gas.
func (c Category) IsExtractedResource() bool {
	return c == CategoryMinerals || c == CategoryOil || c == CategoryGas
}

// AssetSubEntry is a single named holding under a category (e.g. one brokerage
// position under investments). ConvertedAmount is Amount * ExchangeRate in the
// user's base currency, fixed at creation/update time; it is not re-derived
// when read back.
type AssetSubEntry struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	ExchangeRate    float64   `json:"exchange_rate"`
	ConvertedAmount float64   `json:"converted_amount"`
}

// Karat is the gold purity grade.
type Karat string

const (
	Karat24 Karat = "24k"
	Karat21 Karat = "21k"
	Karat18 Karat = "18k"
)

// Valid reports whether k is a supported purity grade.
func (k Karat) Valid() bool {
	return k == Karat24 || k == Karat21 || k == Karat18
}

// GoldEntry is one physical gold holding. Entries carry generated ids so
// removal is id-based rather than index-based.
type GoldEntry struct {
	ID           uuid.UUID `json:"id"`
	Karat        Karat     `json:"karat"`
	WeightGrams  float64   `json:"weight_grams"`
	PricePerGram float64   `json:"price_per_gram"`
}

// CategoryState pairs a category's cached scalar total with its sub-entry
// list. Total must always equal the sum of ConvertedAmount over Entries; the
// ledger recomputes it on every mutation.
type CategoryState struct {
	Total   float64         `json:"total"`
	Entries []AssetSubEntry `json:"entries"`
}

// IndividualAssets is the full personal asset declaration: one CategoryState
// per category plus the flat gold list.
type IndividualAssets struct {
	Categories map[Category]*CategoryState `json:"categories"`
	Gold       []GoldEntry                 `json:"gold"`
}

// NewIndividualAssets returns an empty declaration with every category present.
func NewIndividualAssets() *IndividualAssets {
	a := &IndividualAssets{
		Categories: make(map[Category]*CategoryState, len(AllCategories)),
		Gold:       []GoldEntry{},
	}
	for _, c := range AllCategories {
		a.Categories[c] = &CategoryState{Entries: []AssetSubEntry{}}
	}
	return a
}

// Normalize fills in categories missing from a deserialized snapshot so older
// snapshots survive schema evolution (absent category defaults to zero/empty).
func (a *IndividualAssets) Normalize() {
	if a.Categories == nil {
		a.Categories = make(map[Category]*CategoryState, len(AllCategories))
	}
	for _, c := range AllCategories {
		if a.Categories[c] == nil {
			a.Categories[c] = &CategoryState{Entries: []AssetSubEntry{}}
		}
	}
	if a.Gold == nil {
		a.Gold = []GoldEntry{}
	}
}

// IndividualDeductions are the allowances subtracted from gross wealth before
// the nisab test.
type IndividualDeductions struct {
	ZakatAlreadyPaid float64 `json:"zakat_already_paid"`
	UrgentDebts      float64 `json:"urgent_debts"`
	GoodReceivables  float64 `json:"good_receivables"`
}
