package business

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"barakah-backend/internal/classifier"
	"barakah-backend/internal/domain"
	"barakah-backend/internal/zakat"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrLineItemNotFound      = errors.New("line item not found")
	ErrInvalidClassification = errors.New("invalid classification")
	ErrNameRequired          = errors.New("line item name is required")
)

// Service owns the business calculator store: company profile, base
// balance-sheet figures and classified line items, persisted as one JSON
// snapshot per user.
type Service struct {
	DB *gorm.DB
}

// ProfileInput sets the company profile and base figures.
type ProfileInput struct {
	CompanyName  string  `json:"company_name"`
	IndustryType string  `json:"industry_type"`
	Cash         float64 `json:"cash"`
	Receivables  float64 `json:"receivables"`
	Inventory    float64 `json:"inventory"`
	Investments  float64 `json:"investments"`
}

// ResolveInput finalizes a needs_clarification item (or corrects a verdict).
type ResolveInput struct {
	Classification      domain.Classification `json:"classification"`
	ClarificationAnswer string                `json:"clarification_answer"`
	MarketValue         *float64              `json:"market_value"`
}

func loadState(tx *gorm.DB, userID uuid.UUID) (*domain.BusinessAssets, error) {
	var row domain.CalculatorState
	err := tx.Where("user_id = ? AND namespace = ?", userID, domain.NamespaceBusiness).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return domain.NewBusinessAssets(), nil
	}
	if err != nil {
		return nil, err
	}
	b := &domain.BusinessAssets{}
	if err := json.Unmarshal(row.Snapshot, b); err != nil {
		b = domain.NewBusinessAssets()
	}
	b.Normalize()
	return b, nil
}

func saveState(tx *gorm.DB, userID uuid.UUID, b *domain.BusinessAssets) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	var row domain.CalculatorState
	err = tx.Where("user_id = ? AND namespace = ?", userID, domain.NamespaceBusiness).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.CalculatorState{
			UserID:    userID,
			Namespace: domain.NamespaceBusiness,
			Snapshot:  datatypes.JSON(raw),
		}).Error
	}
	if err != nil {
		return err
	}
	row.Snapshot = datatypes.JSON(raw)
	return tx.Save(&row).Error
}

func (s *Service) mutate(ctx context.Context, userID uuid.UUID, fn func(*domain.BusinessAssets) error) (*domain.BusinessAssets, error) {
	var b *domain.BusinessAssets
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		b, err = loadState(tx, userID)
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
		return saveState(tx, userID, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetState returns the user's current company declaration.
func (s *Service) GetState(ctx context.Context, userID uuid.UUID) (*domain.BusinessAssets, error) {
	return loadState(s.DB.WithContext(ctx), userID)
}

// SetProfile replaces the company profile and base balance-sheet figures.
func (s *Service) SetProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*domain.BusinessAssets, error) {
	if in.Cash < 0 || in.Receivables < 0 || in.Inventory < 0 || in.Investments < 0 {
		return nil, zakat.ErrNegativeAmount
	}
	return s.mutate(ctx, userID, func(b *domain.BusinessAssets) error {
		b.CompanyName = in.CompanyName
		b.IndustryType = in.IndustryType
		b.Cash = in.Cash
		b.Receivables = in.Receivables
		b.Inventory = in.Inventory
		b.Investments = in.Investments
		return nil
	})
}

// AddLineItem ingests a balance-sheet row and immediately classifies it.
func (s *Service) AddLineItem(ctx context.Context, userID uuid.UUID, name string, amount float64) (domain.BusinessLineItem, *domain.BusinessAssets, error) {
	if name == "" {
		return domain.BusinessLineItem{}, nil, ErrNameRequired
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return domain.BusinessLineItem{}, nil, zakat.ErrAmountNotPositive
	}
	item := domain.BusinessLineItem{
		ID:     uuid.New(),
		Name:   name,
		Amount: amount,
	}
	classifier.Apply(&item)
	b, err := s.mutate(ctx, userID, func(b *domain.BusinessAssets) error {
		b.LineItems = append(b.LineItems, item)
		return nil
	})
	if err != nil {
		return domain.BusinessLineItem{}, nil, err
	}
	return item, b, nil
}

// ResolveLineItem applies the user's final classification to an item,
// typically moving it out of needs_clarification.
func (s *Service) ResolveLineItem(ctx context.Context, userID, itemID uuid.UUID, in ResolveInput) (*domain.BusinessLineItem, *domain.BusinessAssets, error) {
	if !in.Classification.Valid() {
		return nil, nil, ErrInvalidClassification
	}
	if in.MarketValue != nil && (*in.MarketValue < 0 || math.IsNaN(*in.MarketValue) || math.IsInf(*in.MarketValue, 0)) {
		return nil, nil, zakat.ErrNegativeAmount
	}
	var resolved *domain.BusinessLineItem
	b, err := s.mutate(ctx, userID, func(b *domain.BusinessAssets) error {
		for i := range b.LineItems {
			if b.LineItems[i].ID != itemID {
				continue
			}
			li := &b.LineItems[i]
			li.Classification = in.Classification
			li.ClarificationAnswer = in.ClarificationAnswer
			if in.MarketValue != nil {
				li.MarketValue = in.MarketValue
			}
			out := *li
			resolved = &out
			return nil
		}
		return ErrLineItemNotFound
	})
	if err != nil {
		return nil, nil, err
	}
	return resolved, b, nil
}

// RemoveLineItem deletes an item; unknown ids are a no-op.
func (s *Service) RemoveLineItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.BusinessAssets, error) {
	return s.mutate(ctx, userID, func(b *domain.BusinessAssets) error {
		for i := range b.LineItems {
			if b.LineItems[i].ID == itemID {
				b.LineItems = append(b.LineItems[:i], b.LineItems[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// Calculate runs the company assessment and appends an immutable history
// entry in the same transaction.
func (s *Service) Calculate(ctx context.Context, userID uuid.UUID, goldPricePerGram float64, cal domain.CalendarType) (zakat.Assessment, *domain.BusinessAssets, *domain.ZakatHistoryEntry, error) {
	var (
		result zakat.Assessment
		b      *domain.BusinessAssets
		entry  domain.ZakatHistoryEntry
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		b, err = loadState(tx, userID)
		if err != nil {
			return err
		}
		result, err = zakat.AssessBusiness(b, goldPricePerGram, cal)
		if err != nil {
			return err
		}
		now := time.Now()
		entry = domain.ZakatHistoryEntry{
			UserID:          userID,
			Date:            now,
			FiscalYear:      now.Year(),
			EntityType:      domain.EntityCompany,
			TotalAssets:     result.TotalAssets,
			TotalDeductions: result.TotalDeductions,
			NetWealth:       result.NetWealth,
			NisabThreshold:  result.NisabThreshold,
			ZakatDue:        result.Total,
			CalendarType:    cal,
			MeetsNisab:      result.MeetsNisab,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return zakat.Assessment{}, nil, nil, err
	}
	return result, b, &entry, nil
}
