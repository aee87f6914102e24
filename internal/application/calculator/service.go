package calculator

import (
	"context"
	"encoding/json"
	"time"

	"barakah-backend/internal/domain"
	"barakah-backend/internal/zakat"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns the personal calculator store. Each operation loads the
// user's snapshot, applies the ledger mutation, and writes the snapshot back
// inside one transaction so the cached totals can never be persisted out of
// step with the entry lists.
type Service struct {
	DB *gorm.DB
}

// Snapshot is the persisted individual store: assets plus deductions.
// Deserialization tolerates missing fields (older snapshots default to
// zero/empty through Normalize).
type Snapshot struct {
	Assets     *domain.IndividualAssets    `json:"assets"`
	Deductions domain.IndividualDeductions `json:"deductions"`
}

func (s *Snapshot) normalize() {
	if s.Assets == nil {
		s.Assets = domain.NewIndividualAssets()
	}
	s.Assets.Normalize()
}

func loadSnapshot(tx *gorm.DB, userID uuid.UUID) (*Snapshot, error) {
	var row domain.CalculatorState
	err := tx.Where("user_id = ? AND namespace = ?", userID, domain.NamespaceIndividual).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		snap := &Snapshot{}
		snap.normalize()
		return snap, nil
	}
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(row.Snapshot, snap); err != nil {
		// Unreadable snapshot: start fresh rather than locking the user out.
		snap = &Snapshot{}
	}
	snap.normalize()
	return snap, nil
}

func saveSnapshot(tx *gorm.DB, userID uuid.UUID, snap *Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	var row domain.CalculatorState
	err = tx.Where("user_id = ? AND namespace = ?", userID, domain.NamespaceIndividual).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.CalculatorState{
			UserID:    userID,
			Namespace: domain.NamespaceIndividual,
			Snapshot:  datatypes.JSON(b),
		}).Error
	}
	if err != nil {
		return err
	}
	row.Snapshot = datatypes.JSON(b)
	return tx.Save(&row).Error
}

// mutate runs fn against the loaded snapshot and persists the result.
func (s *Service) mutate(ctx context.Context, userID uuid.UUID, fn func(*Snapshot) error) (*Snapshot, error) {
	var snap *Snapshot
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snap, err = loadSnapshot(tx, userID)
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
		return saveSnapshot(tx, userID, snap)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// GetSnapshot returns the user's current declaration.
func (s *Service) GetSnapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	snap, err := loadSnapshot(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// AddSubEntry appends a holding under a category.
func (s *Service) AddSubEntry(ctx context.Context, userID uuid.UUID, cat domain.Category, in zakat.SubEntryInput) (domain.AssetSubEntry, *Snapshot, error) {
	var entry domain.AssetSubEntry
	snap, err := s.mutate(ctx, userID, func(snap *Snapshot) error {
		var err error
		entry, err = zakat.AddEntry(snap.Assets, cat, in)
		return err
	})
	if err != nil {
		return domain.AssetSubEntry{}, nil, err
	}
	return entry, snap, nil
}

// UpdateSubEntry patches a holding; unknown ids are a no-op and return a nil
// entry.
func (s *Service) UpdateSubEntry(ctx context.Context, userID uuid.UUID, cat domain.Category, id uuid.UUID, patch zakat.SubEntryPatch) (*domain.AssetSubEntry, *Snapshot, error) {
	var entry *domain.AssetSubEntry
	snap, err := s.mutate(ctx, userID, func(snap *Snapshot) error {
		var err error
		entry, err = zakat.UpdateEntry(snap.Assets, cat, id, patch)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, snap, nil
}

// RemoveSubEntry deletes a holding; unknown ids are a no-op.
func (s *Service) RemoveSubEntry(ctx context.Context, userID uuid.UUID, cat domain.Category, id uuid.UUID) (*Snapshot, error) {
	return s.mutate(ctx, userID, func(snap *Snapshot) error {
		return zakat.RemoveEntry(snap.Assets, cat, id)
	})
}

// AddGoldEntry appends a gold holding.
func (s *Service) AddGoldEntry(ctx context.Context, userID uuid.UUID, in zakat.GoldInput) (domain.GoldEntry, *Snapshot, error) {
	var entry domain.GoldEntry
	snap, err := s.mutate(ctx, userID, func(snap *Snapshot) error {
		var err error
		entry, err = zakat.AddGoldEntry(snap.Assets, in)
		return err
	})
	if err != nil {
		return domain.GoldEntry{}, nil, err
	}
	return entry, snap, nil
}

// RemoveGoldEntry deletes a gold holding; unknown ids are a no-op.
func (s *Service) RemoveGoldEntry(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Snapshot, error) {
	return s.mutate(ctx, userID, func(snap *Snapshot) error {
		zakat.RemoveGoldEntry(snap.Assets, id)
		return nil
	})
}

// SetDeductions replaces the deduction figures.
func (s *Service) SetDeductions(ctx context.Context, userID uuid.UUID, d domain.IndividualDeductions) (*Snapshot, error) {
	if d.ZakatAlreadyPaid < 0 || d.UrgentDebts < 0 || d.GoodReceivables < 0 {
		return nil, zakat.ErrNegativeAmount
	}
	return s.mutate(ctx, userID, func(snap *Snapshot) error {
		snap.Deductions = d
		return nil
	})
}

// Calculate runs the assessment over the current snapshot and appends an
// immutable history entry in the same transaction.
func (s *Service) Calculate(ctx context.Context, userID uuid.UUID, goldPricePerGram float64, cal domain.CalendarType) (zakat.Assessment, *Snapshot, *domain.ZakatHistoryEntry, error) {
	var (
		result zakat.Assessment
		snap   *Snapshot
		entry  domain.ZakatHistoryEntry
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snap, err = loadSnapshot(tx, userID)
		if err != nil {
			return err
		}
		result, err = zakat.AssessIndividual(snap.Assets, snap.Deductions, goldPricePerGram, cal)
		if err != nil {
			return err
		}
		now := time.Now()
		entry = domain.ZakatHistoryEntry{
			UserID:          userID,
			Date:            now,
			FiscalYear:      now.Year(),
			EntityType:      domain.EntityPersonal,
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
	return result, snap, &entry, nil
}
