package history

import (
	"context"
	"errors"

	"barakah-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("history entry not found")

// Service reads the immutable calculation history. Entries are written by the
// calculators; the only mutation allowed here is flipping the paid flag.
type Service struct {
	DB *gorm.DB
}

// List returns the user's history, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.ZakatHistoryEntry, error) {
	var entries []domain.ZakatHistoryEntry
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns one entry owned by the user.
func (s *Service) Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.ZakatHistoryEntry, error) {
	var entry domain.ZakatHistoryEntry
	err := s.DB.WithContext(ctx).
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarkPaid sets the paid flag on an entry. Everything else on the row stays
// frozen.
func (s *Service) MarkPaid(ctx context.Context, userID, entryID uuid.UUID) (*domain.ZakatHistoryEntry, error) {
	var entry domain.ZakatHistoryEntry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrEntryNotFound
			}
			return err
		}
		if entry.Paid {
			return nil
		}
		entry.Paid = true
		return tx.Model(&entry).Update("paid", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
