package store

import (
	"context"

	"github.com/suhailullakhan1/FruitMandi/internal/model"
)

// CreateWeightEntry persists a new intake transaction.
func (s *Store) CreateWeightEntry(ctx context.Context, entry *model.WeightEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListWeightEntries returns all entries, newest first, with merchant, fruit
// and recorder hydrated for table rendering.
func (s *Store) ListWeightEntries(ctx context.Context) ([]model.WeightEntry, error) {
	var entries []model.WeightEntry
	err := s.db.WithContext(ctx).
		Preload("Merchant").
		Preload("Fruit").
		Preload("Recorder").
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// ListWeightEntriesByMerchant returns one merchant's entries, newest first.
func (s *Store) ListWeightEntriesByMerchant(ctx context.Context, merchantID string) ([]model.WeightEntry, error) {
	var entries []model.WeightEntry
	err := s.db.WithContext(ctx).
		Preload("Fruit").
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
