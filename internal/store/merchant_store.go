package store

import (
	"context"

	"github.com/suhailullakhan1/FruitMandi/internal/model"
)

// ListMerchants returns active merchants, newest first.
func (s *Store) ListMerchants(ctx context.Context) ([]model.Merchant, error) {
	var merchants []model.Merchant
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&merchants).Error
	return merchants, err
}

// GetMerchantByID looks up a merchant by id.
func (s *Store) GetMerchantByID(ctx context.Context, id string) (*model.Merchant, error) {
	var merchant model.Merchant
	if err := s.db.WithContext(ctx).First(&merchant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &merchant, nil
}

// CreateMerchant persists a new merchant profile.
func (s *Store) CreateMerchant(ctx context.Context, merchant *model.Merchant) error {
	return s.db.WithContext(ctx).Create(merchant).Error
}

// MerchantCodeExists reports whether a merchant code is already taken.
func (s *Store) MerchantCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Merchant{}).
		Where("merchant_code = ?", code).
		Count(&count).Error
	return count > 0, err
}
