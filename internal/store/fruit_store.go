package store

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
)

// ListFruits returns all active fruits.
func (s *Store) ListFruits(ctx context.Context) ([]model.Fruit, error) {
	var fruits []model.Fruit
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name, variety").
		Find(&fruits).Error
	return fruits, err
}

// GetFruitByID looks up a fruit by id.
func (s *Store) GetFruitByID(ctx context.Context, id string) (*model.Fruit, error) {
	var fruit model.Fruit
	if err := s.db.WithContext(ctx).First(&fruit, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &fruit, nil
}

// CreateFruit persists a new priced fruit.
func (s *Store) CreateFruit(ctx context.Context, fruit *model.Fruit) error {
	return s.db.WithContext(ctx).Create(fruit).Error
}

// UpdateFruitRate overwrites the fruit's current rate and returns the updated
// record. Historical weight entries and bill items keep their own snapshots.
func (s *Store) UpdateFruitRate(ctx context.Context, id string, rate decimal.Decimal) (*model.Fruit, error) {
	var fruit model.Fruit
	if err := s.db.WithContext(ctx).First(&fruit, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if err := s.db.WithContext(ctx).Model(&fruit).Update("current_rate", rate).Error; err != nil {
		return nil, err
	}
	fruit.CurrentRate = rate
	return &fruit, nil
}
