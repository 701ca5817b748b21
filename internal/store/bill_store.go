package store

import (
	"context"

	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"gorm.io/gorm"
)

// CreateBill persists the bill header and its line items as one logical unit.
// If any item insert fails the whole bill is rolled back, so no orphaned
// headers are left behind.
func (s *Store) CreateBill(ctx context.Context, bill *model.Bill, items []model.BillItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bill).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].BillID = bill.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		bill.Items = items
		return nil
	})
}

// BillNumberExists reports whether a bill number is already taken.
func (s *Store) BillNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Bill{}).
		Where("bill_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// ListBills returns bill summaries with merchant details, newest first.
func (s *Store) ListBills(ctx context.Context) ([]model.Bill, error) {
	var bills []model.Bill
	err := s.db.WithContext(ctx).
		Preload("Merchant").
		Order("created_at DESC").
		Find(&bills).Error
	return bills, err
}

// GetBillByID returns one bill hydrated with its merchant and line items.
func (s *Store) GetBillByID(ctx context.Context, id string) (*model.Bill, error) {
	var bill model.Bill
	err := s.db.WithContext(ctx).
		Preload("Merchant").
		Preload("Items").
		Preload("Items.Fruit").
		First(&bill, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &bill, nil
}

// UpdateBillStatus moves a bill from pending to completed or cancelled.
// Completed and cancelled are terminal.
func (s *Store) UpdateBillStatus(ctx context.Context, id, status string) (*model.Bill, error) {
	var bill model.Bill
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bill, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		if bill.Status != model.BillStatusPending {
			return ErrInvalidTransition
		}

		if err := tx.Model(&bill).Update("status", status).Error; err != nil {
			return err
		}
		bill.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}
