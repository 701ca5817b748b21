package store

import (
	"context"

	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"gorm.io/gorm"
)

// GetUserByPhone looks up a user by phone number.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser persists a new user record.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// CreateUserWithMerchant persists a user and, when profile is not nil, its
// merchant profile in one transaction so a registration never leaves a user
// without its profile.
func (s *Store) CreateUserWithMerchant(ctx context.Context, user *model.User, profile *model.Merchant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if profile != nil {
			profile.UserID = &user.ID
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
