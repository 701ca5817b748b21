package database

import (
	"github.com/shopspring/decimal"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDefaults populates an empty database with the default company admin,
// the sample fruit price list and one sample merchant. Safe to call on every
// startup: it only runs when the fruits table is empty.
func SeedDefaults(db *gorm.DB, log *zap.Logger) error {
	var fruitCount int64
	if err := db.Model(&model.Fruit{}).Count(&fruitCount).Error; err != nil {
		return err
	}
	if fruitCount > 0 {
		return nil
	}

	admin := model.User{
		Phone:    "+1234567890",
		Role:     model.RoleCompany,
		Name:     "Admin User",
		IsActive: true,
	}
	if err := db.Where(model.User{Phone: admin.Phone}).FirstOrCreate(&admin).Error; err != nil {
		log.Error("Failed to seed admin user", zap.Error(err))
		return err
	}

	variety := func(s string) *string { return &s }
	fruits := []model.Fruit{
		{Name: "Mango", Variety: variety("Large"), CurrentRate: decimal.NewFromFloat(50.00), Unit: "kg", IsActive: true},
		{Name: "Mango", Variety: variety("Medium"), CurrentRate: decimal.NewFromFloat(45.00), Unit: "kg", IsActive: true},
		{Name: "Mango", Variety: variety("Small"), CurrentRate: decimal.NewFromFloat(40.00), Unit: "kg", IsActive: true},
		{Name: "Apple", Variety: variety("Red"), CurrentRate: decimal.NewFromFloat(80.00), Unit: "kg", IsActive: true},
		{Name: "Orange", Variety: variety("Sweet"), CurrentRate: decimal.NewFromFloat(60.00), Unit: "kg", IsActive: true},
	}
	for i := range fruits {
		if err := db.Create(&fruits[i]).Error; err != nil {
			log.Error("Failed to seed fruit", zap.String("name", fruits[i].Name), zap.Error(err))
			return err
		}
	}

	address := "123 Market Street"
	merchant := model.Merchant{
		UserID:         &admin.ID,
		MerchantCode:   "MERCH001",
		Name:           "Sample Merchant",
		Phone:          "+1234567891",
		Address:        &address,
		CommissionRate: decimal.NewFromFloat(5.00),
		IsActive:       true,
	}
	if err := db.Where(model.Merchant{MerchantCode: merchant.MerchantCode}).FirstOrCreate(&merchant).Error; err != nil {
		log.Error("Failed to seed sample merchant", zap.Error(err))
		return err
	}

	log.Info("Database seeded with default fruits and admin user")
	return nil
}
