package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Merchant is a trading partner who supplies fruit, identified by a unique
// merchant code. Created explicitly by a company user, or implicitly when a
// new user registers with the merchant role.
type Merchant struct {
	ID             string          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         *string         `json:"user_id,omitempty" gorm:"type:uuid;index"`
	MerchantCode   string          `json:"merchant_code" gorm:"type:varchar(20);uniqueIndex;not null"`
	Name           string          `json:"name" gorm:"type:varchar(100);not null"`
	Phone          string          `json:"phone" gorm:"type:varchar(20);not null"`
	Address        *string         `json:"address,omitempty" gorm:"type:text"`
	CommissionRate decimal.Decimal `json:"commission_rate" gorm:"type:decimal(5,2);default:5.00"`
	IsActive       bool            `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time       `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
