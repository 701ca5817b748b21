package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fruit is a priced commodity. CurrentRate is the live price per unit and is
// overwritten on rate updates; weight entries and bill items keep their own
// rate snapshot, so history is unaffected.
type Fruit struct {
	ID          string          `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Variety     *string         `json:"variety,omitempty" gorm:"type:varchar(50)"`
	CurrentRate decimal.Decimal `json:"current_rate" gorm:"type:decimal(10,2);not null"`
	Unit        string          `json:"unit" gorm:"type:varchar(10);default:kg"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
}

func (f *Fruit) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
