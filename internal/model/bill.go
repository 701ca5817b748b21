package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill statuses. Pending bills may be completed (payment received) or
// cancelled; completed and cancelled are terminal.
const (
	BillStatusPending   = "pending"
	BillStatusCompleted = "completed"
	BillStatusCancelled = "cancelled"
)

// Bill is an invoice for a merchant. NetAmount is computed at creation as
// Subtotal minus the three deductions and stored, not recomputed on read.
type Bill struct {
	ID                  string          `json:"id" gorm:"type:uuid;primaryKey"`
	BillNumber          string          `json:"bill_number" gorm:"type:varchar(30);uniqueIndex;not null"`
	MerchantID          string          `json:"merchant_id" gorm:"type:uuid;index;not null"`
	Subtotal            decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	TransportDeduction  decimal.Decimal `json:"transport_deduction" gorm:"type:decimal(10,2);default:0.00"`
	CommissionDeduction decimal.Decimal `json:"commission_deduction" gorm:"type:decimal(10,2);default:0.00"`
	OtherDeduction      decimal.Decimal `json:"other_deduction" gorm:"type:decimal(10,2);default:0.00"`
	NetAmount           decimal.Decimal `json:"net_amount" gorm:"type:decimal(10,2);not null"`
	CustomMessage       *string         `json:"custom_message,omitempty" gorm:"type:text"`
	Status              string          `json:"status" gorm:"type:varchar(10);default:pending"`
	CreatedBy           string          `json:"created_by" gorm:"type:uuid;not null"`
	DueDate             time.Time       `json:"due_date"`
	CreatedAt           time.Time       `json:"created_at"`

	Merchant *Merchant  `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Items    []BillItem `json:"items,omitempty" gorm:"foreignKey:BillID"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BillItem is one line of a bill. Amount = Weight × Rate, fixed at creation.
// Items are created together with their bill and never independently.
type BillItem struct {
	ID      string          `json:"id" gorm:"type:uuid;primaryKey"`
	BillID  string          `json:"bill_id" gorm:"type:uuid;index;not null"`
	FruitID string          `json:"fruit_id" gorm:"type:uuid;index;not null"`
	Weight  decimal.Decimal `json:"weight" gorm:"type:decimal(10,3);not null"`
	Rate    decimal.Decimal `json:"rate" gorm:"type:decimal(10,2);not null"`
	Amount  decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`

	Fruit *Fruit `json:"fruit,omitempty" gorm:"foreignKey:FruitID"`
}

func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// ValidBillStatus reports whether s is a known bill status.
func ValidBillStatus(s string) bool {
	switch s {
	case BillStatusPending, BillStatusCompleted, BillStatusCancelled:
		return true
	}
	return false
}
