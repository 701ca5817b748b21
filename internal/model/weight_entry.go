package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Weight entry types. A "single" entry records one weighed lot; a "multiple"
// entry aggregates several crate weights into one transaction.
const (
	EntryTypeSingle   = "single"
	EntryTypeMultiple = "multiple"
)

// WeightEntry is one intake transaction. Rate and TotalAmount are snapshots
// taken at creation time and are never recomputed, so later fruit rate changes
// do not rewrite history. For multiple-crate entries NumberOfCrates and
// AverageWeightPerCrate must be set; for single entries they stay null.
type WeightEntry struct {
	ID                    string           `json:"id" gorm:"type:uuid;primaryKey"`
	MerchantID            string           `json:"merchant_id" gorm:"type:uuid;index;not null"`
	FruitID               string           `json:"fruit_id" gorm:"type:uuid;index;not null"`
	EntryType             string           `json:"entry_type" gorm:"type:varchar(10);not null;default:single"`
	Weight                decimal.Decimal  `json:"weight" gorm:"type:decimal(10,3);not null"`
	NumberOfCrates        *int             `json:"number_of_crates,omitempty"`
	AverageWeightPerCrate *decimal.Decimal `json:"average_weight_per_crate,omitempty" gorm:"type:decimal(10,3)"`
	Rate                  decimal.Decimal  `json:"rate" gorm:"type:decimal(10,2);not null"`
	TotalAmount           decimal.Decimal  `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	RecordedBy            string           `json:"recorded_by" gorm:"type:uuid;index;not null"`
	Notes                 *string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt             time.Time        `json:"created_at"`

	Merchant *Merchant `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Fruit    *Fruit    `json:"fruit,omitempty" gorm:"foreignKey:FruitID"`
	Recorder *User     `json:"recorder,omitempty" gorm:"foreignKey:RecordedBy"`
}

func (w *WeightEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
