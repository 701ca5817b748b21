package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Company users manage merchants, fruit rates and bills; writers
// record weight entries; merchant users only view their own trade.
const (
	RoleMerchant = "merchant"
	RoleCompany  = "company"
	RoleWriter   = "writer"
)

// User represents an authenticated account, created on first successful OTP
// verification for a phone number.
type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Phone     string    `json:"phone" gorm:"type:varchar(20);uniqueIndex;not null"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ValidRole reports whether r is one of the known user roles.
func ValidRole(r string) bool {
	switch r {
	case RoleMerchant, RoleCompany, RoleWriter:
		return true
	}
	return false
}
