package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"unique;not null"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role" gorm:"default:'customer'"` // admin, client, customer

	// Customer-level tax exemption; orders without their own exemption
	// fall back to these.
	TaxExempt       bool   `json:"tax_exempt"`
	TaxExemptNumber string `json:"tax_exempt_number"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

const (
	RoleAdmin    = "admin"
	RoleClient   = "client" // sales reps
	RoleCustomer = "customer"
)

// CanManageOrders reports whether the user may use the admin order
// endpoints.
func (u *User) CanManageOrders() bool {
	return u.Role == RoleAdmin
}
