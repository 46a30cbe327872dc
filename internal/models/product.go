package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	ParentID uint    `json:"parent_id"` // non-zero for variations
	Name     string  `json:"name" gorm:"not null"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price" gorm:"not null"`
	Taxable  bool    `json:"taxable" gorm:"default:true"`
	Stock    int     `json:"stock"`

	// NeedsShipping excludes virtual products from shipping packages.
	NeedsShipping bool `json:"needs_shipping" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// IsVariation reports whether the product is a variation of a parent
// product.
func (p *Product) IsVariation() bool {
	return p.ParentID != 0
}
