package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is a product line on an order. Pricing fields are mutated by
// the recalculation pipeline; the line itself is created and removed
// through the ordinary item CRUD.
type OrderItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	OrderID     uint    `json:"order_id" gorm:"not null;index"`
	ProductID   uint    `json:"product_id" gorm:"not null"`
	VariationID uint    `json:"variation_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	Subtotal    float64 `json:"subtotal"`
	Total       float64 `json:"total"`
	SubtotalTax float64 `json:"subtotal_tax"`
	TotalTax    float64 `json:"total_tax"`

	// AddonMeta holds one display string per selected add-on field,
	// keyed by the field label.
	AddonMeta map[string]string `json:"addon_meta" gorm:"serializer:json"`

	// Manual override state. While enabled, the override total/subtotal
	// take precedence over any recomputation.
	ManualOverrideEnabled  bool    `json:"manual_override_enabled"`
	ManualTotalOverride    float64 `json:"manual_total_override"`
	ManualSubtotalOverride float64 `json:"manual_subtotal_override"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// OrderShippingItem is one shipping method attached to an order.
type OrderShippingItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"order_id" gorm:"not null;index"`
	MethodID string  `json:"method_id"` // e.g. flexible_shipping_{instance_id}
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
	TotalTax float64 `json:"total_tax"`

	ManualOverride     bool    `json:"manual_override"`
	ManualOverrideCost float64 `json:"manual_override_cost"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// OrderCouponItem records one applied coupon code and the discount it
// produced at application time.
type OrderCouponItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"order_id" gorm:"not null;index"`
	Code     string  `json:"code" gorm:"not null"`
	Discount float64 `json:"discount"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
