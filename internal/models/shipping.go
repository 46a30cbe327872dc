package models

import (
	"time"

	"gorm.io/gorm"
)

const FlexibleShippingMethodID = "flexible_shipping_single"

// ShippingZoneMethod is one configured shipping method instance, keyed by
// its numeric instance id. The recalculation pipeline only recognizes
// flexible-shipping instances.
type ShippingZoneMethod struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	InstanceID uint   `json:"instance_id" gorm:"unique;not null"`
	MethodID   string `json:"method_id" gorm:"not null"` // flexible_shipping_single
	Enabled    bool   `json:"enabled" gorm:"default:true"`
	Title      string `json:"title"`
	TaxStatus  string `json:"tax_status" gorm:"default:'taxable'"` // taxable, none

	// CostRules are evaluated against the package contents cost; the
	// first matching band produces the rate.
	CostRules []ShippingCostRule `json:"cost_rules" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// ShippingCostRule is one band of a flexible-shipping rate table: orders
// whose contents cost falls in [MinValue, MaxValue) cost Cost plus
// CostPerUnit for every whole PerValue above MinValue. MaxValue <= 0
// means unbounded.
type ShippingCostRule struct {
	MinValue    float64 `json:"min_value"`
	MaxValue    float64 `json:"max_value"`
	Cost        float64 `json:"cost"`
	CostPerUnit float64 `json:"cost_per_unit"`
	PerValue    float64 `json:"per_value"`
}

// Package is the ephemeral calculation input handed to a shipping method,
// built from order data the same way a cart checkout package would be.
type Package struct {
	Contents       []PackageItem `json:"contents"`
	ContentsCost   float64       `json:"contents_cost"`
	AppliedCoupons []string      `json:"applied_coupons"`
	CustomerID     uint          `json:"customer_id"`
	Destination    Destination   `json:"destination"`
}

type PackageItem struct {
	ItemID      uint    `json:"key"`
	ProductID   uint    `json:"product_id"`
	VariationID uint    `json:"variation_id"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
	LineTax     float64 `json:"line_tax"`
	Subtotal    float64 `json:"line_subtotal"`
	SubtotalTax float64 `json:"line_subtotal_tax"`
}

// Rate is one shipping quote produced by a method calculation.
type Rate struct {
	MethodID string  `json:"method_id"`
	Label    string  `json:"label"`
	Cost     float64 `json:"cost"`
	Tax      float64 `json:"tax"`
}
