package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderNumber string `json:"order_number" gorm:"unique;not null"`
	Status      string `json:"status" gorm:"default:'pending'"` // pending, processing, completed, cancelled, quote
	CustomerID  uint   `json:"customer_id"`

	// Shipping destination
	ShippingCountry  string `json:"shipping_country"`
	ShippingState    string `json:"shipping_state"`
	ShippingPostcode string `json:"shipping_postcode"`
	ShippingCity     string `json:"shipping_city"`
	ShippingAddress1 string `json:"shipping_address_1"`
	ShippingAddress2 string `json:"shipping_address_2"`

	// Admin attribution and tax status
	SalesRep           string `json:"sales_rep" gorm:"default:'N/A'"`
	IsManualAdminOrder bool   `json:"is_manual_admin_order"`
	TaxExempt          bool   `json:"tax_exempt"`
	TaxExemptNumber    string `json:"tax_exempt_number"`

	// Transient coupon backup, written at the start of a save and cleared
	// once coupons have been restored.
	CouponBackup []string `json:"coupon_backup" gorm:"serializer:json"`

	// Totals
	ItemsSubtotal  float64 `json:"items_subtotal"`
	ItemsTotal     float64 `json:"items_total"`
	DiscountTotal  float64 `json:"discount_total"`
	ShippingTotal  float64 `json:"shipping_total"`
	TotalTax       float64 `json:"total_tax"`
	Total          float64 `json:"total"`

	CreatedBy uint           `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderQuote      OrderStatus = "quote"
)

// Destination is the shipping address slice of an order passed into
// shipping-rate and markup calculations.
type Destination struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	City     string `json:"city"`
	Address1 string `json:"address"`
	Address2 string `json:"address_2"`
}

func (o *Order) Destination() Destination {
	return Destination{
		Country:  o.ShippingCountry,
		State:    o.ShippingState,
		Postcode: o.ShippingPostcode,
		City:     o.ShippingCity,
		Address1: o.ShippingAddress1,
		Address2: o.ShippingAddress2,
	}
}
