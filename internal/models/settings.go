package models

import "time"

// Option keys for the regional markup tables. Values are newline-delimited
// "KEY VALUE[%]" text edited through the settings endpoint.
const (
	OptionRegionalMarkupsZip   = "gscore_regional_markups_zip"
	OptionRegionalMarkupsState = "gscore_regional_markups_state"
)

// Setting is a free-text options row.
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey;column:key"`
	Value string `json:"value" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaxRate maps a destination to a percentage rate. An empty state matches
// the whole country.
type TaxRate struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Country  string  `json:"country" gorm:"not null"`
	State    string  `json:"state"`
	Rate     float64 `json:"rate" gorm:"not null"` // percent
	Shipping bool    `json:"shipping" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecalcLog is an audit row written whenever the orchestrator forces a
// full tax/total recalculation for an order.
type RecalcLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	Trigger   string    `json:"trigger"`
	Subtotal  float64   `json:"subtotal"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
