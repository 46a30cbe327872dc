package models

import (
	"time"

	"gorm.io/gorm"
)

// Add-on field definitions are authored in the catalog tooling and are
// read-only from this system's perspective.

type FieldGroup struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	ProductID  uint        `json:"product_id" gorm:"not null;index"`
	Fields     []Field     `json:"fields" gorm:"serializer:json"`
	RuleGroups []RuleGroup `json:"rule_groups" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type FieldType string

const (
	FieldCheckbox   FieldType = "checkbox"
	FieldCheckboxes FieldType = "checkboxes"
	FieldSelect     FieldType = "select"
	FieldRadio      FieldType = "radio"
)

type Field struct {
	ID       string    `json:"id"`
	Type     FieldType `json:"type"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`

	// PriceAmount is the flat add-on for checkbox fields; choice-typed
	// fields carry their deltas per choice.
	PriceAmount float64  `json:"price_amount"`
	Choices     []Choice `json:"choices"`
}

type Choice struct {
	Slug        string  `json:"slug"`
	Label       string  `json:"label"`
	PriceAmount float64 `json:"price_amount"`
}

// RuleGroup scopes a field group to a set of products. A group applies to
// a product when any rule's value list references the product or
// variation id.
type RuleGroup struct {
	Rules []Rule `json:"rules"`
}

type Rule struct {
	Condition string `json:"condition"` // only "product" is recognized
	ValueIDs  []uint `json:"value_ids"`
}
