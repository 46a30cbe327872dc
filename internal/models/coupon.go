package models

import (
	"time"

	"gorm.io/gorm"
)

type CouponType string

const (
	CouponPercent CouponType = "percent"
	CouponFixed   CouponType = "fixed"
)

type Coupon struct {
	ID     uint       `json:"id" gorm:"primaryKey"`
	Code   string     `json:"code" gorm:"unique;not null"`
	Type   CouponType `json:"type" gorm:"default:'fixed'"`
	Amount float64    `json:"amount" gorm:"not null"`
	Active bool       `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
