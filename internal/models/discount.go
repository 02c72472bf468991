package models

import "time"

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

type DiscountScope string

const (
	DiscountScopeProduct DiscountScope = "product"
	DiscountScopeOrder   DiscountScope = "order"
)

// Discount amounts are computed per request and never stored on the order.
type Discount struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Name         string        `gorm:"size:128;not null"`
	DiscountType DiscountType  `gorm:"size:20;not null"`
	Value        float64       `gorm:"not null"`
	AppliesTo    DiscountScope `gorm:"size:20;not null;default:product"`
	ProductID    *uint
	CustomerID   *uint
	StartDate    *time.Time
	EndDate      *time.Time
	MinQuantity  int  `gorm:"default:1"`
	Active       bool `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
