package models

import "time"

type ProductCategory struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Name         string `gorm:"size:128;not null"`
	Description  string `gorm:"size:255"`
	DisplayOrder int    `gorm:"default:0"`
	Active       bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	CategoryID   *uint
	Category     *ProductCategory
	Name         string  `gorm:"size:128;not null"`
	Description  string  `gorm:"size:255"`
	SKU          string  `gorm:"size:64"`
	BasePrice    float64 `gorm:"not null"` // base currency
	Cost         float64
	Available    bool `gorm:"default:true"`
	Active       bool `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
