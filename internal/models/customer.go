package models

import "time"

type Customer struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128"`
	Phone        string `gorm:"size:20"`
	Address      string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
