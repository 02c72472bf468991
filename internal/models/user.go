package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleWaiter  UserRole = "waiter"
	RoleKitchen UserRole = "kitchen"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID *uint
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	Currency     string   `gorm:"size:3;default:USD"` // display currency, amounts stay in base
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
