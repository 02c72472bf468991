package models

import "time"

type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

type Invoice struct {
	ID            uint   `gorm:"primaryKey"`
	RestaurantID  uint   `gorm:"index;not null"`
	InvoiceNumber string `gorm:"size:64;uniqueIndex;not null"` // INV-<unix>-<0..9999>
	OrderID       *uint
	CollectionID  *uint
	Customer      string  `gorm:"size:128"`
	Total         float64 `gorm:"not null"`
	Status        InvoiceStatus `gorm:"size:20;not null;default:issued"`
	IssuedAt      time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
