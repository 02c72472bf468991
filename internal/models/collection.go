package models

import "time"

type CollectionStatus string

const (
	CollectionStatusPending CollectionStatus = "pending"
	CollectionStatusPartial CollectionStatus = "partial"
	CollectionStatusPaid    CollectionStatus = "paid"
	CollectionStatusOverdue CollectionStatus = "overdue"
)

// Collection tracks what a customer owes. balance = max(0, total - paid);
// status is derived from balance, mutated only through AddPayment.
type Collection struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Customer     string  `gorm:"size:128;not null"`
	Phone        string  `gorm:"size:20"`
	TotalAmount  float64 `gorm:"not null"`
	PaidAmount   float64 `gorm:"default:0"`
	Balance      float64 `gorm:"default:0"`
	Status       CollectionStatus `gorm:"size:20;not null;default:pending"`
	Payments     []CollectionPayment `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CollectionPayment rows are append-only; every insert re-derives the parent
// collection and posts a matching income Transaction in the same transaction.
type CollectionPayment struct {
	ID           uint `gorm:"primaryKey"`
	CollectionID uint `gorm:"index;not null"`
	Amount       float64 `gorm:"not null"`
	Method       string  `gorm:"size:32;not null"`
	ReferenceID  string  `gorm:"size:128"`
	ReceivedBy   string  `gorm:"size:100"`
	CreatedAt    time.Time
}
