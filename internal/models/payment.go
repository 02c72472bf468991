package models

import "time"

type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCard   PaymentType = "card"
	PaymentTypeCheck  PaymentType = "check"
	PaymentTypeOnline PaymentType = "online"
	PaymentTypeWallet PaymentType = "wallet"
)

type PaymentMethod struct {
	ID                       uint `gorm:"primaryKey"`
	RestaurantID             uint `gorm:"index;not null"`
	Name                     string      `gorm:"size:64;not null"`
	PaymentType              PaymentType `gorm:"size:20;not null"`
	RequiresExternalTerminal bool        `gorm:"default:false"`
	CurrencyRounding         float64     // cash rounding granularity, 0 = none
	Active                   bool        `gorm:"default:true"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type SyncStatus string

const (
	SyncStatusSynced      SyncStatus = "synced"
	SyncStatusPendingSync SyncStatus = "pending_sync"
	SyncStatusFailedSync  SyncStatus = "failed_sync"
)

type TipType string

const (
	TipTypePercentage TipType = "percentage"
	TipTypeFixed      TipType = "fixed"
)

type PaymentTransaction struct {
	ID              uint `gorm:"primaryKey"`
	OrderID         uint `gorm:"index;not null"`
	PaymentMethodID uint `gorm:"index;not null"`
	PaymentMethod   PaymentMethod
	Amount          float64       `gorm:"not null"` // base currency
	Currency        string        `gorm:"size:3;not null"`
	Status          PaymentStatus `gorm:"size:20;not null;default:pending"`
	ReferenceID     string        `gorm:"size:128;index"`
	IsOffline       bool          `gorm:"default:false"`
	SyncStatus      SyncStatus    `gorm:"column:synchronization_status;size:20;not null;default:synced"`
	TipAmount       float64       `gorm:"default:0"`
	TipType         *TipType      `gorm:"size:20"`
	ProcessedAt     *time.Time
	CreatedAt       time.Time
}

type SplitStatus string

const (
	SplitStatusPending   SplitStatus = "pending"
	SplitStatusCompleted SplitStatus = "completed"
	SplitStatusFailed    SplitStatus = "failed"
)

type BillSplit struct {
	ID              uint `gorm:"primaryKey"`
	OrderID         uint `gorm:"index;not null"`
	SplitIndex      int  `gorm:"not null"` // 1-based
	Amount          float64 `gorm:"not null"`
	PaymentMethodID uint    `gorm:"index;not null"`
	Status          SplitStatus `gorm:"size:20;not null;default:pending"`
	CreatedAt       time.Time
}

type Receipt struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"index;not null"`
	Content   string `gorm:"type:text"` // immutable once generated
	Printed   bool   `gorm:"default:false"`
	PrintedAt *time.Time
	CreatedAt time.Time
}
