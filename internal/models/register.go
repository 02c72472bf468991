package models

import "time"

type RegisterStatus string

const (
	RegisterStatusOpened RegisterStatus = "opened"
	RegisterStatusClosed RegisterStatus = "closed"
)

type CashRegister struct {
	ID               uint   `gorm:"primaryKey"`
	RestaurantID     uint   `gorm:"index;not null"`
	RegisterName     string `gorm:"size:64;not null"`
	HardwareID       string `gorm:"size:64;uniqueIndex"`
	CurrentCashierID *uint
	OpeningBalance   float64 `gorm:"default:0"`
	CurrentBalance   float64 `gorm:"default:0"`
	Status           RegisterStatus `gorm:"size:20;not null;default:closed"`
	OpenedAt         *time.Time
	ClosedAt         *time.Time
	Active           bool `gorm:"default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CashAdjustmentType string

const (
	CashAdjustmentOpening CashAdjustmentType = "opening"
	CashAdjustmentClosing CashAdjustmentType = "closing"
	CashAdjustmentPayIn   CashAdjustmentType = "pay_in"
	CashAdjustmentPayOut  CashAdjustmentType = "pay_out"
)

// CashFlow is the append-only audit trail of register adjustments.
// variance = actual - expected.
type CashFlow struct {
	ID              uint `gorm:"primaryKey"`
	CashRegisterID  uint `gorm:"index;not null"`
	AdjustmentType  CashAdjustmentType `gorm:"size:20;not null"`
	Amount          float64            `gorm:"not null"`
	Reason          string             `gorm:"size:255"`
	RecordedBy      string             `gorm:"size:64"`
	ExpectedBalance float64
	ActualBalance   float64
	Variance        float64
	RecordedAt      time.Time
}
