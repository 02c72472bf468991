package models

import "time"

// EWallet: one per customer; balance equals the sum of its transaction rows.
type EWallet struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"uniqueIndex;not null"`
	Balance    float64 `gorm:"default:0"`
	Currency   string  `gorm:"size:3;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type WalletTxType string

const (
	WalletTxTopup    WalletTxType = "topup"
	WalletTxPurchase WalletTxType = "purchase"
)

// EWalletTransaction is a signed ledger entry: topup positive, purchase negative.
type EWalletTransaction struct {
	ID          uint `gorm:"primaryKey"`
	EWalletID   uint `gorm:"index;not null"`
	OrderID     *uint
	Amount      float64      `gorm:"not null"`
	Type        WalletTxType `gorm:"column:transaction_type;size:20;not null"`
	ReferenceID string       `gorm:"size:128"`
	CreatedAt   time.Time
}
