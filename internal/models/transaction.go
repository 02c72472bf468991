package models

import "time"

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeRefund  TransactionType = "refund"
)

// Transaction is an append-only accounting ledger row; summaries are
// aggregate sums filtered by type.
type Transaction struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Type         TransactionType `gorm:"size:20;not null;index"`
	Amount       float64         `gorm:"not null"`
	Category     string          `gorm:"size:64"`
	Description  string          `gorm:"size:255"`
	OrderID      *uint
	CreatedAt    time.Time
}
