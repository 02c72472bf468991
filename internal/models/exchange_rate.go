package models

import "time"

// ExchangeRate stores the latest known rate per currency relative to the base
// currency. Used only for display-time conversion, never to rewrite amounts.
type ExchangeRate struct {
	ID          uint    `gorm:"primaryKey"`
	Currency    string  `gorm:"size:3;uniqueIndex;not null"`
	Rate        float64 `gorm:"not null"` // units per 1 base currency
	LastUpdated time.Time
}
