package models

import "time"

// TaxRule rows are pre-populated per region; rule authoring is out of scope.
type TaxRule struct {
	ID          uint    `gorm:"primaryKey"`
	Region      string  `gorm:"size:16;index;not null"` // e.g. "EU", "US-CA", "IN"
	TaxType     string  `gorm:"size:32;not null"`       // e.g. "VAT", "GST"
	Rate        float64 `gorm:"not null"`               // percentage
	IsInclusive bool    `gorm:"default:false"`
	Active      bool    `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
