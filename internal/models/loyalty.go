package models

import "time"

// LoyaltyCard: one per customer. PointsBalance never goes negative and always
// equals PointsEarnedTotal - PointsRedeemedTotal, i.e. the sum of its
// LoyaltyPoints ledger rows.
type LoyaltyCard struct {
	ID                  uint   `gorm:"primaryKey"`
	CustomerID          uint   `gorm:"uniqueIndex;not null"`
	CardNumber          string `gorm:"size:64;uniqueIndex;not null"`
	PointsBalance       int    `gorm:"default:0"`
	PointsEarnedTotal   int    `gorm:"default:0"`
	PointsRedeemedTotal int    `gorm:"default:0"`
	Tier                string `gorm:"size:20;default:standard"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LoyaltyPoints is a signed ledger entry: positive = earned, negative = redeemed.
type LoyaltyPoints struct {
	ID            uint `gorm:"primaryKey"`
	LoyaltyCardID uint `gorm:"index;not null"`
	OrderID       *uint
	Points        int    `gorm:"not null"`
	EarnMethod    string `gorm:"size:20;not null"` // purchase / manual / redeem
	Description   string `gorm:"size:255"`
	CreatedAt     time.Time
}
