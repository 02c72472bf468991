package loyalty

import (
	"fmt"
	"time"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollCustomer creates a loyalty card for a customer who does not have one.
func EnrollCustomer(db *gorm.DB, customerID uint) (*models.LoyaltyCard, error) {
	var customer models.Customer
	if err := db.First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, apperr.NotFoundf("customer %d not found", customerID)
	}

	var existing models.LoyaltyCard
	if err := db.First(&existing, "customer_id = ?", customerID).Error; err == nil {
		return nil, apperr.Conflictf("customer %d already has a loyalty card", customerID)
	}

	card := models.LoyaltyCard{
		CustomerID: customerID,
		CardNumber: "LC-" + uuid.NewString(),
		Tier:       "standard",
	}
	if err := db.Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// Earn credits points to a card and adds a ledger row. Points are awarded
// whole; zero or negative awards are rejected.
func Earn(db *gorm.DB, cardID uint, points int, method string, orderID *uint) (*models.LoyaltyCard, error) {
	if points <= 0 {
		return nil, apperr.Validationf("points earned must be positive")
	}
	if method == "" {
		method = "manual"
	}

	var card models.LoyaltyCard
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			return apperr.NotFoundf("loyalty card %d not found", cardID)
		}

		entry := models.LoyaltyPoints{
			LoyaltyCardID: cardID,
			OrderID:       orderID,
			Points:        points,
			EarnMethod:    method,
			Description:   fmt.Sprintf("earned %d points", points),
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// Increment in SQL so concurrent earns cannot lose each other's update.
		if err := tx.Model(&models.LoyaltyCard{}).Where("id = ?", cardID).Updates(map[string]any{
			"points_balance":      gorm.Expr("points_balance + ?", points),
			"points_earned_total": gorm.Expr("points_earned_total + ?", points),
		}).Error; err != nil {
			return err
		}
		return tx.First(&card, "id = ?", cardID).Error
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Redeem debits points from a card. A redemption larger than the balance
// fails outright and leaves both the card and the ledger untouched.
func Redeem(db *gorm.DB, cardID uint, points int, orderID *uint) (*models.LoyaltyCard, error) {
	if points <= 0 {
		return nil, apperr.Validationf("points redeemed must be positive")
	}

	var card models.LoyaltyCard
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			return apperr.NotFoundf("loyalty card %d not found", cardID)
		}

		// The balance check and the debit are one guarded statement, so two
		// redeems racing on the same card cannot both drain it.
		res := tx.Model(&models.LoyaltyCard{}).
			Where("id = ? AND points_balance >= ?", cardID, points).
			Updates(map[string]any{
				"points_balance":        gorm.Expr("points_balance - ?", points),
				"points_redeemed_total": gorm.Expr("points_redeemed_total + ?", points),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("insufficient points: balance %d, requested %d", card.PointsBalance, points)
		}

		entry := models.LoyaltyPoints{
			LoyaltyCardID: cardID,
			OrderID:       orderID,
			Points:        -points,
			EarnMethod:    "redeem",
			Description:   fmt.Sprintf("redeemed %d points", points),
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.First(&card, "id = ?", cardID).Error
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// LedgerSum re-derives a card's balance from its ledger rows.
func LedgerSum(db *gorm.DB, cardID uint) (int, error) {
	var sum *int
	if err := db.Model(&models.LoyaltyPoints{}).
		Where("loyalty_card_id = ?", cardID).
		Select("SUM(points)").Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// History returns a card's ledger rows, newest first.
func History(db *gorm.DB, cardID uint) ([]models.LoyaltyPoints, error) {
	var rows []models.LoyaltyPoints
	if err := db.Where("loyalty_card_id = ?", cardID).Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
