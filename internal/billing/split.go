package billing

import (
	"errors"
	"math"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

// splitTolerance absorbs float rounding on the leg sum, one cent.
const splitTolerance = 0.01

type SplitLeg struct {
	PaymentMethodID uint
	Amount          float64
}

// SplitBill allocates an order's total across payment legs with ascending
// split indexes starting at 1. Legs must sum to the order total; money that
// does not add up is rejected, not reconciled.
func SplitBill(db *gorm.DB, orderID uint, legs []SplitLeg) ([]models.BillSplit, error) {
	if len(legs) == 0 {
		return nil, apperr.Validationf("at least one split leg is required")
	}

	sum := 0.0
	for _, leg := range legs {
		if leg.Amount <= 0 {
			return nil, apperr.Validationf("split amounts must be > 0")
		}
		if leg.PaymentMethodID == 0 {
			return nil, apperr.Validationf("every split leg needs a payment method")
		}
		sum += leg.Amount
	}

	var splits []models.BillSplit

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("order %d not found", orderID)
		}
		if err != nil {
			return err
		}

		total, err := OrderTotal(tx, orderID)
		if err != nil {
			return err
		}
		if math.Abs(sum-total) > splitTolerance {
			return apperr.Validationf("split amounts (%.2f) must equal the order total (%.2f)", sum, total)
		}

		for i, leg := range legs {
			var method models.PaymentMethod
			if err := tx.First(&method, "id = ? AND active = ?", leg.PaymentMethodID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("payment method %d not found", leg.PaymentMethodID)
				}
				return err
			}
			split := models.BillSplit{
				OrderID:         orderID,
				SplitIndex:      i + 1,
				Amount:          round2(leg.Amount),
				PaymentMethodID: leg.PaymentMethodID,
				Status:          models.SplitStatusPending,
			}
			if err := tx.Create(&split).Error; err != nil {
				return err
			}
			splits = append(splits, split)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return splits, nil
}
