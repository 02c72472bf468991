package ledger

import (
	"errors"
	"math"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

// CreateCollection opens an outstanding-balance record for a customer.
func CreateCollection(db *gorm.DB, restaurantID uint, customer, phone string, total float64) (*models.Collection, error) {
	if customer == "" {
		return nil, apperr.Validationf("customer name is required")
	}
	if total <= 0 {
		return nil, apperr.Validationf("total must be > 0")
	}

	col := models.Collection{
		RestaurantID: restaurantID,
		Customer:     customer,
		Phone:        phone,
		TotalAmount:  round2(total),
		PaidAmount:   0,
		Balance:      round2(total),
		Status:       models.CollectionStatusPending,
	}
	if err := db.Create(&col).Error; err != nil {
		return nil, err
	}
	return &col, nil
}

// AddPayment appends a payment row, re-derives the parent collection
// (balance = max(0, total - paid); status follows the balance) and posts the
// mirrored income Transaction. The three writes commit as one unit.
func AddPayment(db *gorm.DB, collectionID uint, amount float64, method, reference, receivedBy string) (*models.CollectionPayment, error) {
	if amount <= 0 {
		return nil, apperr.Validationf("payment amount must be > 0")
	}
	if method == "" {
		return nil, apperr.Validationf("payment method is required")
	}

	var payment models.CollectionPayment

	err := db.Transaction(func(tx *gorm.DB) error {
		var col models.Collection
		err := tx.First(&col, "id = ?", collectionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("collection %d not found", collectionID)
		}
		if err != nil {
			return err
		}

		payment = models.CollectionPayment{
			CollectionID: col.ID,
			Amount:       round2(amount),
			Method:       method,
			ReferenceID:  reference,
			ReceivedBy:   receivedBy,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		observedPaid := col.PaidAmount
		col.PaidAmount = round2(col.PaidAmount + amount)
		col.Balance = round2(math.Max(0, col.TotalAmount-col.PaidAmount))
		col.Status = deriveStatus(&col)

		// Compare-and-set against the paid amount we read, so a payment
		// landing concurrently cannot be silently overwritten.
		res := tx.Model(&models.Collection{}).
			Where("id = ? AND paid_amount = ?", col.ID, observedPaid).
			Updates(map[string]interface{}{
				"paid_amount": col.PaidAmount,
				"balance":     col.Balance,
				"status":      col.Status,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("collection %d changed while recording the payment, retry", col.ID)
		}

		income := models.Transaction{
			RestaurantID: col.RestaurantID,
			Type:         models.TransactionTypeIncome,
			Amount:       round2(amount),
			Category:     "collection",
			Description:  "collection payment from " + col.Customer,
		}
		return tx.Create(&income).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// deriveStatus: status is a pure function of balance vs paid.
func deriveStatus(col *models.Collection) models.CollectionStatus {
	switch {
	case col.Balance <= 0:
		return models.CollectionStatusPaid
	case col.PaidAmount > 0:
		return models.CollectionStatusPartial
	default:
		return models.CollectionStatusPending
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
