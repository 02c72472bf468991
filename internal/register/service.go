package register

import (
	"math"
	"time"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

// CreateRegister registers a new drawer for a restaurant. Hardware ids are
// unique across restaurants so a terminal cannot be enrolled twice.
func CreateRegister(db *gorm.DB, restaurantID uint, name, hardwareID string) (*models.CashRegister, error) {
	if name == "" {
		return nil, apperr.Validationf("register name is required")
	}

	reg := models.CashRegister{
		RestaurantID: restaurantID,
		RegisterName: name,
		HardwareID:   hardwareID,
		Status:       models.RegisterStatusClosed,
		Active:       true,
	}
	if err := db.Create(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// Open puts a closed register into service with a counted opening float.
// The status flip is a compare-and-set so two cashiers cannot open the
// same drawer at once.
func Open(db *gorm.DB, registerID, cashierID uint, openingBalance float64) (*models.CashRegister, error) {
	if openingBalance < 0 {
		return nil, apperr.Validationf("opening balance cannot be negative")
	}

	var reg models.CashRegister
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, "id = ?", registerID).Error; err != nil {
			return apperr.NotFoundf("register %d not found", registerID)
		}
		if !reg.Active {
			return apperr.Conflictf("register %d is retired", registerID)
		}

		now := time.Now()
		res := tx.Model(&models.CashRegister{}).
			Where("id = ? AND status = ?", registerID, models.RegisterStatusClosed).
			Updates(map[string]any{
				"status":             models.RegisterStatusOpened,
				"current_cashier_id": cashierID,
				"opening_balance":    openingBalance,
				"current_balance":    openingBalance,
				"opened_at":          now,
				"closed_at":          nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("register %d is already open", registerID)
		}

		flow := models.CashFlow{
			CashRegisterID:  registerID,
			AdjustmentType:  models.CashAdjustmentOpening,
			Amount:          openingBalance,
			ExpectedBalance: openingBalance,
			ActualBalance:   openingBalance,
			RecordedAt:      now,
		}
		if err := tx.Create(&flow).Error; err != nil {
			return err
		}

		return tx.First(&reg, "id = ?", registerID).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Adjust records a pay-in or pay-out against an open register.
func Adjust(db *gorm.DB, registerID uint, kind models.CashAdjustmentType, amount float64, reason, recordedBy string) (*models.CashFlow, error) {
	if kind != models.CashAdjustmentPayIn && kind != models.CashAdjustmentPayOut {
		return nil, apperr.Validationf("adjustment type must be pay_in or pay_out")
	}
	if amount <= 0 {
		return nil, apperr.Validationf("adjustment amount must be positive")
	}

	var flow models.CashFlow
	err := db.Transaction(func(tx *gorm.DB) error {
		var reg models.CashRegister
		if err := tx.First(&reg, "id = ?", registerID).Error; err != nil {
			return apperr.NotFoundf("register %d not found", registerID)
		}
		if reg.Status != models.RegisterStatusOpened {
			return apperr.Conflictf("register %d is not open", registerID)
		}

		delta := amount
		if kind == models.CashAdjustmentPayOut {
			delta = -amount
		}
		newBalance := round2(reg.CurrentBalance + delta)
		if newBalance < 0 {
			return apperr.Validationf("pay-out of %.2f exceeds drawer balance %.2f", amount, reg.CurrentBalance)
		}

		// Compare-and-set against the balance we read; a concurrent
		// adjustment or close would otherwise be silently overwritten.
		res := tx.Model(&models.CashRegister{}).
			Where("id = ? AND status = ? AND current_balance = ?",
				registerID, models.RegisterStatusOpened, reg.CurrentBalance).
			Update("current_balance", newBalance)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("register %d changed while recording the adjustment, retry", registerID)
		}

		flow = models.CashFlow{
			CashRegisterID:  registerID,
			AdjustmentType:  kind,
			Amount:          amount,
			Reason:          reason,
			RecordedBy:      recordedBy,
			ExpectedBalance: newBalance,
			ActualBalance:   newBalance,
			RecordedAt:      time.Now(),
		}
		return tx.Create(&flow).Error
	})
	if err != nil {
		return nil, err
	}
	return &flow, nil
}

type CloseResult struct {
	Register *models.CashRegister
	Expected float64
	Actual   float64
	Variance float64
}

// Close reconciles the drawer against the counted amount and takes the
// register out of service. The variance is recorded whether or not the
// count matches; closing never fails on a mismatch.
func Close(db *gorm.DB, registerID uint, actualBalance float64, recordedBy string) (*CloseResult, error) {
	if actualBalance < 0 {
		return nil, apperr.Validationf("counted balance cannot be negative")
	}

	var result CloseResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var reg models.CashRegister
		if err := tx.First(&reg, "id = ?", registerID).Error; err != nil {
			return apperr.NotFoundf("register %d not found", registerID)
		}

		expected := reg.CurrentBalance
		variance := round2(actualBalance - expected)
		now := time.Now()

		res := tx.Model(&models.CashRegister{}).
			Where("id = ? AND status = ?", registerID, models.RegisterStatusOpened).
			Updates(map[string]any{
				"status":             models.RegisterStatusClosed,
				"current_cashier_id": nil,
				"current_balance":    actualBalance,
				"closed_at":          now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("register %d is already closed", registerID)
		}

		flow := models.CashFlow{
			CashRegisterID:  registerID,
			AdjustmentType:  models.CashAdjustmentClosing,
			Amount:          actualBalance,
			RecordedBy:      recordedBy,
			ExpectedBalance: expected,
			ActualBalance:   actualBalance,
			Variance:        variance,
			RecordedAt:      now,
		}
		if err := tx.Create(&flow).Error; err != nil {
			return err
		}

		if err := tx.First(&reg, "id = ?", registerID).Error; err != nil {
			return err
		}
		result = CloseResult{Register: &reg, Expected: expected, Actual: actualBalance, Variance: variance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// History returns the adjustment trail for a register, newest first.
func History(db *gorm.DB, registerID uint) ([]models.CashFlow, error) {
	var flows []models.CashFlow
	if err := db.Where("cash_register_id = ?", registerID).Order("id desc").Find(&flows).Error; err != nil {
		return nil, err
	}
	return flows, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
