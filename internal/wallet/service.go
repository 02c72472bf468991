package wallet

import (
	"math"
	"time"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/exchange"
	"serveo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateWallet opens an e-wallet for a customer in the given currency.
func CreateWallet(db *gorm.DB, customerID uint, currency string) (*models.EWallet, error) {
	if !exchange.Supported(currency) {
		return nil, apperr.Validationf("unsupported currency %q", currency)
	}

	var customer models.Customer
	if err := db.First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, apperr.NotFoundf("customer %d not found", customerID)
	}

	var existing models.EWallet
	if err := db.First(&existing, "customer_id = ?", customerID).Error; err == nil {
		return nil, apperr.Conflictf("customer %d already has a wallet", customerID)
	}

	w := models.EWallet{CustomerID: customerID, Currency: currency}
	if err := db.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// Topup credits the wallet and writes a positive ledger row. The reference
// id ties the credit back to whatever funded it; one is minted if absent.
func Topup(db *gorm.DB, walletID uint, amount float64, referenceID string) (*models.EWallet, error) {
	if amount <= 0 {
		return nil, apperr.Validationf("top-up amount must be positive")
	}
	amount = round2(amount)
	if referenceID == "" {
		referenceID = "topup_" + uuid.NewString()
	}

	var w models.EWallet
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&w, "id = ?", walletID).Error; err != nil {
			return apperr.NotFoundf("wallet %d not found", walletID)
		}

		entry := models.EWalletTransaction{
			EWalletID:   walletID,
			Amount:      amount,
			Type:        models.WalletTxTopup,
			ReferenceID: referenceID,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// Credit in SQL so two concurrent top-ups cannot lose each other.
		if err := tx.Model(&models.EWallet{}).Where("id = ?", walletID).
			Update("balance", gorm.Expr("ROUND(balance + ?, 2)", amount)).Error; err != nil {
			return err
		}
		return tx.First(&w, "id = ?", walletID).Error
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Spend debits the wallet for an order. A debit exceeding the balance
// fails and leaves the wallet and its ledger untouched.
func Spend(db *gorm.DB, walletID uint, amount float64, orderID *uint) (*models.EWallet, error) {
	if amount <= 0 {
		return nil, apperr.Validationf("spend amount must be positive")
	}

	amount = round2(amount)

	var w models.EWallet
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&w, "id = ?", walletID).Error; err != nil {
			return apperr.NotFoundf("wallet %d not found", walletID)
		}

		// The funds check and the debit are one guarded statement, so two
		// racing spends cannot both pass against the same balance.
		res := tx.Model(&models.EWallet{}).
			Where("id = ? AND balance >= ?", walletID, amount).
			Update("balance", gorm.Expr("ROUND(balance - ?, 2)", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("insufficient balance: %.2f available, %.2f requested", w.Balance, amount)
		}

		entry := models.EWalletTransaction{
			EWalletID:   walletID,
			OrderID:     orderID,
			Amount:      -amount,
			Type:        models.WalletTxPurchase,
			ReferenceID: "spend_" + uuid.NewString(),
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.First(&w, "id = ?", walletID).Error
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LedgerSum re-derives a wallet's balance from its transaction rows.
func LedgerSum(db *gorm.DB, walletID uint) (float64, error) {
	var sum *float64
	if err := db.Model(&models.EWalletTransaction{}).
		Where("e_wallet_id = ?", walletID).
		Select("SUM(amount)").Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return round2(*sum), nil
}

// History returns a wallet's transaction rows, newest first.
func History(db *gorm.DB, walletID uint) ([]models.EWalletTransaction, error) {
	var rows []models.EWalletTransaction
	if err := db.Where("e_wallet_id = ?", walletID).Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
