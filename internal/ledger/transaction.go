package ledger

import (
	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

// RecordTransaction appends an accounting ledger row. Rows are never updated
// or deleted; summaries aggregate over them.
func RecordTransaction(db *gorm.DB, restaurantID uint, txType models.TransactionType, amount float64, category, description string, orderID *uint) (*models.Transaction, error) {
	switch txType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeRefund:
	default:
		return nil, apperr.Validationf("transaction type must be income, expense or refund")
	}
	if amount <= 0 {
		return nil, apperr.Validationf("amount must be > 0")
	}

	row := models.Transaction{
		RestaurantID: restaurantID,
		Type:         txType,
		Amount:       round2(amount),
		Category:     category,
		Description:  description,
		OrderID:      orderID,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

type AccountingSummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Refunds  float64 `json:"refunds"`
	Net      float64 `json:"net"`
}

// Summarize aggregates the ledger by type.
func Summarize(db *gorm.DB, restaurantID uint) (*AccountingSummary, error) {
	type row struct {
		Type  string  `gorm:"column:type"`
		Total float64 `gorm:"column:total"`
	}
	var rows []row

	if err := db.Model(&models.Transaction{}).
		Select("type, SUM(amount) as total").
		Where("restaurant_id = ?", restaurantID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	s := AccountingSummary{}
	for _, r := range rows {
		switch models.TransactionType(r.Type) {
		case models.TransactionTypeIncome:
			s.Income = r.Total
		case models.TransactionTypeExpense:
			s.Expenses = r.Total
		case models.TransactionTypeRefund:
			s.Refunds = r.Total
		}
	}
	s.Net = round2(s.Income - s.Expenses - s.Refunds)
	return &s, nil
}

type CollectionSummary struct {
	Outstanding float64 `json:"outstanding"`
	Collected   float64 `json:"collected"`
}

// SummarizeCollections totals what is still owed vs already collected.
func SummarizeCollections(db *gorm.DB, restaurantID uint) (*CollectionSummary, error) {
	s := CollectionSummary{}
	err := db.Model(&models.Collection{}).
		Select("COALESCE(SUM(balance), 0) as outstanding, COALESCE(SUM(paid_amount), 0) as collected").
		Where("restaurant_id = ?", restaurantID).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
