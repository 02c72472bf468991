package billing

import (
	"errors"
	"time"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutInput struct {
	OrderID         uint
	PaymentMethodID uint
	Amount          float64
	Currency        string // base currency code; informational on the row
	TipAmount       float64
	TipType         *models.TipType
	IsOffline       bool
	ReferenceID     string // client-generated for offline payments
}

type CheckoutResult struct {
	Payment models.PaymentTransaction
	Receipt models.Receipt
}

// Checkout records a payment leg against an order, renders its receipt and
// completes the order — all in one transaction so a failure leaves no partial
// ledger state. Offline payments start pending and wait for sync.
func Checkout(db *gorm.DB, in CheckoutInput) (*CheckoutResult, error) {
	if in.PaymentMethodID == 0 {
		return nil, apperr.Validationf("payment method is required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validationf("amount is required and must be > 0")
	}
	if in.TipAmount < 0 {
		return nil, apperr.Validationf("tip cannot be negative")
	}

	var result CheckoutResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Preload("Items").Preload("Items.Product").First(&order, "id = ?", in.OrderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("order %d not found", in.OrderID)
		}
		if err != nil {
			return err
		}
		if order.Status == models.OrderStatusCompleted {
			return apperr.Conflictf("order %d is already paid", order.ID)
		}
		if order.Status == models.OrderStatusCancelled {
			return apperr.Conflictf("order %d is cancelled", order.ID)
		}

		var method models.PaymentMethod
		err = tx.First(&method, "id = ? AND active = ?", in.PaymentMethodID, true).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("payment method %d not found", in.PaymentMethodID)
		}
		if err != nil {
			return err
		}

		status := models.PaymentStatusCompleted
		syncStatus := models.SyncStatusSynced
		var processedAt *time.Time
		if in.IsOffline {
			status = models.PaymentStatusPending
			syncStatus = models.SyncStatusPendingSync
		} else {
			now := time.Now()
			processedAt = &now
		}

		reference := in.ReferenceID
		if reference == "" {
			reference = "pay_" + uuid.NewString()
		}

		payment := models.PaymentTransaction{
			OrderID:         order.ID,
			PaymentMethodID: method.ID,
			Amount:          round2(in.Amount),
			Currency:        in.Currency,
			Status:          status,
			ReferenceID:     reference,
			IsOffline:       in.IsOffline,
			SyncStatus:      syncStatus,
			TipAmount:       round2(in.TipAmount),
			TipType:         in.TipType,
			ProcessedAt:     processedAt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		subtotal := 0.0
		for _, it := range order.Items {
			subtotal += it.Product.BasePrice * float64(it.Quantity)
		}
		subtotal = round2(subtotal)
		total := round2(in.Amount + in.TipAmount)

		receipt := models.Receipt{
			OrderID: order.ID,
			Content: RenderReceipt(&order, method.Name, subtotal, in.TipAmount, total),
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusCompleted).Error; err != nil {
			return err
		}

		result.Payment = payment
		result.Receipt = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkReceiptPrinted flips the printed flag; the content itself never changes.
func MarkReceiptPrinted(db *gorm.DB, receiptID uint) error {
	now := time.Now()
	res := db.Model(&models.Receipt{}).
		Where("id = ? AND printed = ?", receiptID, false).
		Updates(map[string]interface{}{"printed": true, "printed_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflictf("receipt %d is already printed or does not exist", receiptID)
	}
	return nil
}
