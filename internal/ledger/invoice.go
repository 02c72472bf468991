package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

type InvoiceSpec struct {
	RestaurantID uint
	OrderID      *uint
	CollectionID *uint
	Customer     string
	Total        float64
}

// invoiceNumberAt renders INV-<unix seconds>-<0..9999 sub-second fraction>.
func invoiceNumberAt(t time.Time) string {
	return fmt.Sprintf("INV-%d-%d", t.Unix(), t.Nanosecond()/100000)
}

// CreateInvoice issues an invoice with a time-derived unique number. Two
// invoices landing on the same sub-second tick collide on the unique index;
// a short retry with a fresh timestamp resolves it.
func CreateInvoice(db *gorm.DB, spec InvoiceSpec) (*models.Invoice, error) {
	if spec.Total <= 0 {
		return nil, apperr.Validationf("invoice total must be > 0")
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		now := time.Now()
		inv := models.Invoice{
			RestaurantID:  spec.RestaurantID,
			InvoiceNumber: invoiceNumberAt(now),
			OrderID:       spec.OrderID,
			CollectionID:  spec.CollectionID,
			Customer:      spec.Customer,
			Total:         round2(spec.Total),
			Status:        models.InvoiceStatusIssued,
			IssuedAt:      now,
		}
		err := db.Create(&inv).Error
		if err == nil {
			return &inv, nil
		}
		lastErr = err
		if !isUniqueViolation(err) {
			return nil, err
		}
		time.Sleep(time.Millisecond)
	}
	return nil, fmt.Errorf("could not issue a unique invoice number: %w", lastErr)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// MarkInvoicePaid is a one-way transition; paying twice is a state conflict.
func MarkInvoicePaid(db *gorm.DB, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&inv, "id = ?", invoiceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("invoice %d not found", invoiceID)
		}
		if err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND status <> ?", invoiceID, models.InvoiceStatusPaid).
			Updates(map[string]interface{}{"status": models.InvoiceStatusPaid, "paid_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("invoice %d is already paid", invoiceID)
		}
		inv.Status = models.InvoiceStatusPaid
		inv.PaidAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
