package billing

import (
	"time"

	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

type OfflinePayment struct {
	ReferenceID string `json:"reference_id"`
}

// SyncOfflinePayments reconciles payments recorded while disconnected.
// Entries are keyed by reference id; a match flips the row to synced and
// online exactly once, unmatched entries are silently skipped. Re-running a
// batch re-applies the same terminal state, so repeated sync calls are safe.
func SyncOfflinePayments(db *gorm.DB, batch []OfflinePayment) (int, error) {
	synced := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, op := range batch {
			if op.ReferenceID == "" {
				continue
			}
			var payment models.PaymentTransaction
			if err := tx.First(&payment, "reference_id = ?", op.ReferenceID).Error; err != nil {
				continue // unmatched: skip, never fail the batch
			}

			updates := map[string]interface{}{
				"synchronization_status": models.SyncStatusSynced,
				"is_offline":             false,
			}
			if payment.Status == models.PaymentStatusPending {
				now := time.Now()
				updates["status"] = models.PaymentStatusCompleted
				updates["processed_at"] = now
			}
			if err := tx.Model(&payment).Updates(updates).Error; err != nil {
				return err
			}
			synced++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return synced, nil
}
