package billing

import (
	"testing"

	"serveo-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncOfflinePayments(t *testing.T) {
	db := newTestDB(t)
	order, method := seedOrder(t, db)

	res, err := Checkout(db, CheckoutInput{
		OrderID:         order.ID,
		PaymentMethodID: method.ID,
		Amount:          28.00,
		Currency:        "USD",
		IsOffline:       true,
		ReferenceID:     "offline-abc",
	})
	require.NoError(t, err)

	synced, err := SyncOfflinePayments(db, []OfflinePayment{
		{ReferenceID: "offline-abc"},
		{ReferenceID: "never-seen"},
		{ReferenceID: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	var payment models.PaymentTransaction
	require.NoError(t, db.First(&payment, "id = ?", res.Payment.ID).Error)
	assert.Equal(t, models.SyncStatusSynced, payment.SyncStatus)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.False(t, payment.IsOffline)
	assert.NotNil(t, payment.ProcessedAt)
}

func TestSyncOfflinePaymentsIdempotent(t *testing.T) {
	db := newTestDB(t)
	order, method := seedOrder(t, db)

	_, err := Checkout(db, CheckoutInput{
		OrderID:         order.ID,
		PaymentMethodID: method.ID,
		Amount:          28.00,
		Currency:        "USD",
		IsOffline:       true,
		ReferenceID:     "offline-xyz",
	})
	require.NoError(t, err)

	batch := []OfflinePayment{{ReferenceID: "offline-xyz"}}

	synced, err := SyncOfflinePayments(db, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	// re-running the same batch re-applies the terminal state
	synced, err = SyncOfflinePayments(db, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	var payment models.PaymentTransaction
	require.NoError(t, db.First(&payment, "reference_id = ?", "offline-xyz").Error)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, models.SyncStatusSynced, payment.SyncStatus)
}

func TestSyncEmptyBatch(t *testing.T) {
	db := newTestDB(t)

	synced, err := SyncOfflinePayments(db, nil)
	require.NoError(t, err)
	assert.Zero(t, synced)
}
