package billing

import (
	"testing"

	"serveo-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBill(t *testing.T) {
	db := newTestDB(t)
	order, method := seedOrder(t, db)

	card := models.PaymentMethod{RestaurantID: order.RestaurantID, Name: "Card", PaymentType: models.PaymentTypeCard, Active: true}
	require.NoError(t, db.Create(&card).Error)

	splits, err := SplitBill(db, order.ID, []SplitLeg{
		{PaymentMethodID: method.ID, Amount: 10.00},
		{PaymentMethodID: card.ID, Amount: 18.00},
	})
	require.NoError(t, err)
	require.Len(t, splits, 2)

	assert.Equal(t, 1, splits[0].SplitIndex)
	assert.Equal(t, 2, splits[1].SplitIndex)
	assert.Equal(t, models.SplitStatusPending, splits[0].Status)
	assert.Equal(t, 10.00, splits[0].Amount)
	assert.Equal(t, 18.00, splits[1].Amount)
}

func TestSplitBillRejectsMismatchedSum(t *testing.T) {
	db := newTestDB(t)
	order, method := seedOrder(t, db)

	_, err := SplitBill(db, order.ID, []SplitLeg{
		{PaymentMethodID: method.ID, Amount: 10.00},
		{PaymentMethodID: method.ID, Amount: 10.00},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.BillSplit{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSplitBillToleratesOneCent(t *testing.T) {
	db := newTestDB(t)
	order, method := seedOrder(t, db)

	_, err := SplitBill(db, order.ID, []SplitLeg{
		{PaymentMethodID: method.ID, Amount: 14.00},
		{PaymentMethodID: method.ID, Amount: 14.01},
	})
	assert.NoError(t, err)
}

func TestSplitBillRejectsBadLegs(t *testing.T) {
	db := newTestDB(t)
	order, method := seedOrder(t, db)

	_, err := SplitBill(db, order.ID, nil)
	assert.Error(t, err)

	_, err = SplitBill(db, order.ID, []SplitLeg{{PaymentMethodID: method.ID, Amount: -1}})
	assert.Error(t, err)

	_, err = SplitBill(db, order.ID, []SplitLeg{{PaymentMethodID: 0, Amount: 28.00}})
	assert.Error(t, err)
}
