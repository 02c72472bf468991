package orders

import (
	"fmt"
	"strings"
	"testing"

	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (uint, *models.Product) {
	t.Helper()
	rest := models.Restaurant{Name: "Test Bistro " + t.Name()}
	require.NoError(t, db.Create(&rest).Error)
	prod := models.Product{RestaurantID: rest.ID, Name: "Soup", BasePrice: 6.50, Available: true, Active: true}
	require.NoError(t, db.Create(&prod).Error)
	return rest.ID, &prod
}

func TestCreateOrder(t *testing.T) {
	db := newTestDB(t)
	restID, prod := seedCatalog(t, db)

	order, err := Create(db, restID, nil, []NewItem{{ProductID: prod.ID, Quantity: 3, Notes: "no salt"}})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "no salt", order.Items[0].Notes)
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	restID, prod := seedCatalog(t, db)

	_, err := Create(db, restID, nil, nil)
	assert.Error(t, err)

	_, err = Create(db, restID, nil, []NewItem{{ProductID: prod.ID, Quantity: 0}})
	assert.Error(t, err)

	_, err = Create(db, restID, nil, []NewItem{{ProductID: 999, Quantity: 1}})
	assert.Error(t, err)
}

func TestCreateOrderRollsBackOnBadItem(t *testing.T) {
	db := newTestDB(t)
	restID, prod := seedCatalog(t, db)

	_, err := Create(db, restID, nil, []NewItem{
		{ProductID: prod.ID, Quantity: 1},
		{ProductID: 999, Quantity: 1},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	restID, prod := seedCatalog(t, db)

	order, err := Create(db, restID, nil, []NewItem{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)

	for _, status := range []models.OrderStatus{
		models.OrderStatusCooking,
		models.OrderStatusReady,
		models.OrderStatusServed,
		models.OrderStatusCompleted,
	} {
		updated, err := UpdateStatus(db, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestCompletedOrderIsTerminal(t *testing.T) {
	db := newTestDB(t)
	restID, prod := seedCatalog(t, db)

	order, err := Create(db, restID, nil, []NewItem{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = UpdateStatus(db, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	_, err = UpdateStatus(db, order.ID, models.OrderStatusPending)
	assert.Error(t, err)
}

func TestCancelledOrderIsTerminal(t *testing.T) {
	db := newTestDB(t)
	restID, prod := seedCatalog(t, db)

	order, err := Create(db, restID, nil, []NewItem{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = UpdateStatus(db, order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = UpdateStatus(db, order.ID, models.OrderStatusCooking)
	assert.Error(t, err)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	restID, prod := seedCatalog(t, db)

	order, err := Create(db, restID, nil, []NewItem{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = UpdateStatus(db, order.ID, "teleported")
	assert.Error(t, err)
}
