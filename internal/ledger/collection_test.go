package ledger

import (
	"fmt"
	"strings"
	"testing"

	"serveo-backend/internal/apperr"
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

func seedRestaurant(t *testing.T, db *gorm.DB) *models.Restaurant {
	t.Helper()
	rest := models.Restaurant{Name: "Test Bistro " + t.Name()}
	require.NoError(t, db.Create(&rest).Error)
	return &rest
}

func TestCollectionLifecycle(t *testing.T) {
	db := newTestDB(t)
	rest := seedRestaurant(t, db)

	col, err := CreateCollection(db, rest.ID, "Acme Catering", "555-0101", 200.00)
	require.NoError(t, err)
	assert.Equal(t, 200.00, col.TotalAmount)
	assert.Equal(t, 200.00, col.Balance)
	assert.Equal(t, models.CollectionStatusPending, col.Status)

	_, err = AddPayment(db, col.ID, 50.00, "cash", "", "clerk")
	require.NoError(t, err)

	var reloaded models.Collection
	require.NoError(t, db.First(&reloaded, "id = ?", col.ID).Error)
	assert.Equal(t, 50.00, reloaded.PaidAmount)
	assert.Equal(t, 150.00, reloaded.Balance)
	assert.Equal(t, models.CollectionStatusPartial, reloaded.Status)

	_, err = AddPayment(db, col.ID, 150.00, "card", "ref-2", "clerk")
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, "id = ?", col.ID).Error)
	assert.Equal(t, 200.00, reloaded.PaidAmount)
	assert.Zero(t, reloaded.Balance)
	assert.Equal(t, models.CollectionStatusPaid, reloaded.Status)
}

func TestAddPaymentPostsIncome(t *testing.T) {
	db := newTestDB(t)
	rest := seedRestaurant(t, db)

	col, err := CreateCollection(db, rest.ID, "Acme Catering", "", 200.00)
	require.NoError(t, err)

	_, err = AddPayment(db, col.ID, 50.00, "cash", "", "clerk")
	require.NoError(t, err)

	var income models.Transaction
	require.NoError(t, db.First(&income, "restaurant_id = ? AND category = ?", rest.ID, "collection").Error)
	assert.Equal(t, models.TransactionTypeIncome, income.Type)
	assert.Equal(t, 50.00, income.Amount)
}

func TestAddPaymentRefusesStaleUpdate(t *testing.T) {
	db := newTestDB(t)
	rest := seedRestaurant(t, db)

	col, err := CreateCollection(db, rest.ID, "Acme Catering", "", 200.00)
	require.NoError(t, err)

	// Sneak a competing payment onto the collection after AddPayment has
	// read it but before it writes back, the interleaving two clerks
	// recording at once would produce.
	fired := false
	err = db.Callback().Create().Before("gorm:create").Register("competing_payment", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "collection_payments" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Collection{}).
			Where("id = ?", col.ID).
			Updates(map[string]interface{}{
				"paid_amount": 60.00,
				"balance":     140.00,
				"status":      models.CollectionStatusPartial,
			})
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Callback().Create().Remove("competing_payment") })

	_, err = AddPayment(db, col.ID, 50.00, "cash", "", "clerk")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// rolled back whole: no payment row, no mirrored income
	var payments int64
	require.NoError(t, db.Model(&models.CollectionPayment{}).Where("collection_id = ?", col.ID).Count(&payments).Error)
	assert.Zero(t, payments)

	var incomes int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("restaurant_id = ?", rest.ID).Count(&incomes).Error)
	assert.Zero(t, incomes)
}

func TestAddPaymentValidation(t *testing.T) {
	db := newTestDB(t)
	rest := seedRestaurant(t, db)

	col, err := CreateCollection(db, rest.ID, "Acme Catering", "", 100.00)
	require.NoError(t, err)

	_, err = AddPayment(db, col.ID, 0, "cash", "", "clerk")
	assert.Error(t, err)

	_, err = AddPayment(db, col.ID, 10, "", "", "clerk")
	assert.Error(t, err)

	_, err = AddPayment(db, 999, 10, "cash", "", "clerk")
	assert.Error(t, err)
}

func TestCreateCollectionValidation(t *testing.T) {
	db := newTestDB(t)
	rest := seedRestaurant(t, db)

	_, err := CreateCollection(db, rest.ID, "", "", 100.00)
	assert.Error(t, err)

	_, err = CreateCollection(db, rest.ID, "Acme", "", 0)
	assert.Error(t, err)
}

func TestSummarizeCollections(t *testing.T) {
	db := newTestDB(t)
	rest := seedRestaurant(t, db)

	a, err := CreateCollection(db, rest.ID, "Acme", "", 200.00)
	require.NoError(t, err)
	_, err = CreateCollection(db, rest.ID, "Globex", "", 80.00)
	require.NoError(t, err)

	_, err = AddPayment(db, a.ID, 50.00, "cash", "", "clerk")
	require.NoError(t, err)

	s, err := SummarizeCollections(db, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, 230.00, s.Outstanding)
	assert.Equal(t, 50.00, s.Collected)
}
