package billing

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

// seedOrder creates a restaurant, two products and a pending order holding
// 2x burger (12.50) + 1x cola (3.00) = 28.00.
func seedOrder(t *testing.T, db *gorm.DB) (*models.Order, *models.PaymentMethod) {
	t.Helper()

	rest := models.Restaurant{Name: "Test Bistro " + t.Name()}
	require.NoError(t, db.Create(&rest).Error)

	burger := models.Product{RestaurantID: rest.ID, Name: "Burger", BasePrice: 12.50, Available: true, Active: true}
	cola := models.Product{RestaurantID: rest.ID, Name: "Cola", BasePrice: 3.00, Available: true, Active: true}
	require.NoError(t, db.Create(&burger).Error)
	require.NoError(t, db.Create(&cola).Error)

	order := models.Order{
		RestaurantID: rest.ID,
		Status:       models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: burger.ID, Quantity: 2},
			{ProductID: cola.ID, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	method := models.PaymentMethod{RestaurantID: rest.ID, Name: "Cash", PaymentType: models.PaymentTypeCash, Active: true}
	require.NoError(t, db.Create(&method).Error)

	return &order, &method
}

func TestOrderTotal(t *testing.T) {
	db := newTestDB(t)
	order, _ := seedOrder(t, db)

	total, err := OrderTotal(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 28.00, total)
}

func TestOrderTotalFollowsCatalogPrice(t *testing.T) {
	db := newTestDB(t)
	order, _ := seedOrder(t, db)

	require.NoError(t, db.Model(&models.Product{}).Where("name = ?", "Burger").Update("base_price", 15.00).Error)

	total, err := OrderTotal(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.00, total)
}

func TestOrderTotalMissingOrder(t *testing.T) {
	db := newTestDB(t)

	_, err := OrderTotal(db, 999)
	assert.Error(t, err)
}

func TestApplyTaxExclusive(t *testing.T) {
	b := ApplyTax(100.00, 21, false)

	assert.Equal(t, 100.00, b.Base)
	assert.Equal(t, 21.00, b.Tax)
	assert.Equal(t, 121.00, b.Total)
	assert.False(t, b.IsInclusive)
}

func TestApplyTaxInclusive(t *testing.T) {
	b := ApplyTax(121.00, 21, true)

	assert.Equal(t, 100.00, b.Base)
	assert.Equal(t, 21.00, b.Tax)
	assert.Equal(t, 121.00, b.Total)
	assert.True(t, b.IsInclusive)
}

func TestApplyTaxRoundsOnce(t *testing.T) {
	// 10.99 @ 8.25% = 0.906675 tax; total rounds from the unrounded sum
	b := ApplyTax(10.99, 8.25, false)

	assert.Equal(t, 0.91, b.Tax)
	assert.Equal(t, 11.90, b.Total)
}

func TestTaxForRegionNoRulesPassesThrough(t *testing.T) {
	db := newTestDB(t)

	breakdowns, total, err := TaxForRegion(db, 50.00, "ZZ")
	require.NoError(t, err)
	assert.Empty(t, breakdowns)
	assert.Equal(t, 50.00, total)
}

func TestTaxForRegion(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.TaxRule{Region: "EU", TaxType: "VAT", Rate: 21, Active: true}).Error)
	require.NoError(t, db.Create(&models.TaxRule{Region: "EU", TaxType: "levy", Rate: 2, Active: true}).Error)

	breakdowns, total, err := TaxForRegion(db, 100.00, "EU")
	require.NoError(t, err)
	assert.Len(t, breakdowns, 2)
	assert.Equal(t, 123.00, total)
}

func TestTaxForRegionIgnoresInactiveRules(t *testing.T) {
	db := newTestDB(t)
	rule := models.TaxRule{Region: "EU", TaxType: "VAT", Rate: 21, Active: true}
	require.NoError(t, db.Create(&rule).Error)
	require.NoError(t, db.Model(&rule).Update("active", false).Error)

	breakdowns, total, err := TaxForRegion(db, 100.00, "EU")
	require.NoError(t, err)
	assert.Empty(t, breakdowns)
	assert.Equal(t, 100.00, total)
}
