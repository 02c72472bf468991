package register

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

func seedRegister(t *testing.T, db *gorm.DB) *models.CashRegister {
	t.Helper()
	rest := models.Restaurant{Name: "Test Bistro " + t.Name()}
	require.NoError(t, db.Create(&rest).Error)

	reg, err := CreateRegister(db, rest.ID, "Front Desk", "hw-"+t.Name())
	require.NoError(t, err)
	return reg
}

func TestOpenRegister(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	opened, err := Open(db, reg.ID, 7, 100.00)
	require.NoError(t, err)

	assert.Equal(t, models.RegisterStatusOpened, opened.Status)
	assert.Equal(t, 100.00, opened.OpeningBalance)
	assert.Equal(t, 100.00, opened.CurrentBalance)
	assert.NotNil(t, opened.OpenedAt)

	var flow models.CashFlow
	require.NoError(t, db.First(&flow, "cash_register_id = ?", reg.ID).Error)
	assert.Equal(t, models.CashAdjustmentOpening, flow.AdjustmentType)
	assert.Equal(t, 100.00, flow.Amount)
}

func TestOpenRegisterTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 100.00)
	require.NoError(t, err)

	_, err = Open(db, reg.ID, 8, 50.00)
	assert.Error(t, err)
}

func TestOpenRejectsNegativeFloat(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, -1)
	assert.Error(t, err)
}

func TestAdjustPayInAndPayOut(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 100.00)
	require.NoError(t, err)

	_, err = Adjust(db, reg.ID, models.CashAdjustmentPayIn, 25.00, "change float", "clerk")
	require.NoError(t, err)

	flow, err := Adjust(db, reg.ID, models.CashAdjustmentPayOut, 40.00, "supplier cod", "clerk")
	require.NoError(t, err)
	assert.Equal(t, 85.00, flow.ExpectedBalance)

	var reloaded models.CashRegister
	require.NoError(t, db.First(&reloaded, "id = ?", reg.ID).Error)
	assert.Equal(t, 85.00, reloaded.CurrentBalance)
}

func TestAdjustRejectsOverdraw(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 10.00)
	require.NoError(t, err)

	_, err = Adjust(db, reg.ID, models.CashAdjustmentPayOut, 50.00, "", "clerk")
	assert.Error(t, err)
}

func TestAdjustRefusesStaleBalance(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 100.00)
	require.NoError(t, err)

	// Move cash between the drawer read and the write-back, the
	// interleaving two clerks adjusting at once would produce.
	fired := false
	err = db.Callback().Query().After("gorm:query").Register("competing_adjustment", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "cash_registers" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.CashRegister{}).
			Where("id = ?", reg.ID).
			Update("current_balance", 70.00)
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Callback().Query().Remove("competing_adjustment") })

	_, err = Adjust(db, reg.ID, models.CashAdjustmentPayIn, 25.00, "change float", "clerk")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// refused whole: no pay-in row in the trail
	var flows int64
	require.NoError(t, db.Model(&models.CashFlow{}).
		Where("cash_register_id = ? AND adjustment_type = ?", reg.ID, models.CashAdjustmentPayIn).
		Count(&flows).Error)
	assert.Zero(t, flows)
}

func TestAdjustPayOutToEmpty(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 30.00)
	require.NoError(t, err)

	flow, err := Adjust(db, reg.ID, models.CashAdjustmentPayOut, 30.00, "bank drop", "clerk")
	require.NoError(t, err)
	assert.Zero(t, flow.ExpectedBalance)
}

func TestAdjustClosedRegisterConflicts(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Adjust(db, reg.ID, models.CashAdjustmentPayIn, 10.00, "", "clerk")
	assert.Error(t, err)
}

func TestCloseRecordsVariance(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 100.00)
	require.NoError(t, err)

	// drawer counted five short
	res, err := Close(db, reg.ID, 95.00, "manager")
	require.NoError(t, err)

	assert.Equal(t, 100.00, res.Expected)
	assert.Equal(t, 95.00, res.Actual)
	assert.Equal(t, -5.00, res.Variance)
	assert.Equal(t, models.RegisterStatusClosed, res.Register.Status)
	assert.NotNil(t, res.Register.ClosedAt)

	var closing models.CashFlow
	require.NoError(t, db.Last(&closing, "cash_register_id = ? AND adjustment_type = ?", reg.ID, models.CashAdjustmentClosing).Error)
	assert.Equal(t, -5.00, closing.Variance)
}

func TestCloseTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 100.00)
	require.NoError(t, err)

	_, err = Close(db, reg.ID, 100.00, "manager")
	require.NoError(t, err)

	_, err = Close(db, reg.ID, 100.00, "manager")
	assert.Error(t, err)
}

func TestReopenAfterClose(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegister(t, db)

	_, err := Open(db, reg.ID, 7, 100.00)
	require.NoError(t, err)
	_, err = Close(db, reg.ID, 100.00, "manager")
	require.NoError(t, err)

	opened, err := Open(db, reg.ID, 8, 120.00)
	require.NoError(t, err)
	assert.Equal(t, 120.00, opened.OpeningBalance)

	flows, err := History(db, reg.ID)
	require.NoError(t, err)
	assert.Len(t, flows, 3) // open, close, open
}
