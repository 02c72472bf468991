package auth

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

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func TestRoleDefaults(t *testing.T) {
	newTestDB(t)

	admin := Actor{UserID: 1, Name: "alex", Role: models.RoleAdmin}
	manager := Actor{UserID: 2, Name: "mika", Role: models.RoleManager}
	waiter := Actor{UserID: 3, Name: "sam", Role: models.RoleWaiter}
	kitchen := Actor{UserID: 4, Name: "kim", Role: models.RoleKitchen}

	for _, perm := range []string{PermManageOrders, PermProcessPayments, PermManageAccounts, PermManageRegisters, PermManageLoyalty} {
		assert.True(t, Authorize(admin, perm), perm)
		assert.True(t, Authorize(manager, perm), perm)
	}

	assert.True(t, Authorize(waiter, PermManageOrders))
	assert.True(t, Authorize(kitchen, PermManageOrders))
	assert.False(t, Authorize(waiter, PermProcessPayments))
	assert.False(t, Authorize(kitchen, PermManageAccounts))
}

func TestExplicitRuleOverridesDefault(t *testing.T) {
	db := newTestDB(t)

	// grant waiters payment processing
	require.NoError(t, db.Create(&models.RolePermission{
		Role:       models.RoleWaiter,
		Permission: PermProcessPayments,
		Allowed:    true,
	}).Error)

	waiter := Actor{UserID: 3, Name: "sam", Role: models.RoleWaiter}
	assert.True(t, Authorize(waiter, PermProcessPayments))
}

func TestExplicitDenialOverridesDefault(t *testing.T) {
	db := newTestDB(t)

	rule := models.RolePermission{Role: models.RoleManager, Permission: PermManageRegisters, Allowed: true}
	require.NoError(t, db.Create(&rule).Error)
	require.NoError(t, db.Model(&rule).Update("allowed", false).Error)

	manager := Actor{UserID: 2, Name: "mika", Role: models.RoleManager}
	assert.False(t, Authorize(manager, PermManageRegisters))
}

func TestDenialIsAudited(t *testing.T) {
	db := newTestDB(t)

	waiter := Actor{UserID: 3, Name: "sam", Role: models.RoleWaiter}
	require.False(t, Authorize(waiter, PermManageAccounts))

	var entry models.AuditLog
	require.NoError(t, db.First(&entry, "action = ?", "forbidden").Error)
	assert.Equal(t, uint(3), entry.UserID)
	assert.Equal(t, PermManageAccounts, entry.ObjectType)
}
