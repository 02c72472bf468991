package auth

import (
	"errors"

	"serveo-backend/internal/audit"
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Permission names used by the engine's mutating operations.
const (
	PermManageOrders    = "manage_orders"
	PermProcessPayments = "process_payments"
	PermManageAccounts  = "manage_accounting"
	PermManageRegisters = "manage_registers"
	PermManageLoyalty   = "manage_loyalty"
)

// Authorize checks an explicit RolePermission row first and falls back to the
// role defaults: admin and manager may do everything, waiter and kitchen only
// manage orders. Every denial is written to the audit log.
func Authorize(actor Actor, permission string) bool {
	var rp models.RolePermission
	err := database.DB.Where("role = ? AND permission = ?", actor.Role, permission).First(&rp).Error
	if err == nil {
		if !rp.Allowed {
			auditDenial(actor, permission, "explicit rule")
			return false
		}
		return true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		// Cannot verify the rule; deny rather than guess.
		auditDenial(actor, permission, "permission lookup failed")
		return false
	}

	var allowed bool
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		allowed = true
	case models.RoleWaiter, models.RoleKitchen:
		allowed = permission == PermManageOrders
	}
	if !allowed {
		auditDenial(actor, permission, "role default")
	}
	return allowed
}

func auditDenial(actor Actor, permission, reason string) {
	audit.Write(audit.Record{
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Action:     "forbidden",
		ObjectType: permission,
		Details:    "role=" + string(actor.Role) + " denied (" + reason + ")",
	})
}

// RequirePermission gates a mutating route on Authorize.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)
		if actor.UserID == 0 {
			return fiber.NewError(fiber.StatusForbidden, "User information is missing")
		}
		if !Authorize(actor, permission) {
			return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
		}
		return c.Next()
	}
}
