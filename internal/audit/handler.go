package audit

import (
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?action=forbidden&object_type=collection
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}
		if objectType := c.Query("object_type"); objectType != "" {
			dbq = dbq.Where("object_type = ?", objectType)
		}

		var logs []models.AuditLog
		if err := dbq.Order("id desc").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(logs)
	}
}
