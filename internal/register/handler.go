package register

import (
	"fmt"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/audit"
	"serveo-backend/internal/auth"
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRegisterRequest struct {
	RestaurantID uint   `json:"restaurant_id"`
	Name         string `json:"name"`
	HardwareID   string `json:"hardware_id"`
}

type OpenRegisterRequest struct {
	OpeningBalance float64 `json:"opening_balance"`
}

type AdjustRegisterRequest struct {
	Type   string  `json:"adjustment_type"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

type CloseRegisterRequest struct {
	ActualBalance float64 `json:"actual_balance"`
}

// POST /api/registers
func CreateRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id is required")
		}

		reg, err := CreateRegister(database.DB, body.RestaurantID, body.Name, body.HardwareID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(reg)
	}
}

// GET /api/registers
func ListRegistersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.CashRegister{}).Where("active = ?", true)
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var regs []models.CashRegister
		if err := dbq.Order("id").Find(&regs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list registers")
		}
		return c.JSON(regs)
	}
}

// POST /api/registers/:id/open
func OpenRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid register id")
		}

		var body OpenRegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor := auth.ActorFromCtx(c)
		reg, err := Open(database.DB, uint(id), actor.UserID, body.OpeningBalance)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "open",
			ObjectType: "cash_register",
			ObjectID:   &reg.ID,
			Details:    fmt.Sprintf("opened with float %.2f", reg.OpeningBalance),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(reg)
	}
}

// POST /api/registers/:id/adjust
func AdjustRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid register id")
		}

		var body AdjustRegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor := auth.ActorFromCtx(c)
		flow, err := Adjust(database.DB, uint(id), models.CashAdjustmentType(body.Type), body.Amount, body.Reason, actor.Name)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     string(flow.AdjustmentType),
			ObjectType: "cash_register",
			ObjectID:   &flow.CashRegisterID,
			Details:    fmt.Sprintf("%s %.2f: %s", flow.AdjustmentType, flow.Amount, flow.Reason),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(flow)
	}
}

// POST /api/registers/:id/close
func CloseRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid register id")
		}

		var body CloseRegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor := auth.ActorFromCtx(c)
		res, err := Close(database.DB, uint(id), body.ActualBalance, actor.Name)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "close",
			ObjectType: "cash_register",
			ObjectID:   &res.Register.ID,
			Details:    fmt.Sprintf("closed, expected %.2f counted %.2f variance %.2f", res.Expected, res.Actual, res.Variance),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(fiber.Map{
			"register": res.Register,
			"expected": res.Expected,
			"actual":   res.Actual,
			"variance": res.Variance,
		})
	}
}

// GET /api/registers/:id/history
func RegisterHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid register id")
		}

		flows, err := History(database.DB, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load register history")
		}
		return c.JSON(flows)
	}
}
