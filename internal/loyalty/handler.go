package loyalty

import (
	"fmt"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/audit"
	"serveo-backend/internal/auth"
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	CustomerID uint `json:"customer_id"`
}

type EarnRequest struct {
	Points  int    `json:"points"`
	Method  string `json:"method"`
	OrderID *uint  `json:"order_id"`
}

type RedeemRequest struct {
	Points  int   `json:"points"`
	OrderID *uint `json:"order_id"`
}

// POST /api/loyalty/cards
func EnrollHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EnrollRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "customer_id is required")
		}

		card, err := EnrollCustomer(database.DB, body.CustomerID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(card)
	}
}

// GET /api/loyalty/cards/:id
func GetCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid card id")
		}

		var card models.LoyaltyCard
		if err := database.DB.First(&card, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Loyalty card not found")
		}
		return c.JSON(card)
	}
}

// POST /api/loyalty/cards/:id/earn
func EarnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid card id")
		}

		var body EarnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		card, err := Earn(database.DB, uint(id), body.Points, body.Method, body.OrderID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "earn",
			ObjectType: "loyalty_card",
			ObjectID:   &card.ID,
			Details:    fmt.Sprintf("earned %d points, balance %d", body.Points, card.PointsBalance),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(card)
	}
}

// POST /api/loyalty/cards/:id/redeem
func RedeemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid card id")
		}

		var body RedeemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		card, err := Redeem(database.DB, uint(id), body.Points, body.OrderID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "redeem",
			ObjectType: "loyalty_card",
			ObjectID:   &card.ID,
			Details:    fmt.Sprintf("redeemed %d points, balance %d", body.Points, card.PointsBalance),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(card)
	}
}

// GET /api/loyalty/cards/:id/history
func CardHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid card id")
		}

		rows, err := History(database.DB, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load point history")
		}
		return c.JSON(rows)
	}
}
