package wallet

import (
	"fmt"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/audit"
	"serveo-backend/internal/auth"
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateWalletRequest struct {
	CustomerID uint   `json:"customer_id"`
	Currency   string `json:"currency"`
}

type TopupRequest struct {
	Amount      float64 `json:"amount"`
	ReferenceID string  `json:"reference_id"`
}

type SpendRequest struct {
	Amount  float64 `json:"amount"`
	OrderID *uint   `json:"order_id"`
}

// POST /api/wallets
func CreateWalletHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWalletRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "customer_id is required")
		}

		w, err := CreateWallet(database.DB, body.CustomerID, body.Currency)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(w)
	}
}

// GET /api/wallets/:id
func GetWalletHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid wallet id")
		}

		var w models.EWallet
		if err := database.DB.First(&w, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Wallet not found")
		}
		return c.JSON(w)
	}
}

// POST /api/wallets/:id/topup
func TopupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid wallet id")
		}

		var body TopupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		w, err := Topup(database.DB, uint(id), body.Amount, body.ReferenceID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "topup",
			ObjectType: "ewallet",
			ObjectID:   &w.ID,
			Details:    fmt.Sprintf("topped up %.2f, balance %.2f", body.Amount, w.Balance),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(w)
	}
}

// POST /api/wallets/:id/spend
func SpendHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid wallet id")
		}

		var body SpendRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		w, err := Spend(database.DB, uint(id), body.Amount, body.OrderID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "spend",
			ObjectType: "ewallet",
			ObjectID:   &w.ID,
			Details:    fmt.Sprintf("spent %.2f, balance %.2f", body.Amount, w.Balance),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(w)
	}
}

// GET /api/wallets/:id/history
func WalletHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid wallet id")
		}

		rows, err := History(database.DB, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load wallet history")
		}
		return c.JSON(rows)
	}
}
