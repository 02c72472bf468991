package billing

import (
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PaymentMethodRequest struct {
	RestaurantID             uint    `json:"restaurant_id"`
	Name                     string  `json:"name"`
	PaymentType              string  `json:"payment_type"`
	RequiresExternalTerminal bool    `json:"requires_external_terminal"`
	CurrencyRounding         float64 `json:"currency_rounding"`
}

var validPaymentTypes = map[models.PaymentType]bool{
	models.PaymentTypeCash:   true,
	models.PaymentTypeCard:   true,
	models.PaymentTypeCheck:  true,
	models.PaymentTypeOnline: true,
	models.PaymentTypeWallet: true,
}

// POST /api/payment-methods
func CreatePaymentMethodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PaymentMethodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id and name are required")
		}
		if !validPaymentTypes[models.PaymentType(body.PaymentType)] {
			return fiber.NewError(fiber.StatusBadRequest, "payment_type must be cash, card, check, online or wallet")
		}
		if body.CurrencyRounding < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "currency_rounding cannot be negative")
		}

		method := models.PaymentMethod{
			RestaurantID:             body.RestaurantID,
			Name:                     body.Name,
			PaymentType:              models.PaymentType(body.PaymentType),
			RequiresExternalTerminal: body.RequiresExternalTerminal,
			CurrencyRounding:         body.CurrencyRounding,
			Active:                   true,
		}
		if err := database.DB.Create(&method).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Payment method could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(method)
	}
}

// GET /api/payment-methods?restaurant_id=1
func ListPaymentMethodsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.PaymentMethod{}).Where("active = ?", true)
		if rid := c.QueryInt("restaurant_id"); rid > 0 {
			dbq = dbq.Where("restaurant_id = ?", rid)
		}

		var methods []models.PaymentMethod
		if err := dbq.Order("id").Find(&methods).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payment methods")
		}
		return c.JSON(methods)
	}
}

// DELETE /api/payment-methods/:id — soft retire so past payments keep their
// method reference.
func RetirePaymentMethodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payment method id")
		}

		res := database.DB.Model(&models.PaymentMethod{}).
			Where("id = ? AND active = ?", id, true).
			Update("active", false)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Payment method could not be retired")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Payment method not found")
		}
		return c.JSON(fiber.Map{"retired": true})
	}
}
