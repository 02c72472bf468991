package exchange

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
}

// GET /api/exchange/rates
func RatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := Current()
		return c.JSON(fiber.Map{
			"base":         s.Base,
			"rates":        s.Rates,
			"last_updated": s.LastUpdated,
		})
	}
}

// GET /api/exchange/convert?amount=100&from=USD&to=EUR
func ConvertHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount := c.QueryFloat("amount", -1)
		if amount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount is required and must be >= 0")
		}
		from := strings.ToUpper(c.Query("from"))
		to := strings.ToUpper(c.Query("to"))
		if from == "" || to == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from and to are required")
		}

		converted, err := Convert(amount, from, to, Current())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(ConvertResponse{Amount: amount, From: from, To: to, Converted: converted})
	}
}

// POST /api/exchange/refresh — manual refresh, mainly for operators; the
// background ticker does this on its own.
func RefreshHandler(r *Refresher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := r.RefreshNow(); err != nil {
			// Degrade gracefully: the last known table stays active.
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"refreshed": false,
				"error":     err.Error(),
			})
		}
		s := Current()
		return c.JSON(fiber.Map{"refreshed": true, "last_updated": s.LastUpdated})
	}
}

// DisplayAmount converts a stored base-currency amount to the given display
// currency, falling back to the stored amount when the target is the base.
func DisplayAmount(amount float64, displayCurrency string) (float64, string) {
	s := Current()
	if displayCurrency == "" || displayCurrency == s.Base {
		return amount, s.Base
	}
	converted, err := Convert(amount, s.Base, displayCurrency, s)
	if err != nil {
		return amount, s.Base
	}
	return converted, displayCurrency
}
