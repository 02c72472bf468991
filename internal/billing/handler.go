package billing

import (
	"fmt"
	"strings"
	"time"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/audit"
	"serveo-backend/internal/auth"
	"serveo-backend/internal/config"
	"serveo-backend/internal/database"
	"serveo-backend/internal/exchange"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ApplyTaxRequest struct {
	Amount      float64  `json:"amount"`
	Region      string   `json:"region"`
	Rate        *float64 `json:"rate"` // explicit rate overrides the region lookup
	IsInclusive bool     `json:"is_inclusive"`
}

type ApplyDiscountRequest struct {
	OrderID    uint `json:"order_id"`
	DiscountID uint `json:"discount_id"`
}

type CheckoutRequest struct {
	PaymentMethodID uint            `json:"payment_method_id"`
	Amount          float64         `json:"amount"`
	TipAmount       float64         `json:"tip_amount"`
	TipType         *models.TipType `json:"tip_type"`
	IsOffline       bool            `json:"is_offline"`
	ReferenceID     string          `json:"reference_id"`
}

type SplitBillRequest struct {
	Splits []SplitLegRequest `json:"splits"`
}

type SplitLegRequest struct {
	PaymentMethodID uint    `json:"payment_method_id"`
	Amount          float64 `json:"amount"`
}

type SyncRequest struct {
	Payments []OfflinePayment `json:"payments"`
}

type CreateIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// GET /api/orders/:id/total
func ComputeTotalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		total, err := OrderTotal(database.DB, uint(orderID))
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		display, currency := exchange.DisplayAmount(total, actor.Currency)
		return c.JSON(fiber.Map{"order_id": orderID, "total": display, "currency": currency})
	}
}

// POST /api/tax/apply
func ApplyTaxHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApplyTaxRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Amount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be >= 0")
		}

		if body.Rate != nil {
			return c.JSON(ApplyTax(body.Amount, *body.Rate, body.IsInclusive))
		}

		region := strings.TrimSpace(body.Region)
		if region == "" {
			return fiber.NewError(fiber.StatusBadRequest, "region or rate is required")
		}
		breakdowns, totalWithTax, err := TaxForRegion(database.DB, body.Amount, region)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute tax")
		}
		return c.JSON(fiber.Map{
			"subtotal":       round2(body.Amount),
			"tax_details":    breakdowns,
			"total_with_tax": totalWithTax,
		})
	}
}

// POST /api/discounts/apply — returns the computed amount only; nothing
// is persisted on the order.
func ApplyDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApplyDiscountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var order models.Order
		if err := database.DB.Preload("Items").Preload("Items.Product").
			First(&order, "id = ?", body.OrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		var discount models.Discount
		if err := database.DB.First(&discount, "id = ? AND active = ?", body.DiscountID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Discount not found")
		}

		amount, err := DiscountAmount(&order, &discount, time.Now())
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		display, currency := exchange.DisplayAmount(amount, actor.Currency)
		return c.JSON(fiber.Map{
			"order_id":        order.ID,
			"discount_id":     discount.ID,
			"discount_amount": display,
			"currency":        currency,
		})
	}
}

// POST /api/orders/:id/checkout
func CheckoutHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		result, err := Checkout(database.DB, CheckoutInput{
			OrderID:         uint(orderID),
			PaymentMethodID: body.PaymentMethodID,
			Amount:          body.Amount,
			Currency:        cfg.BaseCurrency,
			TipAmount:       body.TipAmount,
			TipType:         body.TipType,
			IsOffline:       body.IsOffline,
			ReferenceID:     body.ReferenceID,
		})
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "checkout",
			ObjectType: "order",
			ObjectID:   &result.Payment.OrderID,
			Details:    fmt.Sprintf("payment %.2f via method %d", result.Payment.Amount, result.Payment.PaymentMethodID),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"payment_id":   result.Payment.ID,
			"status":       result.Payment.Status,
			"reference_id": result.Payment.ReferenceID,
			"receipt_id":   result.Receipt.ID,
			"receipt":      result.Receipt.Content,
		})
	}
}

// POST /api/orders/:id/split-bill
func SplitBillHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var body SplitBillRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		legs := make([]SplitLeg, 0, len(body.Splits))
		for _, s := range body.Splits {
			legs = append(legs, SplitLeg{PaymentMethodID: s.PaymentMethodID, Amount: s.Amount})
		}

		splits, err := SplitBill(database.DB, uint(orderID), legs)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		resp := make([]fiber.Map, 0, len(splits))
		for _, s := range splits {
			resp = append(resp, fiber.Map{
				"id":                s.ID,
				"split_index":       s.SplitIndex,
				"amount":            s.Amount,
				"payment_method_id": s.PaymentMethodID,
				"status":            s.Status,
			})
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// POST /api/payments/sync
func SyncOfflinePaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SyncRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		count, err := SyncOfflinePayments(database.DB, body.Payments)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sync failed")
		}
		return c.JSON(fiber.Map{"synced": count})
	}
}

// POST /api/payments/intent — provider-agnostic; the stub keeps the contract
// in place until a real provider is wired.
func CreateIntentHandler(provider PaymentProvider, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIntentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount is required and must be > 0")
		}
		currency := body.Currency
		if currency == "" {
			currency = cfg.BaseCurrency
		}

		intent, err := provider.CreateIntent(body.Amount, currency, nil)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Provider rejected the intent")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"intent": intent})
	}
}

// POST /api/payments/webhook
func WebhookHandler(provider PaymentProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		headers := map[string]string{}
		c.Request().Header.VisitAll(func(k, v []byte) {
			headers[string(k)] = string(v)
		})
		if !provider.VerifyWebhook(headers, c.Body()) {
			return fiber.NewError(fiber.StatusBadRequest, "Webhook verification failed")
		}
		return c.JSON(fiber.Map{"received": true})
	}
}

// PUT /api/receipts/:id/print
func PrintReceiptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid receipt id")
		}

		if err := MarkReceiptPrinted(database.DB, uint(id)); err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}
		return c.JSON(fiber.Map{"printed": true})
	}
}

type DiscountRequest struct {
	RestaurantID uint       `json:"restaurant_id"`
	Name         string     `json:"name"`
	DiscountType string     `json:"discount_type"`
	Value        float64    `json:"value"`
	AppliesTo    string     `json:"applies_to"`
	ProductID    *uint      `json:"product_id"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	MinQuantity  int        `json:"min_quantity"`
}

// POST /api/discounts
func CreateDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DiscountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id and name are required")
		}
		if body.Value <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "value must be > 0")
		}
		dt := models.DiscountType(body.DiscountType)
		if dt != models.DiscountTypePercentage && dt != models.DiscountTypeFixedAmount {
			return fiber.NewError(fiber.StatusBadRequest, "discount_type must be percentage or fixed_amount")
		}
		scope := models.DiscountScope(body.AppliesTo)
		if scope != models.DiscountScopeProduct && scope != models.DiscountScopeOrder {
			return fiber.NewError(fiber.StatusBadRequest, "applies_to must be product or order")
		}

		minQty := body.MinQuantity
		if minQty < 1 {
			minQty = 1
		}
		discount := models.Discount{
			RestaurantID: body.RestaurantID,
			Name:         body.Name,
			DiscountType: dt,
			Value:        body.Value,
			AppliesTo:    scope,
			ProductID:    body.ProductID,
			StartDate:    body.StartDate,
			EndDate:      body.EndDate,
			MinQuantity:  minQty,
			Active:       true,
		}
		if err := database.DB.Create(&discount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Discount could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(discount)
	}
}

// GET /api/discounts?restaurant_id=1
func ListDiscountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Discount{}).Where("active = ?", true)
		if rid := c.QueryInt("restaurant_id"); rid > 0 {
			dbq = dbq.Where("restaurant_id = ?", rid)
		}

		var discounts []models.Discount
		if err := dbq.Order("id desc").Find(&discounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list discounts")
		}
		return c.JSON(discounts)
	}
}
