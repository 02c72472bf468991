package ledger

import (
	"fmt"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/audit"
	"serveo-backend/internal/auth"
	"serveo-backend/internal/database"
	"serveo-backend/internal/exchange"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCollectionRequest struct {
	RestaurantID uint    `json:"restaurant_id"`
	Customer     string  `json:"customer"`
	Phone        string  `json:"phone"`
	Total        float64 `json:"total"`
}

type AddPaymentRequest struct {
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	ReferenceID string  `json:"reference_id"`
}

type CollectionResponse struct {
	ID       uint                    `json:"id"`
	Customer string                  `json:"customer"`
	Phone    string                  `json:"phone"`
	Total    float64                 `json:"total"`
	Paid     float64                 `json:"paid"`
	Balance  float64                 `json:"balance"`
	Status   models.CollectionStatus `json:"status"`
	Currency string                  `json:"currency"`
}

type CreateInvoiceRequest struct {
	RestaurantID uint    `json:"restaurant_id"`
	OrderID      *uint   `json:"order_id"`
	CollectionID *uint   `json:"collection_id"`
	Customer     string  `json:"customer"`
	Total        float64 `json:"total"`
}

type CreateTransactionRequest struct {
	RestaurantID uint    `json:"restaurant_id"`
	Type         string  `json:"transaction_type"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	OrderID      *uint   `json:"order_id"`
}

func collectionResponse(col *models.Collection, displayCurrency string) CollectionResponse {
	total, currency := exchange.DisplayAmount(col.TotalAmount, displayCurrency)
	paid, _ := exchange.DisplayAmount(col.PaidAmount, displayCurrency)
	balance, _ := exchange.DisplayAmount(col.Balance, displayCurrency)
	return CollectionResponse{
		ID:       col.ID,
		Customer: col.Customer,
		Phone:    col.Phone,
		Total:    total,
		Paid:     paid,
		Balance:  balance,
		Status:   col.Status,
		Currency: currency,
	}
}

// POST /api/collections
func CreateCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCollectionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id is required")
		}

		col, err := CreateCollection(database.DB, body.RestaurantID, body.Customer, body.Phone, body.Total)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "create",
			ObjectType: "collection",
			ObjectID:   &col.ID,
			Details:    fmt.Sprintf("collection for %s, total %.2f", col.Customer, col.TotalAmount),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(collectionResponse(col, actor.Currency))
	}
}

// GET /api/collections
func ListCollectionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Collection{})
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var cols []models.Collection
		if err := dbq.Order("id desc").Find(&cols).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list collections")
		}

		actor := auth.ActorFromCtx(c)
		resp := make([]CollectionResponse, 0, len(cols))
		for i := range cols {
			resp = append(resp, collectionResponse(&cols[i], actor.Currency))
		}
		return c.JSON(resp)
	}
}

// GET /api/collections/:id
func GetCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid collection id")
		}

		var col models.Collection
		if err := database.DB.First(&col, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Collection not found")
		}

		actor := auth.ActorFromCtx(c)
		return c.JSON(collectionResponse(&col, actor.Currency))
	}
}

// POST /api/collections/:id/payment
func AddPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid collection id")
		}

		var body AddPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor := auth.ActorFromCtx(c)
		payment, err := AddPayment(database.DB, uint(id), body.Amount, body.Method, body.ReferenceID, actor.Name)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "add_payment",
			ObjectType: "collection",
			ObjectID:   &payment.CollectionID,
			Details:    fmt.Sprintf("payment %.2f via %s", payment.Amount, payment.Method),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":            payment.ID,
			"collection_id": payment.CollectionID,
			"amount":        payment.Amount,
			"method":        payment.Method,
		})
	}
}

// POST /api/invoices
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id is required")
		}

		inv, err := CreateInvoice(database.DB, InvoiceSpec{
			RestaurantID: body.RestaurantID,
			OrderID:      body.OrderID,
			CollectionID: body.CollectionID,
			Customer:     body.Customer,
			Total:        body.Total,
		})
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "create",
			ObjectType: "invoice",
			ObjectID:   &inv.ID,
			Details:    fmt.Sprintf("invoice %s issued, total %.2f", inv.InvoiceNumber, inv.Total),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":             inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"total":          inv.Total,
			"status":         inv.Status,
			"issued_at":      inv.IssuedAt,
		})
	}
}

// GET /api/invoices
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Invoice{})
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var invs []models.Invoice
		if err := dbq.Order("id desc").Find(&invs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list invoices")
		}
		return c.JSON(invs)
	}
}

// GET /api/invoices/:id
func GetInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid invoice id")
		}

		var inv models.Invoice
		if err := database.DB.First(&inv, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}
		return c.JSON(inv)
	}
}

// PUT /api/invoices/:id/mark-paid
func MarkInvoicePaidHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid invoice id")
		}

		inv, err := MarkInvoicePaid(database.DB, uint(id))
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "mark_paid",
			ObjectType: "invoice",
			ObjectID:   &inv.ID,
			Details:    "invoice " + inv.InvoiceNumber + " marked paid",
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(fiber.Map{"id": inv.ID, "status": inv.Status, "paid_at": inv.PaidAt})
	}
}

// POST /api/transactions
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id is required")
		}

		row, err := RecordTransaction(database.DB, body.RestaurantID, models.TransactionType(body.Type),
			body.Amount, body.Category, body.Description, body.OrderID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": row.ID, "type": row.Type, "amount": row.Amount})
	}
}

// GET /api/transactions
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Transaction{})
		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}

		var rows []models.Transaction
		if err := dbq.Order("id desc").Limit(500).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}
		return c.JSON(rows)
	}
}

// GET /api/accounting/summary?restaurant_id=1
func AccountingSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID := c.QueryInt("restaurant_id")
		if restaurantID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id is required")
		}

		s, err := Summarize(database.DB, uint(restaurantID))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute summary")
		}
		return c.JSON(s)
	}
}

// GET /api/collections/summary?restaurant_id=1
func CollectionSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID := c.QueryInt("restaurant_id")
		if restaurantID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id is required")
		}

		s, err := SummarizeCollections(database.DB, uint(restaurantID))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute summary")
		}
		return c.JSON(s)
	}
}
