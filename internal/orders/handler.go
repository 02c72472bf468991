package orders

import (
	"fmt"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/audit"
	"serveo-backend/internal/auth"
	"serveo-backend/internal/billing"
	"serveo-backend/internal/database"
	"serveo-backend/internal/exchange"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	RestaurantID uint               `json:"restaurant_id"`
	CustomerID   *uint              `json:"customer_id"`
	Items        []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderItemResponse struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
	Notes     string  `json:"notes,omitempty"`
}

type OrderResponse struct {
	ID        uint                `json:"id"`
	Status    models.OrderStatus  `json:"status"`
	CreatedAt string              `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
	Total     float64             `json:"total"`
	Currency  string              `json:"currency"`
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id is required")
		}

		items := make([]NewItem, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, NewItem{ProductID: it.ProductID, Quantity: it.Quantity, Notes: it.Notes})
		}

		order, err := Create(database.DB, body.RestaurantID, body.CustomerID, items)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "create",
			ObjectType: "order",
			ObjectID:   &order.ID,
			Details:    fmt.Sprintf("order created with %d items", len(order.Items)),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": order.ID, "status": order.Status})
	}
}

// GET /api/orders/:id — the total is recomputed from the catalog on every
// read; amounts are converted to the caller's display currency.
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		order, err := Get(database.DB, uint(orderID))
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)

		resp := OrderResponse{
			ID:        order.ID,
			Status:    order.Status,
			CreatedAt: order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Items:     make([]OrderItemResponse, 0, len(order.Items)),
		}
		for _, it := range order.Items {
			price, _ := exchange.DisplayAmount(it.Product.BasePrice, actor.Currency)
			subtotal, _ := exchange.DisplayAmount(it.Product.BasePrice*float64(it.Quantity), actor.Currency)
			resp.Items = append(resp.Items, OrderItemResponse{
				ProductID: it.ProductID,
				Name:      it.Product.Name,
				Quantity:  it.Quantity,
				Price:     price,
				Subtotal:  subtotal,
				Notes:     it.Notes,
			})
		}

		total, err := billing.OrderTotal(database.DB, order.ID)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}
		resp.Total, resp.Currency = exchange.DisplayAmount(total, actor.Currency)

		return c.JSON(resp)
	}
}

// PUT /api/orders/:id/status
func UpdateStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		order, err := UpdateStatus(database.DB, uint(orderID), body.Status)
		if err != nil {
			return fiber.NewError(apperr.HTTPStatus(err), err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if logErr := audit.Write(audit.Record{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     "update",
			ObjectType: "order",
			ObjectID:   &order.ID,
			Details:    fmt.Sprintf("status -> %s", order.Status),
		}); logErr != nil {
			fmt.Printf("Could not write audit log: %v\n", logErr)
		}

		return c.JSON(fiber.Map{"id": order.ID, "status": order.Status})
	}
}
