package orders

import (
	"errors"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

var validStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusCooking:   true,
	models.OrderStatusReady:     true,
	models.OrderStatusServed:    true,
	models.OrderStatusHold:      true,
	models.OrderStatusCompleted: true,
	models.OrderStatusCancelled: true,
}

type NewItem struct {
	ProductID uint
	Quantity  int
	Notes     string
}

// Create validates every line against the product catalog and inserts the
// order and its items in one transaction.
func Create(db *gorm.DB, restaurantID uint, customerID *uint, items []NewItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, apperr.Validationf("order needs at least one item")
	}

	order := models.Order{
		RestaurantID: restaurantID,
		CustomerID:   customerID,
		Status:       models.OrderStatusPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			if it.Quantity < 1 {
				return apperr.Validationf("quantity must be at least 1")
			}
			var product models.Product
			if err := tx.First(&product, "id = ?", it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("product %d not found", it.ProductID)
				}
				return err
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				Notes:     it.Notes,
			})
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Get loads an order with its items and products.
func Get(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus is the only mutation an order supports after creation.
// Completed (paid) orders stay completed; cancelled orders stay cancelled.
func UpdateStatus(db *gorm.DB, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !validStatuses[status] {
		return nil, apperr.Validationf("invalid order status %q", status)
	}

	order, err := Get(db, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusCompleted && status != models.OrderStatusCompleted {
		return nil, apperr.Conflictf("a completed order cannot change status")
	}
	if order.Status == models.OrderStatusCancelled && status != models.OrderStatusCancelled {
		return nil, apperr.Conflictf("a cancelled order cannot change status")
	}

	if err := db.Model(order).Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
