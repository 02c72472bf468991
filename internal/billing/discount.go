package billing

import (
	"time"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"
)

// DiscountAmount computes what a discount takes off an order. The amount is
// returned to the caller and never persisted on the order; it is recomputed
// per request.
func DiscountAmount(order *models.Order, discount *models.Discount, now time.Time) (float64, error) {
	if discount.Value <= 0 {
		return 0, apperr.Validationf("discount value is required")
	}
	switch discount.DiscountType {
	case models.DiscountTypePercentage, models.DiscountTypeFixedAmount:
	default:
		return 0, apperr.Validationf("discount type is required")
	}

	if discount.StartDate != nil && now.Before(*discount.StartDate) {
		return 0, nil
	}
	if discount.EndDate != nil && now.After(*discount.EndDate) {
		return 0, nil
	}

	switch discount.AppliesTo {
	case models.DiscountScopeProduct:
		return productDiscount(order, discount), nil
	case models.DiscountScopeOrder:
		return orderDiscount(order, discount), nil
	default:
		return 0, apperr.Validationf("discount scope must be product or order")
	}
}

func productDiscount(order *models.Order, discount *models.Discount) float64 {
	subtotal := 0.0
	quantity := 0
	for _, it := range order.Items {
		if discount.ProductID != nil && it.ProductID != *discount.ProductID {
			continue
		}
		subtotal += it.Product.BasePrice * float64(it.Quantity)
		quantity += it.Quantity
	}
	if quantity < discount.MinQuantity {
		return 0
	}

	if discount.DiscountType == models.DiscountTypePercentage {
		return round2(subtotal * discount.Value / 100)
	}
	return round2(discount.Value * float64(quantity))
}

func orderDiscount(order *models.Order, discount *models.Discount) float64 {
	subtotal := 0.0
	for _, it := range order.Items {
		subtotal += it.Product.BasePrice * float64(it.Quantity)
	}
	if discount.DiscountType == models.DiscountTypePercentage {
		return round2(subtotal * discount.Value / 100)
	}
	// fixed_amount applies once to the whole order
	return round2(discount.Value)
}
