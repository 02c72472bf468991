package billing

import (
	"errors"
	"math"

	"serveo-backend/internal/apperr"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

// OrderTotal sums unit price x quantity over the order's items. The unit
// price comes from the product catalog at call time, so an unpaid order's
// total follows later catalog price changes on the next read.
func OrderTotal(db *gorm.DB, orderID uint) (float64, error) {
	var order models.Order
	err := db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.NotFoundf("order %d not found", orderID)
	}
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, it := range order.Items {
		total += it.Product.BasePrice * float64(it.Quantity)
	}
	return round2(total), nil
}

// TaxBreakdown is the result of applying one region rate to an amount.
type TaxBreakdown struct {
	Base        float64 `json:"base_price"`
	Tax         float64 `json:"tax_amount"`
	Total       float64 `json:"total_price"`
	Rate        float64 `json:"tax_rate"`
	IsInclusive bool    `json:"is_inclusive"`
}

// ApplyTax splits an amount into base/tax/total. Inclusive means the amount
// already contains the tax. Rounding happens once, at the end.
func ApplyTax(amount, rate float64, inclusive bool) TaxBreakdown {
	var base, tax, total float64
	if inclusive {
		base = amount / (1 + rate/100)
		tax = amount - base
		total = amount
	} else {
		base = amount
		tax = amount * rate / 100
		total = amount + tax
	}
	return TaxBreakdown{
		Base:        round2(base),
		Tax:         round2(tax),
		Total:       round2(total),
		Rate:        rate,
		IsInclusive: inclusive,
	}
}

// TaxForRegion applies every active rule of a region to the amount. A region
// with no rules passes the amount through untouched.
func TaxForRegion(db *gorm.DB, amount float64, region string) ([]TaxBreakdown, float64, error) {
	var rules []models.TaxRule
	if err := db.Where("region = ? AND active = ?", region, true).Find(&rules).Error; err != nil {
		return nil, 0, err
	}
	if len(rules) == 0 {
		return nil, round2(amount), nil
	}

	breakdowns := make([]TaxBreakdown, 0, len(rules))
	totalTax := 0.0
	for _, rule := range rules {
		b := ApplyTax(amount, rule.Rate, rule.IsInclusive)
		breakdowns = append(breakdowns, b)
		if !rule.IsInclusive {
			totalTax += b.Tax
		}
	}
	return breakdowns, round2(amount + totalTax), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
