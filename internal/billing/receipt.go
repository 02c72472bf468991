package billing

import (
	"fmt"
	"strings"

	"serveo-backend/internal/models"
)

const receiptWidth = 40

// RenderReceipt builds the fixed-format text body of a receipt: header,
// itemized lines, subtotal, tip when present, total, footer. The content is
// immutable once stored; only the printed flag may change later.
func RenderReceipt(order *models.Order, methodName string, subtotal, tip, total float64) string {
	var b strings.Builder
	rule := strings.Repeat("=", receiptWidth)
	thin := strings.Repeat("-", receiptWidth)

	b.WriteString(rule + "\n")
	b.WriteString(center("ServeoPOS") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Order #%d\n", order.ID))
	b.WriteString(order.CreatedAt.Format("2006-01-02 15:04") + "\n")
	b.WriteString(thin + "\n")

	for _, it := range order.Items {
		line := fmt.Sprintf("%dx %s", it.Quantity, it.Product.Name)
		amount := fmt.Sprintf("%.2f", it.Product.BasePrice*float64(it.Quantity))
		b.WriteString(padLine(line, amount) + "\n")
	}

	b.WriteString(thin + "\n")
	b.WriteString(padLine("Subtotal", fmt.Sprintf("%.2f", subtotal)) + "\n")
	if tip > 0 {
		b.WriteString(padLine("Tip", fmt.Sprintf("%.2f", tip)) + "\n")
	}
	b.WriteString(padLine("TOTAL", fmt.Sprintf("%.2f", total)) + "\n")
	b.WriteString(fmt.Sprintf("Paid via %s\n", methodName))
	b.WriteString(rule + "\n")
	b.WriteString(center("Thank you for your visit!") + "\n")

	return b.String()
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	pad := (receiptWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func padLine(left, right string) string {
	gap := receiptWidth - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
