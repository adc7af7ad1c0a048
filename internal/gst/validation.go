package gst

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gstledger/pkg/models"
)

// subtotalTolerance is the largest difference between line totals and the stored subtotal
// that is still accepted as rounding.
var subtotalTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// CrossValidate compares each sale order's stored subtotal against its line items, net of
// the order discount. Mismatches are returned as warnings; the subtotal is still what gets
// reported.
func (a *Aggregator) CrossValidate(orders []models.Order) []string {
	var warnings []string

	for i := range orders {
		order := &orders[i]
		if !order.IsSale() || order.IsCancelled() || len(order.Items) == 0 {
			continue
		}

		lines := decimal.Zero
		for _, line := range order.Items {
			lines = lines.Add(line.Quantity.Decimal().Mul(line.SellingPrice.Decimal()))
		}
		expected := lines
		if discount := order.DiscountRate.Decimal(); discount.IsPositive() {
			expected = lines.Mul(hundred.Sub(discount)).Div(hundred)
		}
		expected = models.RoundMoney(expected)

		subtotal := order.Subtotal.Decimal()
		difference := expected.Sub(subtotal).Abs()
		if difference.LessThanOrEqual(subtotalTolerance) {
			continue
		}

		warning := fmt.Sprintf("Invoice %s: subtotal %s does not match line items %s (difference: %s)",
			order.InvoiceRef(),
			subtotal.StringFixed(2),
			expected.StringFixed(2),
			difference.StringFixed(2))
		warnings = append(warnings, warning)

		a.log.Warn().
			Str("invoice", order.InvoiceRef()).
			Str("subtotal", subtotal.StringFixed(2)).
			Str("calculated", expected.StringFixed(2)).
			Str("difference", difference.StringFixed(2)).
			Msg("Subtotal discrepancy detected")
	}

	return warnings
}
