package gst

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"gstledger/pkg/models"
)

// UnknownHSN groups line items without an HSN code.
const UnknownHSN = "NA"

// HSNSummary totals outward supplies for one HSN code.
type HSNSummary struct {
	HSN          string          `json:"hsn"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
}

// HSN groups the line items of non-cancelled sale orders by HSN code. Each line value is
// broken down at its order's rate and place of supply. Codes are returned in ascending order.
func (a *Aggregator) HSN(orders []models.Order) []HSNSummary {
	byCode := make(map[string]*HSNSummary)

	for i := range orders {
		order := &orders[i]
		if !order.IsSale() || order.IsCancelled() {
			continue
		}
		rate := a.calc.Rate(order.TaxRate)
		pos := a.placeOfSupply(order)

		for _, line := range order.Items {
			code := strings.TrimSpace(line.HSN)
			if code == "" {
				code = UnknownHSN
			}
			qty := line.Quantity.Decimal()
			value := qty.Mul(line.SellingPrice.Decimal())
			b := a.calc.Compute(value, rate, pos)

			s, ok := byCode[code]
			if !ok {
				s = &HSNSummary{
					HSN:          code,
					Description:  line.Name,
					Quantity:     decimal.Zero,
					TotalValue:   decimal.Zero,
					TaxableValue: decimal.Zero,
					IGST:         decimal.Zero,
					CGST:         decimal.Zero,
					SGST:         decimal.Zero,
				}
				byCode[code] = s
			}
			s.Quantity = s.Quantity.Add(qty)
			s.TotalValue = s.TotalValue.Add(b.TaxableValue).Add(b.TaxAmount)
			s.TaxableValue = s.TaxableValue.Add(b.TaxableValue)
			s.IGST = s.IGST.Add(b.IGST)
			s.CGST = s.CGST.Add(b.CGST)
			s.SGST = s.SGST.Add(b.SGST)
		}
	}

	out := make([]HSNSummary, 0, len(byCode))
	for _, s := range byCode {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HSN < out[j].HSN })
	return out
}
