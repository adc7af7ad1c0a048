// Package tax splits tax-inclusive amounts into taxable value and GST heads.
//
// A tax-inclusive amount A at rate r% carries a taxable value of A / (1 + r/100).
// The remainder is tax, charged either as CGST+SGST (equal halves) when the supply
// stays within the home state, or entirely as IGST when it crosses state lines.
// Whether a supply is intra-state is decided by a LocalityResolver.
package tax

import (
	"github.com/shopspring/decimal"

	"gstledger/pkg/models"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Breakdown is the result of splitting one tax-inclusive amount.
type Breakdown struct {
	TaxableValue decimal.Decimal `json:"taxableValue"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	IsInterState bool            `json:"isInterState"`
	HomeState    string          `json:"homeState"`
}

// Calculator computes breakdowns with a fixed home state, default rate and locality rule.
type Calculator struct {
	HomeState   string
	DefaultRate decimal.Decimal
	Locality    LocalityResolver
}

// NewCalculator returns a calculator using the substring locality rule.
func NewCalculator(homeState string, defaultRate decimal.Decimal) *Calculator {
	return &Calculator{
		HomeState:   homeState,
		DefaultRate: defaultRate,
		Locality:    SubstringLocality{},
	}
}

// Rate resolves an optional rate field against the calculator's default.
func (c *Calculator) Rate(rate models.Number) decimal.Decimal {
	return rate.Or(c.DefaultRate)
}

// Compute splits amount at rate for a supply to placeOfSupply. Negative amounts are
// treated as zero.
func (c *Calculator) Compute(amount, rate decimal.Decimal, placeOfSupply string) Breakdown {
	locality := c.Locality
	if locality == nil {
		locality = SubstringLocality{}
	}
	b := Split(amount, rate, !locality.IsIntraState(placeOfSupply, c.HomeState))
	b.HomeState = c.HomeState
	return b
}

// Split breaks amount down at rate with the locality already decided.
func Split(amount, rate decimal.Decimal, interState bool) Breakdown {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if rate.IsNegative() {
		rate = decimal.Zero
	}

	gross := models.RoundMoney(amount)
	divisor := decimal.NewFromInt(1).Add(rate.Div(hundred))
	taxable := models.RoundMoney(amount.Div(divisor))
	taxAmount := gross.Sub(taxable)

	b := Breakdown{
		TaxableValue: taxable,
		TaxAmount:    taxAmount,
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         decimal.Zero,
	}

	if !interState {
		// Both halves round the same way, so an odd last cent of tax makes CGST+SGST
		// exceed TaxAmount by 0.01.
		half := models.RoundMoney(taxAmount.Div(two))
		b.CGST = half
		b.SGST = half
		return b
	}

	b.IsInterState = true
	b.IGST = taxAmount
	return b
}

// Compute is a convenience wrapper for one-off calculations without a Calculator.
// A missing or non-numeric rate falls back to models.DefaultGSTRate.
func Compute(amount decimal.Decimal, rate models.Number, placeOfSupply, homeState string) Breakdown {
	c := NewCalculator(homeState, models.DefaultGSTRate)
	return c.Compute(amount, c.Rate(rate), placeOfSupply)
}
