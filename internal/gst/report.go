// Package gst builds GSTR1-style outward supply reports and GSTR3B-style summaries
// from sale orders and purchase records.
package gst

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gstledger/internal/logger"
	"gstledger/internal/records"
	"gstledger/internal/tax"
	"gstledger/pkg/models"
)

// Buckets
const (
	BucketB2B      = "b2b"
	BucketB2CLarge = "b2cLarge"
	BucketB2CSmall = "b2cSmall"
)

// B2CLargeThreshold is the invoice value above which an inter-state unregistered supply
// is reported individually.
var B2CLargeThreshold = decimal.NewFromInt(250000)

// minGSTINLength is the shortest string still accepted as a GSTIN.
const minGSTINLength = 6

// ITCRate is applied to purchase records, which carry no rate of their own.
var ITCRate = decimal.NewFromInt(5)

// Entry is one invoice line of the outward supply report.
type Entry struct {
	OrderID       string          `json:"orderId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	InvoiceValue  decimal.Decimal `json:"invoiceValue"`
	PlaceOfSupply string          `json:"placeOfSupply"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableValue  decimal.Decimal `json:"taxableValue"`
	Cess          decimal.Decimal `json:"cess"`
	GSTIN         string          `json:"gstin"`
	CustomerName  string          `json:"customerName"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	IsInterState  bool            `json:"isInterState"`
	Bucket        string          `json:"bucket"`
}

// GSTR1 is the outward supply report.
type GSTR1 struct {
	B2B      []Entry `json:"b2b"`
	B2CLarge []Entry `json:"b2cLarge"`
	B2CSmall []Entry `json:"b2cSmall"`
	All      []Entry `json:"all"`
}

// Heads sums a taxable value and its tax heads.
type Heads struct {
	Taxable decimal.Decimal `json:"taxable"`
	IGST    decimal.Decimal `json:"igst"`
	CGST    decimal.Decimal `json:"cgst"`
	SGST    decimal.Decimal `json:"sgst"`
}

// Payable is the net tax due per head.
type Payable struct {
	IGST decimal.Decimal `json:"igst"`
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
}

// GSTR3B is the summary return with input credit netted off.
type GSTR3B struct {
	OutwardSupplies Heads   `json:"outwardSupplies"`
	EligibleITC     Heads   `json:"eligibleITC"`
	TaxPayable      Payable `json:"taxPayable"`
}

// Report bundles everything the aggregator produces in one pass.
type Report struct {
	GSTR1    GSTR1        `json:"gstr1"`
	GSTR3B   GSTR3B       `json:"gstr3b"`
	HSN      []HSNSummary `json:"hsn"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Aggregator classifies sale orders into GST buckets.
type Aggregator struct {
	calc   *tax.Calculator
	buyers map[string]models.Buyer
	log    zerolog.Logger
}

// NewAggregator creates an aggregator. The buyer directory backs up GSTIN and address
// when an order does not carry them itself.
func NewAggregator(calc *tax.Calculator, buyers []models.Buyer) *Aggregator {
	index := make(map[string]models.Buyer, len(buyers))
	for _, b := range buyers {
		if b.ID != "" {
			index[b.ID] = b
		}
	}
	return &Aggregator{
		calc:   calc,
		buyers: index,
		log:    logger.WithComponent("gst-aggregator"),
	}
}

// Build runs every report over the given orders and purchase records.
func (a *Aggregator) Build(orders []models.Order, purchases []records.PurchaseRecord) Report {
	gstr1 := a.Outward(orders)
	return Report{
		GSTR1:    gstr1,
		GSTR3B:   a.Summary(gstr1, purchases),
		HSN:      a.HSN(orders),
		Warnings: a.CrossValidate(orders),
	}
}

// Outward computes the GSTR1 report over non-cancelled sale orders.
func (a *Aggregator) Outward(orders []models.Order) GSTR1 {
	report := GSTR1{
		B2B:      []Entry{},
		B2CLarge: []Entry{},
		B2CSmall: []Entry{},
		All:      []Entry{},
	}

	for i := range orders {
		order := &orders[i]
		if !order.IsSale() || order.IsCancelled() {
			continue
		}

		entry := a.entryFor(order)
		switch entry.Bucket {
		case BucketB2B:
			report.B2B = append(report.B2B, entry)
		case BucketB2CLarge:
			report.B2CLarge = append(report.B2CLarge, entry)
		default:
			report.B2CSmall = append(report.B2CSmall, entry)
		}
		report.All = append(report.All, entry)
	}

	a.log.Debug().
		Int("b2b", len(report.B2B)).
		Int("b2c_large", len(report.B2CLarge)).
		Int("b2c_small", len(report.B2CSmall)).
		Msg("Outward supplies classified")

	return report
}

func (a *Aggregator) entryFor(order *models.Order) Entry {
	subtotal := order.Subtotal.Decimal()
	rate := a.calc.Rate(order.TaxRate)
	pos := a.placeOfSupply(order)
	b := a.calc.Compute(subtotal, rate, pos)
	gstin := a.gstin(order)

	bucket := BucketB2CSmall
	switch {
	case len(gstin) >= minGSTINLength:
		bucket = BucketB2B
	case subtotal.GreaterThan(B2CLargeThreshold) && b.IsInterState:
		bucket = BucketB2CLarge
	}

	return Entry{
		OrderID:       order.ID,
		InvoiceNumber: order.InvoiceRef(),
		InvoiceDate:   order.Date.Time,
		InvoiceValue:  models.RoundMoney(subtotal),
		PlaceOfSupply: pos,
		Rate:          rate,
		TaxableValue:  b.TaxableValue,
		Cess:          decimal.Zero,
		GSTIN:         gstin,
		CustomerName:  order.BuyerName,
		TaxAmount:     b.TaxAmount,
		CGST:          b.CGST,
		SGST:          b.SGST,
		IGST:          b.IGST,
		IsInterState:  b.IsInterState,
		Bucket:        bucket,
	}
}

// placeOfSupply falls back from the explicit field to the buyer address to the home state.
func (a *Aggregator) placeOfSupply(order *models.Order) string {
	if pos := strings.TrimSpace(order.PlaceOfSupply); pos != "" {
		return pos
	}
	if addr := strings.TrimSpace(order.BuyerAddress); addr != "" {
		return addr
	}
	if buyer, ok := a.buyers[order.BuyerID]; ok {
		if addr := strings.TrimSpace(buyer.Address); addr != "" {
			return addr
		}
	}
	return a.calc.HomeState
}

// gstin prefers a usable GSTIN on the order, then one from the buyer directory. A short
// value is passed through so the report still shows what was entered.
func (a *Aggregator) gstin(order *models.Order) string {
	g := strings.TrimSpace(order.BuyerGSTIN)
	if len(g) >= minGSTINLength {
		return g
	}
	if buyer, ok := a.buyers[order.BuyerID]; ok {
		if dir := strings.TrimSpace(buyer.GSTIN); len(dir) >= minGSTINLength {
			return dir
		}
	}
	return g
}

// Summary nets outward tax against input credit from purchase records.
// No head is ever payable below zero.
func (a *Aggregator) Summary(gstr1 GSTR1, purchases []records.PurchaseRecord) GSTR3B {
	outward := zeroHeads()
	for _, e := range gstr1.All {
		outward.Taxable = outward.Taxable.Add(e.TaxableValue)
		outward.IGST = outward.IGST.Add(e.IGST)
		outward.CGST = outward.CGST.Add(e.CGST)
		outward.SGST = outward.SGST.Add(e.SGST)
	}

	itc := zeroHeads()
	for _, p := range purchases {
		b := a.calc.Compute(p.TotalCost, ITCRate, "")
		itc.Taxable = itc.Taxable.Add(b.TaxableValue)
		itc.IGST = itc.IGST.Add(b.IGST)
		itc.CGST = itc.CGST.Add(b.CGST)
		itc.SGST = itc.SGST.Add(b.SGST)
	}

	return GSTR3B{
		OutwardSupplies: outward,
		EligibleITC:     itc,
		TaxPayable: Payable{
			IGST: nonNegative(outward.IGST.Sub(itc.IGST)),
			CGST: nonNegative(outward.CGST.Sub(itc.CGST)),
			SGST: nonNegative(outward.SGST.Sub(itc.SGST)),
		},
	}
}

func zeroHeads() Heads {
	return Heads{
		Taxable: decimal.Zero,
		IGST:    decimal.Zero,
		CGST:    decimal.Zero,
		SGST:    decimal.Zero,
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
