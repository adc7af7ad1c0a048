package gst

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/records"
	"gstledger/internal/tax"
	"gstledger/pkg/models"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func day(d int) models.Date {
	return models.NewDate(time.Date(2025, time.April, d, 0, 0, 0, 0, time.UTC))
}

func newAggregator(buyers ...models.Buyer) *Aggregator {
	return NewAggregator(tax.NewCalculator("Gujarat", decimal.NewFromInt(5)), buyers)
}

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID: "S1", InvoiceNumber: "INV-001", Date: day(1), BuyerID: "B1", BuyerName: "Asha Textiles",
			BuyerGSTIN: "24ABCDE1234F1Z5", PlaceOfSupply: "Gujarat", Subtotal: models.NewNumber(10500),
		},
		{
			ID: "S2", Date: day(2), BuyerID: "B2", BuyerName: "Walk-in",
			PlaceOfSupply: "Maharashtra", Subtotal: models.NewNumber(315000),
		},
		{
			ID: "S3", Date: day(3), BuyerID: "B3", BuyerName: "Local Boutique",
			Subtotal: models.NewNumber(315000),
		},
		{
			ID: "S4", Date: day(4), BuyerID: "B4", Status: "Cancelled",
			Subtotal: models.NewNumber(99999),
		},
		{
			ID: "P1", Date: day(5), Type: models.OrderTypePurchase,
			Subtotal: models.NewNumber(50000),
		},
		{
			ID: "S5", Date: day(6), BuyerID: "B9", BuyerName: "Pune Traders", BuyerGSTIN: "NA",
			Subtotal: models.NewNumber(2100),
		},
	}
}

func directory() []models.Buyer {
	return []models.Buyer{
		{ID: "B9", Name: "Pune Traders", GSTIN: "27AAAAA0000A1Z5", Address: "Pune, Maharashtra"},
	}
}

func TestOutward_Buckets(t *testing.T) {
	report := newAggregator(directory()...).Outward(sampleOrders())

	require.Len(t, report.All, 4)
	require.Len(t, report.B2B, 2)
	require.Len(t, report.B2CLarge, 1)
	require.Len(t, report.B2CSmall, 1)

	b2b := report.B2B[0]
	assert.Equal(t, "INV-001", b2b.InvoiceNumber)
	assert.Equal(t, "10000.00", money(b2b.TaxableValue))
	assert.Equal(t, "250.00", money(b2b.CGST))
	assert.Equal(t, "250.00", money(b2b.SGST))
	assert.False(t, b2b.IsInterState)

	large := report.B2CLarge[0]
	assert.Equal(t, "S2", large.InvoiceNumber)
	assert.Equal(t, "300000.00", money(large.TaxableValue))
	assert.Equal(t, "15000.00", money(large.IGST))
	assert.True(t, large.CGST.IsZero())
	assert.True(t, large.IsInterState)

	// Large but intra-state stays small.
	small := report.B2CSmall[0]
	assert.Equal(t, "S3", small.OrderID)
	assert.Equal(t, "Gujarat", small.PlaceOfSupply)
	assert.Equal(t, "7500.00", money(small.CGST))

	fromDirectory := report.B2B[1]
	assert.Equal(t, "S5", fromDirectory.OrderID)
	assert.Equal(t, "27AAAAA0000A1Z5", fromDirectory.GSTIN)
	assert.Equal(t, "Pune, Maharashtra", fromDirectory.PlaceOfSupply)
	assert.Equal(t, "100.00", money(fromDirectory.IGST))
}

func TestOutward_GSTINAlwaysWins(t *testing.T) {
	orders := []models.Order{{
		ID: "S1", BuyerID: "B1", BuyerGSTIN: "29XYZAB9876C1Z2",
		PlaceOfSupply: "Karnataka", Subtotal: models.NewNumber(900000),
	}}

	report := newAggregator().Outward(orders)

	require.Len(t, report.B2B, 1)
	assert.Empty(t, report.B2CLarge)
	assert.Equal(t, BucketB2B, report.All[0].Bucket)
}

func TestOutward_ShortGSTINIsUnregistered(t *testing.T) {
	tests := []struct {
		name   string
		gstin  string
		bucket string
	}{
		{"empty", "", BucketB2CSmall},
		{"five characters", "ABCDE", BucketB2CSmall},
		{"six characters", "ABCDEF", BucketB2B},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := []models.Order{{ID: "S1", BuyerID: "B1", BuyerGSTIN: tt.gstin, Subtotal: models.NewNumber(100)}}
			report := newAggregator().Outward(orders)
			require.Len(t, report.All, 1)
			assert.Equal(t, tt.bucket, report.All[0].Bucket)
		})
	}
}

func TestOutward_OrderRateOverridesDefault(t *testing.T) {
	orders := []models.Order{{ID: "S1", BuyerID: "B1", Subtotal: models.NewNumber(1120), TaxRate: models.NewNumber(12)}}

	entry := newAggregator().Outward(orders).All[0]

	assert.Equal(t, "12", entry.Rate.String())
	assert.Equal(t, "1000.00", money(entry.TaxableValue))
	assert.Equal(t, "120.00", money(entry.TaxAmount))
}

func TestSummary_NetsInputCredit(t *testing.T) {
	agg := newAggregator(directory()...)
	purchases := []records.PurchaseRecord{{ID: "P1-0", TotalCost: decimal.NewFromInt(1050)}}

	summary := agg.Summary(agg.Outward(sampleOrders()), purchases)

	assert.Equal(t, "612000.00", money(summary.OutwardSupplies.Taxable))
	assert.Equal(t, "15100.00", money(summary.OutwardSupplies.IGST))
	assert.Equal(t, "7750.00", money(summary.OutwardSupplies.CGST))
	assert.Equal(t, "7750.00", money(summary.OutwardSupplies.SGST))

	assert.Equal(t, "1000.00", money(summary.EligibleITC.Taxable))
	assert.Equal(t, "25.00", money(summary.EligibleITC.CGST))
	assert.True(t, summary.EligibleITC.IGST.IsZero())

	assert.Equal(t, "15100.00", money(summary.TaxPayable.IGST))
	assert.Equal(t, "7725.00", money(summary.TaxPayable.CGST))
	assert.Equal(t, "7725.00", money(summary.TaxPayable.SGST))
}

func TestSummary_PayableNeverNegative(t *testing.T) {
	agg := newAggregator()
	purchases := []records.PurchaseRecord{{ID: "P1-0", TotalCost: decimal.NewFromInt(210000)}}

	summary := agg.Summary(agg.Outward(nil), purchases)

	assert.True(t, summary.EligibleITC.CGST.IsPositive())
	assert.True(t, summary.TaxPayable.IGST.IsZero())
	assert.True(t, summary.TaxPayable.CGST.IsZero())
	assert.True(t, summary.TaxPayable.SGST.IsZero())
}

func TestHSN_GroupsLineItems(t *testing.T) {
	orders := []models.Order{
		{
			ID: "S1", BuyerID: "B1", PlaceOfSupply: "Gujarat",
			Items: []models.LineItem{
				{Name: "Silk saree", HSN: "5007", Quantity: models.NewNumber(2), SellingPrice: models.NewNumber(5250)},
				{Name: "Gift box", Quantity: models.NewNumber(1), SellingPrice: models.NewNumber(105)},
			},
		},
		{
			ID: "S2", BuyerID: "B2", PlaceOfSupply: "Delhi",
			Items: []models.LineItem{
				{Name: "Silk stole", HSN: " 5007 ", Quantity: models.NewNumber(1), SellingPrice: models.NewNumber(2100)},
			},
		},
		{
			ID: "S3", BuyerID: "B3", Status: models.OrderStatusCancelled,
			Items: []models.LineItem{{Name: "Ignored", HSN: "6204", Quantity: models.NewNumber(1), SellingPrice: models.NewNumber(10)}},
		},
	}

	summary := newAggregator().HSN(orders)

	require.Len(t, summary, 2)
	silk := summary[0]
	assert.Equal(t, "5007", silk.HSN)
	assert.Equal(t, "Silk saree", silk.Description)
	assert.Equal(t, "3", silk.Quantity.String())
	assert.Equal(t, "12000.00", money(silk.TaxableValue))
	assert.Equal(t, "250.00", money(silk.CGST))
	assert.Equal(t, "100.00", money(silk.IGST))
	assert.Equal(t, "12600.00", money(silk.TotalValue))

	assert.Equal(t, UnknownHSN, summary[1].HSN)
	assert.Equal(t, "100.00", money(summary[1].TaxableValue))
}

func TestCrossValidate(t *testing.T) {
	items := []models.LineItem{{Name: "Kurta", Quantity: models.NewNumber(2), SellingPrice: models.NewNumber(500)}}
	orders := []models.Order{
		{ID: "S1", InvoiceNumber: "INV-1", BuyerID: "B", Items: items, DiscountRate: models.NewNumber(10), Subtotal: models.NewNumber(900)},
		{ID: "S2", InvoiceNumber: "INV-2", BuyerID: "B", Items: items, Subtotal: models.NewNumber(950)},
		{ID: "S3", BuyerID: "B", Subtotal: models.NewNumber(10)},
		{ID: "S4", InvoiceNumber: "INV-4", BuyerID: "B", Items: items, Subtotal: models.NewNumber(1000.01)},
	}

	warnings := newAggregator().CrossValidate(orders)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "INV-2")
	assert.Contains(t, warnings[0], "1000.00")
}

func TestBuild_IsIdempotent(t *testing.T) {
	agg := newAggregator(directory()...)
	purchases := []records.PurchaseRecord{{ID: "P1-0", TotalCost: decimal.NewFromInt(1050)}}

	first := agg.Build(sampleOrders(), purchases)
	second := agg.Build(sampleOrders(), purchases)

	assert.Equal(t, first, second)
	assert.Len(t, first.GSTR1.All, 4)
}
