package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/pkg/models"
)

func day(d int) models.Date {
	return models.NewDate(time.Date(2025, time.March, d, 10, 0, 0, 0, time.UTC))
}

func item(name string, qty, cost, price float64) models.LineItem {
	return models.LineItem{
		Name:         name,
		Quantity:     models.NewNumber(qty),
		CostPrice:    models.NewNumber(cost),
		SellingPrice: models.NewNumber(price),
	}
}

func TestExtract_ClassifiesSalesAndPurchases(t *testing.T) {
	orders := []models.Order{
		{
			ID: "S1", Date: day(2), BuyerID: "B1", BuyerName: "Asha Textiles", PaymentStatus: "paid",
			Items: []models.LineItem{item("Saree", 2, 800, 1500), item("Dupatta", 1, 200, 450)},
		},
		{
			ID: "P1", Date: day(1), Type: models.OrderTypePurchase, VendorID: "V1", VendorName: "Surat Mills",
			PaymentStatus: "pending", Items: []models.LineItem{item("Silk roll", 10, 300, 0)},
		},
		{
			ID: "P2", Date: day(3), BuyerID: models.InternalInventoryBuyerID, VendorID: "V2",
			Items: []models.LineItem{item("Zari", 5, 40, 0)},
		},
	}

	res := NewExtractor().Extract(orders, nil)

	require.Len(t, res.Sales, 2)
	require.Len(t, res.Purchases, 2)

	saree := res.Sales[0]
	assert.Equal(t, "S1", saree.OrderID)
	assert.Equal(t, "Saree", saree.ItemName)
	assert.Equal(t, "3000", saree.Revenue.String())
	assert.Equal(t, "1600", saree.Cost.String())
	assert.Equal(t, "1400", saree.Profit.String())
	assert.Equal(t, UncategorizedLabel, saree.Category)

	// Most recent first
	assert.Equal(t, "P2", res.Purchases[0].OrderID)
	assert.Equal(t, "200", res.Purchases[0].TotalCost.String())
	assert.Equal(t, "P1", res.Purchases[1].OrderID)
	assert.Equal(t, "3000", res.Purchases[1].TotalCost.String())
	assert.Equal(t, "pending", res.Purchases[1].PaymentStatus)
	assert.Equal(t, SourceOrder, res.Purchases[1].Source)
}

func TestExtract_LegacyRows(t *testing.T) {
	orders := []models.Order{
		{ID: "P1", Date: day(1), Type: models.OrderTypePurchase, Items: []models.LineItem{item("Cotton", 1, 100, 0)}},
	}
	legacy := []models.LegacyPurchase{
		{ID: "L1", Date: day(5), Name: "Old stock", Quantity: models.NewNumber(3), CostPrice: models.NewNumber(250)},
		{ID: "L2", Date: day(4), Name: "Covered", Quantity: models.NewNumber(1), CostPrice: models.NewNumber(100), OrderID: "P1"},
		{ID: "L3", Date: day(6), Name: "Orphan link", Quantity: models.NewNumber(2), CostPrice: models.NewNumber(10), OrderID: "P9", VendorName: "Rajkot Traders"},
	}

	res := NewExtractor().Extract(orders, legacy)

	require.Len(t, res.Purchases, 3)
	assert.Equal(t, "L3", res.Purchases[0].ID)
	assert.Equal(t, "Rajkot Traders", res.Purchases[0].VendorName)
	assert.Equal(t, "L1", res.Purchases[1].ID)
	assert.Equal(t, LegacyVendorID, res.Purchases[1].VendorID)
	assert.Equal(t, LegacyVendorName, res.Purchases[1].VendorName)
	assert.Equal(t, models.PaymentDelivered, res.Purchases[1].PaymentStatus)
	assert.Equal(t, "750", res.Purchases[1].TotalCost.String())
	assert.Equal(t, SourceLegacy, res.Purchases[1].Source)
	assert.Equal(t, "P1-0", res.Purchases[2].ID)
}

func TestExtract_CoercesGarbageNumbers(t *testing.T) {
	var order models.Order
	raw := `{
		"id": "S9", "date": "2025-03-02", "buyerId": "B1",
		"items": [{"name": "Kurta", "quantity": "two", "costPrice": null, "sellingPrice": "₹1,200"}]
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	res := NewExtractor().Extract([]models.Order{order}, nil)

	require.Len(t, res.Sales, 1)
	assert.True(t, res.Sales[0].Quantity.IsZero())
	assert.Equal(t, "1200", res.Sales[0].UnitPrice.String())
	assert.True(t, res.Sales[0].Revenue.IsZero())
}

func TestExtract_IsIdempotent(t *testing.T) {
	orders := []models.Order{
		{ID: "S1", Date: day(2), BuyerID: "B1", Items: []models.LineItem{item("Saree", 1, 1, 2)}},
		{ID: "P1", Date: day(2), Type: models.OrderTypePurchase, Items: []models.LineItem{item("Silk", 1, 1, 0)}},
	}
	e := NewExtractor()
	assert.Equal(t, e.Extract(orders, nil), e.Extract(orders, nil))
}
