// Package records flattens orders and legacy inventory rows into per-line sales and
// purchase records. Nothing is pro-rated: every record carries its own line values.
package records

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gstledger/internal/logger"
	"gstledger/pkg/models"
)

// Purchase record sources
const (
	SourceOrder  = "order"
	SourceLegacy = "legacy"
)

// LegacyVendorID is the synthetic vendor id assigned to legacy inventory rows.
const LegacyVendorID = "legacy"

// LegacyVendorName is used when a legacy row does not name its supplier.
const LegacyVendorName = "Legacy Inventory"

// SalesRecord is one sold line item.
type SalesRecord struct {
	OrderID       string          `json:"orderId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	LineIndex     int             `json:"lineIndex"`
	Date          time.Time       `json:"date"`
	BuyerID       string          `json:"buyerId"`
	BuyerName     string          `json:"buyerName"`
	ItemName      string          `json:"itemName"`
	Category      string          `json:"category"`
	HSN           string          `json:"hsn"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Revenue       decimal.Decimal `json:"revenue"`
	Cost          decimal.Decimal `json:"cost"`
	Profit        decimal.Decimal `json:"profit"`
	PaymentStatus string          `json:"paymentStatus"`
}

// PurchaseRecord is one purchased line item, from a purchase order or a legacy row.
type PurchaseRecord struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"orderId,omitempty"`
	LineIndex     int             `json:"lineIndex"`
	Source        string          `json:"source"`
	Date          time.Time       `json:"date"`
	VendorID      string          `json:"vendorId"`
	VendorName    string          `json:"vendorName"`
	ItemName      string          `json:"itemName"`
	Category      string          `json:"category"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	PaymentStatus string          `json:"paymentStatus"`
}

// Result holds both record lists, most recent first.
type Result struct {
	Sales     []SalesRecord
	Purchases []PurchaseRecord
}

// Extractor classifies orders and flattens their line items.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		log: logger.WithComponent("record-extractor"),
	}
}

// Extract flattens live orders and legacy rows. The caller must already have removed
// soft-deleted orders.
func (e *Extractor) Extract(orders []models.Order, legacy []models.LegacyPurchase) Result {
	var result Result
	purchaseOrders := make(map[string]struct{})

	for i := range orders {
		order := &orders[i]
		if order.IsSale() {
			result.Sales = append(result.Sales, salesFromOrder(order)...)
			continue
		}
		purchaseOrders[order.ID] = struct{}{}
		result.Purchases = append(result.Purchases, purchasesFromOrder(order)...)
	}

	skipped := 0
	for i := range legacy {
		row := &legacy[i]
		if row.OrderID != "" {
			if _, ok := purchaseOrders[row.OrderID]; ok {
				skipped++
				continue
			}
		}
		result.Purchases = append(result.Purchases, purchaseFromLegacy(row))
	}

	sort.SliceStable(result.Sales, func(i, j int) bool {
		return result.Sales[i].Date.After(result.Sales[j].Date)
	})
	sort.SliceStable(result.Purchases, func(i, j int) bool {
		return result.Purchases[i].Date.After(result.Purchases[j].Date)
	})

	e.log.Debug().
		Int("orders", len(orders)).
		Int("legacy_rows", len(legacy)).
		Int("legacy_covered_by_orders", skipped).
		Int("sales_records", len(result.Sales)).
		Int("purchase_records", len(result.Purchases)).
		Msg("Records extracted")

	return result
}

func salesFromOrder(order *models.Order) []SalesRecord {
	records := make([]SalesRecord, 0, len(order.Items))
	for idx, item := range order.Items {
		qty := item.Quantity.Decimal()
		unitCost := item.CostPrice.Decimal()
		unitPrice := item.SellingPrice.Decimal()
		revenue := qty.Mul(unitPrice)
		cost := qty.Mul(unitCost)

		records = append(records, SalesRecord{
			OrderID:       order.ID,
			InvoiceNumber: order.InvoiceRef(),
			LineIndex:     idx,
			Date:          order.Date.Time,
			BuyerID:       order.BuyerID,
			BuyerName:     order.BuyerName,
			ItemName:      item.Name,
			Category:      categoryOrDefault(item.Category),
			HSN:           strings.TrimSpace(item.HSN),
			Quantity:      qty,
			UnitCost:      unitCost,
			UnitPrice:     unitPrice,
			Revenue:       revenue,
			Cost:          cost,
			Profit:        revenue.Sub(cost),
			PaymentStatus: order.PaymentStatus,
		})
	}
	return records
}

func purchasesFromOrder(order *models.Order) []PurchaseRecord {
	records := make([]PurchaseRecord, 0, len(order.Items))
	for idx, item := range order.Items {
		qty := item.Quantity.Decimal()
		unitCost := item.CostPrice.Decimal()

		records = append(records, PurchaseRecord{
			ID:            fmt.Sprintf("%s-%d", order.ID, idx),
			OrderID:       order.ID,
			LineIndex:     idx,
			Source:        SourceOrder,
			Date:          order.Date.Time,
			VendorID:      order.VendorID,
			VendorName:    order.VendorName,
			ItemName:      item.Name,
			Category:      categoryOrDefault(item.Category),
			Quantity:      qty,
			UnitCost:      unitCost,
			TotalCost:     qty.Mul(unitCost),
			PaymentStatus: order.PaymentStatus,
		})
	}
	return records
}

func purchaseFromLegacy(row *models.LegacyPurchase) PurchaseRecord {
	qty := row.Quantity.Decimal()
	unitCost := row.CostPrice.Decimal()

	vendorName := strings.TrimSpace(row.VendorName)
	if vendorName == "" {
		vendorName = LegacyVendorName
	}

	return PurchaseRecord{
		ID:            row.ID,
		Source:        SourceLegacy,
		Date:          row.Date.Time,
		VendorID:      LegacyVendorID,
		VendorName:    vendorName,
		ItemName:      row.Name,
		Category:      categoryOrDefault(row.Category),
		Quantity:      qty,
		UnitCost:      unitCost,
		TotalCost:     qty.Mul(unitCost),
		PaymentStatus: models.PaymentDelivered,
	}
}

// UncategorizedLabel groups line items with no category.
const UncategorizedLabel = "Uncategorized"

func categoryOrDefault(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return UncategorizedLabel
}
