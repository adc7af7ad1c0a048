// Package export renders computed results into flat tables for accounting tools: a Tally
// sales register, accounting-platform sales and purchase imports, the ledger and the HSN
// summary. Tables are written as CSV, as an XLSX workbook, or pushed to a Google Sheet.
package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gstledger/internal/engine"
	"gstledger/internal/gst"
	"gstledger/internal/records"
	"gstledger/internal/tax"
)

// Table names
const (
	TableTally     = "tally"
	TableSales     = "sales"
	TablePurchases = "purchases"
	TableLedger    = "ledger"
	TableHSN       = "hsn"
)

// Date layouts
const (
	tallyDateLayout = "02-01-2006"
	isoDateLayout   = "2006-01-02"
)

// PurchaseAccount is the expense account purchase bills are booked against.
const PurchaseAccount = "Cost of Goods Sold"

var (
	TallyHeader     = []string{"Date", "Voucher Type", "Voucher No", "Party Name", "GSTIN/UIN", "Place of Supply", "Product Name", "Qty", "Rate", "Taxable Value", "CGST Amount", "SGST Amount", "IGST Amount", "Total Invoice Amount"}
	SalesHeader     = []string{"Invoice Number", "Invoice Date", "Customer Name", "Place of Supply", "Item Name", "Item Price", "Item Tax %", "Item Tax Amount", "Total"}
	PurchasesHeader = []string{"Bill Number", "Bill Date", "Vendor Name", "Item Name", "Account", "Quantity", "Rate", "Tax %", "Total"}
	LedgerHeader    = []string{"Date", "ID", "Description", "Party", "Debit", "Credit", "Balance", "Payment Method"}
	HSNHeader       = []string{"HSN", "Description", "Quantity", "Total Value", "Taxable Value", "IGST", "CGST", "SGST"}
)

// Table is one export: a header row and string cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Names lists every table Build can produce, in workbook order.
func Names() []string {
	return []string{TableTally, TableSales, TablePurchases, TableLedger, TableHSN}
}

// Build renders the named table from res.
func Build(name string, res *engine.Result) (Table, error) {
	switch name {
	case TableTally:
		return Tally(res), nil
	case TableSales:
		return Sales(res), nil
	case TablePurchases:
		return Purchases(res), nil
	case TableLedger:
		return Ledger(res), nil
	case TableHSN:
		return HSN(res), nil
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
}

// All renders every table.
func All(res *engine.Result) []Table {
	tables := make([]Table, 0, len(Names()))
	for _, name := range Names() {
		t, _ := Build(name, res)
		tables = append(tables, t)
	}
	return tables
}

// invoiceLine is one sold line joined with its invoice's GST entry.
type invoiceLine struct {
	entry     gst.Entry
	item      string
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	breakdown tax.Breakdown
}

// invoiceLines expands every reported invoice into its line items, oldest invoice first.
// Lines are broken down at the invoice rate and locality. An invoice without items
// becomes a single line carrying the invoice totals.
func invoiceLines(res *engine.Result) []invoiceLine {
	byOrder := make(map[string][]records.SalesRecord)
	for _, r := range res.Sales {
		byOrder[r.OrderID] = append(byOrder[r.OrderID], r)
	}

	entries := append([]gst.Entry(nil), res.GST.GSTR1.All...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].InvoiceDate.Before(entries[j].InvoiceDate)
	})

	var lines []invoiceLine
	for _, e := range entries {
		items := byOrder[e.OrderID]
		if len(items) == 0 {
			lines = append(lines, invoiceLine{
				entry:     e,
				quantity:  decimal.Zero,
				unitPrice: e.InvoiceValue,
				breakdown: tax.Breakdown{
					TaxableValue: e.TaxableValue,
					TaxAmount:    e.TaxAmount,
					CGST:         e.CGST,
					SGST:         e.SGST,
					IGST:         e.IGST,
					IsInterState: e.IsInterState,
				},
			})
			continue
		}

		sort.SliceStable(items, func(i, j int) bool { return items[i].LineIndex < items[j].LineIndex })
		for _, r := range items {
			lines = append(lines, invoiceLine{
				entry:     e,
				item:      r.ItemName,
				quantity:  r.Quantity,
				unitPrice: r.UnitPrice,
				breakdown: tax.Split(r.Revenue, e.Rate, e.IsInterState),
			})
		}
	}
	return lines
}

// Tally renders the sales register in Tally's voucher import layout.
func Tally(res *engine.Result) Table {
	t := Table{Name: TableTally, Header: TallyHeader}
	for _, l := range invoiceLines(res) {
		t.Rows = append(t.Rows, []string{
			formatDate(l.entry.InvoiceDate, tallyDateLayout),
			"Sales",
			l.entry.InvoiceNumber,
			l.entry.CustomerName,
			l.entry.GSTIN,
			l.entry.PlaceOfSupply,
			l.item,
			l.quantity.String(),
			money(l.unitPrice),
			money(l.breakdown.TaxableValue),
			money(l.breakdown.CGST),
			money(l.breakdown.SGST),
			money(l.breakdown.IGST),
			money(l.entry.InvoiceValue),
		})
	}
	return t
}

// Sales renders the accounting-platform sales invoice import.
func Sales(res *engine.Result) Table {
	t := Table{Name: TableSales, Header: SalesHeader}
	for _, l := range invoiceLines(res) {
		t.Rows = append(t.Rows, []string{
			l.entry.InvoiceNumber,
			formatDate(l.entry.InvoiceDate, isoDateLayout),
			l.entry.CustomerName,
			l.entry.PlaceOfSupply,
			l.item,
			money(l.unitPrice),
			l.entry.Rate.String(),
			money(l.breakdown.TaxAmount),
			money(l.breakdown.TaxableValue.Add(l.breakdown.TaxAmount)),
		})
	}
	return t
}

// Purchases renders the accounting-platform bill import, one row per purchase record.
func Purchases(res *engine.Result) Table {
	t := Table{Name: TablePurchases, Header: PurchasesHeader}
	for _, p := range res.Purchases {
		bill := p.OrderID
		if bill == "" {
			bill = p.ID
		}
		t.Rows = append(t.Rows, []string{
			bill,
			formatDate(p.Date, isoDateLayout),
			p.VendorName,
			p.ItemName,
			PurchaseAccount,
			p.Quantity.String(),
			money(p.UnitCost),
			gst.ITCRate.String(),
			money(p.TotalCost),
		})
	}
	return t
}

// Ledger renders ledger entries most recent first, as the ledger holds them.
func Ledger(res *engine.Result) Table {
	t := Table{Name: TableLedger, Header: LedgerHeader}
	for _, e := range res.Ledger.Entries {
		t.Rows = append(t.Rows, []string{
			formatDate(e.Date, isoDateLayout),
			e.ID,
			e.Description,
			e.Party,
			money(e.Debit),
			money(e.Credit),
			money(e.Balance),
			e.PaymentMethod,
		})
	}
	return t
}

// HSN renders the HSN-wise outward supply summary.
func HSN(res *engine.Result) Table {
	t := Table{Name: TableHSN, Header: HSNHeader}
	for _, s := range res.GST.HSN {
		t.Rows = append(t.Rows, []string{
			s.HSN,
			s.Description,
			s.Quantity.String(),
			money(s.TotalValue),
			money(s.TaxableValue),
			money(s.IGST),
			money(s.CGST),
			money(s.SGST),
		})
	}
	return t
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
