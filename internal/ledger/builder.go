// Package ledger merges expenses, sales and purchases into one chronological list of
// debit/credit entries with a running balance.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gstledger/internal/logger"
	"gstledger/internal/records"
	"gstledger/pkg/models"
)

// Entry kinds
const (
	KindExpense    = "expense"
	KindSale       = "sale"
	KindCommission = "commission"
	KindPurchase   = "purchase"
	KindLegacy     = "legacy-purchase"
)

// Entry is one ledger line. Exactly one of Debit and Credit is non-zero.
type Entry struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Party         string          `json:"party"`
	PaymentMethod string          `json:"paymentMethod"`
	Balance       decimal.Decimal `json:"balance"`
}

// Ledger is the built ledger. Entries are most recent first; balances were accumulated
// oldest first.
type Ledger struct {
	Entries        []Entry         `json:"entries"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// Builder builds ledgers.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a ledger builder.
func NewBuilder() *Builder {
	return &Builder{
		log: logger.WithComponent("ledger"),
	}
}

// Build collects entries in the order expenses, sales with their commission,
// purchase orders, legacy purchases. Same-date entries keep that order.
func (b *Builder) Build(orders []models.Order, expenses []models.Expense, purchases []records.PurchaseRecord) Ledger {
	var entries []Entry
	dropped := 0
	add := func(e Entry) {
		if e.Debit.IsZero() && e.Credit.IsZero() {
			dropped++
			return
		}
		entries = append(entries, e)
	}

	for _, exp := range expenses {
		add(Entry{
			ID:            exp.ID,
			Kind:          KindExpense,
			Date:          exp.Date.Time,
			Description:   expenseDescription(exp),
			Debit:         positive(exp.Amount.Decimal()),
			Credit:        decimal.Zero,
			Party:         exp.Payee,
			PaymentMethod: exp.PaymentMethod,
		})
	}

	orderTotals := make(map[string]decimal.Decimal)
	for _, p := range purchases {
		if p.Source == records.SourceOrder {
			orderTotals[p.OrderID] = orderTotals[p.OrderID].Add(p.TotalCost)
		}
	}

	var purchaseEntries []Entry
	for i := range orders {
		order := &orders[i]
		if !order.IsSale() {
			total, ok := orderTotals[order.ID]
			if !ok || total.IsZero() {
				total = order.Subtotal.Decimal()
			}
			purchaseEntries = append(purchaseEntries, Entry{
				ID:            "PO-" + order.ID,
				Kind:          KindPurchase,
				Date:          order.Date.Time,
				Description:   fmt.Sprintf("Purchase order %s", order.InvoiceRef()),
				Debit:         positive(total),
				Credit:        decimal.Zero,
				Party:         order.VendorName,
				PaymentMethod: order.PaymentMethod,
			})
			continue
		}

		add(Entry{
			ID:            "SALE-" + order.ID,
			Kind:          KindSale,
			Date:          order.Date.Time,
			Description:   fmt.Sprintf("Sale invoice %s", order.InvoiceRef()),
			Debit:         decimal.Zero,
			Credit:        positive(order.Subtotal.Decimal()),
			Party:         order.BuyerName,
			PaymentMethod: order.PaymentMethod,
		})

		commission := CommissionTotal(order)
		if commission.IsPositive() {
			add(Entry{
				ID:            "COMM-" + order.ID,
				Kind:          KindCommission,
				Date:          order.Date.Time,
				Description:   fmt.Sprintf("Commission on invoice %s", order.InvoiceRef()),
				Debit:         commission,
				Credit:        decimal.Zero,
				Party:         commissionParties(order),
				PaymentMethod: order.PaymentMethod,
			})
		}
	}
	for _, e := range purchaseEntries {
		add(e)
	}

	for _, p := range purchases {
		if p.Source != records.SourceLegacy {
			continue
		}
		add(Entry{
			ID:          "LEG-" + p.ID,
			Kind:        KindLegacy,
			Date:        p.Date,
			Description: fmt.Sprintf("Stock purchase: %s", p.ItemName),
			Debit:       positive(p.TotalCost),
			Credit:      decimal.Zero,
			Party:       p.VendorName,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	result := Ledger{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].Credit).Sub(entries[i].Debit)
		entries[i].Balance = balance
		result.TotalDebit = result.TotalDebit.Add(entries[i].Debit)
		result.TotalCredit = result.TotalCredit.Add(entries[i].Credit)
	}
	result.ClosingBalance = balance

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	result.Entries = entries

	b.log.Debug().
		Int("entries", len(entries)).
		Int("dropped_zero_entries", dropped).
		Str("closing_balance", balance.StringFixed(2)).
		Msg("Ledger built")

	return result
}

// CommissionTotal sums an order's commission lines, ignoring non-positive amounts and
// lines that name no party.
func CommissionTotal(order *models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, line := range order.CommissionDistribution {
		if strings.TrimSpace(line.Party) == "" {
			continue
		}
		if amount := line.Amount.Decimal(); amount.IsPositive() {
			total = total.Add(amount)
		}
	}
	return total
}

func commissionParties(order *models.Order) string {
	names := make([]string, 0, len(order.CommissionDistribution))
	for _, line := range order.CommissionDistribution {
		if name := strings.TrimSpace(line.Party); name != "" && line.Amount.Decimal().IsPositive() {
			names = append(names, name)
		}
	}
	return strings.Join(names, "; ")
}

func expenseDescription(exp models.Expense) string {
	switch {
	case exp.Category != "" && exp.Description != "":
		return fmt.Sprintf("%s: %s", exp.Category, exp.Description)
	case exp.Description != "":
		return exp.Description
	case exp.Category != "":
		return exp.Category
	default:
		return "Expense"
	}
}

// Negative source amounts carry no meaning for a one-sided entry and are dropped.
func positive(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
