// Package party accumulates payable and receivable stats per counterparty: vendors from
// direct purchases, commission earners from order commission splits, and buyers from sales.
package party

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gstledger/pkg/models"
)

// Roles
const (
	RoleVendor          = "vendor"
	RoleDesigner        = "designer"
	RoleStitchingMaster = "stitching-master"
	RoleVendorAgent     = "vendor-agent"
	RoleBuyerAgent      = "buyer-agent"
	RoleBuyer           = "buyer"
)

// Transaction types
const (
	TypeDirectPurchase     = "Direct Purchase"
	TypeCommission         = "Commission"
	TypePurchaseCommission = "Purchase + Commission"
	TypeSale               = "Sale"
)

// Synthetic id prefixes for parties missing from the directories.
const (
	TempPrefix       = "TEMP-"
	CommissionPrefix = "COMMISSION-"
)

// UnknownName labels records that carry neither an id nor a name.
const UnknownName = "Unknown"

// Party holds the aggregated stats of one counterparty.
// TotalAmount is always TotalPurchases plus CommissionEarned.
type Party struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Role             string          `json:"role"`
	TransactionType  string          `json:"transactionType"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TotalPurchases   decimal.Decimal `json:"totalPurchases"`
	CommissionEarned decimal.Decimal `json:"commissionEarned"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	AmountPending    decimal.Decimal `json:"amountPending"`
	PendingCount     int             `json:"pendingCount"`
	TransactionCount int             `json:"transactionCount"`
	LastTransaction  time.Time       `json:"lastTransaction"`
}

func newParty(id, name, role string) *Party {
	return &Party{
		ID:               id,
		Name:             name,
		Role:             role,
		TotalAmount:      decimal.Zero,
		TotalPurchases:   decimal.Zero,
		CommissionEarned: decimal.Zero,
		AmountPaid:       decimal.Zero,
		AmountPending:    decimal.Zero,
	}
}

// HasCommission reports whether any commission was credited to the party.
func (p *Party) HasCommission() bool {
	return p.TransactionType == TypeCommission || p.TransactionType == TypePurchaseCommission
}

func (p *Party) record(s split, at time.Time) {
	p.AmountPaid = p.AmountPaid.Add(s.paid)
	p.AmountPending = p.AmountPending.Add(s.pending)
	if s.open {
		p.PendingCount++
	}
	p.TransactionCount++
	if at.After(p.LastTransaction) {
		p.LastTransaction = at
	}
}

// split divides one amount into its paid and pending parts.
type split struct {
	paid    decimal.Decimal
	pending decimal.Decimal
	open    bool
}

var two = decimal.NewFromInt(2)

// splitByStatus applies a payment status to an amount. Statuses listed in settled count
// as fully paid; partial is halved; everything else, including an empty status, is pending.
func splitByStatus(amount decimal.Decimal, status string, settled ...string) split {
	status = strings.ToLower(strings.TrimSpace(status))
	for _, s := range settled {
		if status == s {
			return split{paid: amount, pending: decimal.Zero}
		}
	}
	if status == models.PaymentPartial {
		paid := models.RoundMoney(amount.Div(two))
		return split{paid: paid, pending: amount.Sub(paid), open: true}
	}
	return split{paid: decimal.Zero, pending: amount, open: true}
}
