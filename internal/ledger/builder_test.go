package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/records"
	"gstledger/pkg/models"
)

func day(d int) models.Date {
	return models.NewDate(time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC))
}

func TestBuild_RunningBalanceScenario(t *testing.T) {
	expenses := []models.Expense{
		{ID: "E1", Date: day(1), Category: "Rent", Amount: models.NewNumber(5000), Payee: "Landlord"},
	}
	orders := []models.Order{
		{ID: "S1", Date: day(2), BuyerID: "B1", BuyerName: "Asha", Subtotal: models.NewNumber(20000)},
		{
			ID: "P1", Date: day(3), Type: models.OrderTypePurchase, VendorName: "Surat Mills",
			Items: []models.LineItem{{Name: "Silk", Quantity: models.NewNumber(4), CostPrice: models.NewNumber(2000)}},
		},
	}
	purchases := records.NewExtractor().Extract(orders, nil).Purchases

	l := NewBuilder().Build(orders, expenses, purchases)

	require.Len(t, l.Entries, 3)
	assert.Equal(t, "PO-P1", l.Entries[0].ID)
	assert.Equal(t, "7000", l.Entries[0].Balance.String())
	assert.Equal(t, "SALE-S1", l.Entries[1].ID)
	assert.Equal(t, "15000", l.Entries[1].Balance.String())
	assert.Equal(t, "E1", l.Entries[2].ID)
	assert.Equal(t, "-5000", l.Entries[2].Balance.String())

	assert.Equal(t, "7000", l.ClosingBalance.String())
	assert.Equal(t, "13000", l.TotalDebit.String())
	assert.Equal(t, "20000", l.TotalCredit.String())
}

func TestBuild_SameDateKeepsInsertionOrder(t *testing.T) {
	expenses := []models.Expense{
		{ID: "E1", Date: day(5), Amount: models.NewNumber(100)},
	}
	orders := []models.Order{
		{ID: "P1", Date: day(5), Type: models.OrderTypePurchase, Subtotal: models.NewNumber(300)},
		{
			ID: "S1", Date: day(5), BuyerID: "B1", Subtotal: models.NewNumber(1000),
			CommissionDistribution: []models.CommissionLine{
				{Party: "Ramesh (Vendor Agent)", Amount: models.NewNumber(50)},
				{Party: "Meena (Designer)", Amount: models.NewNumber(25)},
				{Party: "", Amount: models.NewNumber(0)},
			},
		},
	}
	legacy := []models.LegacyPurchase{
		{ID: "L1", Date: day(5), Name: "Old stock", Quantity: models.NewNumber(1), CostPrice: models.NewNumber(10)},
	}
	purchases := records.NewExtractor().Extract(orders, legacy).Purchases

	l := NewBuilder().Build(orders, expenses, purchases)

	var ascending []string
	for i := len(l.Entries) - 1; i >= 0; i-- {
		ascending = append(ascending, l.Entries[i].ID)
	}
	assert.Equal(t, []string{"E1", "SALE-S1", "COMM-S1", "PO-P1", "LEG-L1"}, ascending)

	comm := l.Entries[2]
	assert.Equal(t, KindCommission, comm.Kind)
	assert.Equal(t, "75", comm.Debit.String())
	assert.Equal(t, "Ramesh (Vendor Agent); Meena (Designer)", comm.Party)

	// PO-P1 has no line items, so the subtotal is used.
	assert.Equal(t, "300", l.Entries[1].Debit.String())
}

func TestBuild_PrefixBalancesMatchSums(t *testing.T) {
	var expenses []models.Expense
	var orders []models.Order
	for d := 1; d <= 10; d++ {
		expenses = append(expenses, models.Expense{ID: "E", Date: day(d), Amount: models.NewNumber(float64(d * 37))})
		orders = append(orders, models.Order{ID: "S", Date: day(11 - d), BuyerID: "B", Subtotal: models.NewNumber(float64(d * 101))})
	}

	l := NewBuilder().Build(orders, expenses, nil)

	credit, debit := decimal.Zero, decimal.Zero
	for i := len(l.Entries) - 1; i >= 0; i-- {
		e := l.Entries[i]
		assert.True(t, e.Debit.IsZero() != e.Credit.IsZero(), "exactly one side must be set")
		credit = credit.Add(e.Credit)
		debit = debit.Add(e.Debit)
		assert.True(t, e.Balance.Equal(credit.Sub(debit)))
	}
	assert.True(t, l.ClosingBalance.Equal(l.TotalCredit.Sub(l.TotalDebit)))
}

func TestBuild_DropsZeroAndNegativeAmounts(t *testing.T) {
	expenses := []models.Expense{
		{ID: "E0", Date: day(1)},
		{ID: "E1", Date: day(1), Amount: models.NewNumber(-40)},
	}
	orders := []models.Order{{ID: "S0", Date: day(1), BuyerID: "B"}}

	l := NewBuilder().Build(orders, expenses, nil)
	assert.Empty(t, l.Entries)
	assert.True(t, l.ClosingBalance.IsZero())
}

func TestCommissionTotal(t *testing.T) {
	order := &models.Order{CommissionDistribution: []models.CommissionLine{
		{Party: "A", Amount: models.NewNumber(10.5)},
		{Party: "B", Amount: models.NewNumber(-3)},
		{Party: "C"},
		{Party: "  ", Amount: models.NewNumber(40)},
		{Amount: models.NewNumber(25)},
	}}
	assert.Equal(t, "10.5", CommissionTotal(order).String())
}
