// Package summary rolls records and party stats up into P&L totals, payables,
// receivables, category sales, a trailing monthly trend and a vendor leaderboard.
package summary

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gstledger/internal/logger"
	"gstledger/internal/party"
	"gstledger/internal/records"
	"gstledger/pkg/models"
)

// TrendMonths is the length of the trailing monthly trend.
const TrendMonths = 12

// LeaderboardSize caps the vendor leaderboard.
const LeaderboardSize = 10

// Input is everything one rollup needs. All slices are read, never modified.
type Input struct {
	Orders    []models.Order
	Sales     []records.SalesRecord
	Purchases []records.PurchaseRecord
	Parties   []party.Party
	Buyers    []party.Party
	AsOf      time.Time
}

// CategoryTotal is the sales revenue of one line-item category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Quantity decimal.Decimal `json:"quantity"`
}

// MonthPoint is one month of the trailing trend.
type MonthPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// LeaderboardEntry ranks a party by purchases plus commission.
type LeaderboardEntry struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Role             string          `json:"role"`
	TotalPurchases   decimal.Decimal `json:"totalPurchases"`
	CommissionEarned decimal.Decimal `json:"commissionEarned"`
	Total            decimal.Decimal `json:"total"`
}

// Summary is the financial rollup.
type Summary struct {
	TotalRevenue     decimal.Decimal    `json:"totalRevenue"`
	TotalCost        decimal.Decimal    `json:"totalCost"`
	TotalCommissions decimal.Decimal    `json:"totalCommissions"`
	GrossProfit      decimal.Decimal    `json:"grossProfit"`
	NetProfit        decimal.Decimal    `json:"netProfit"`
	ProfitMargin     decimal.Decimal    `json:"profitMargin"`
	Payables         decimal.Decimal    `json:"payables"`
	Receivables      decimal.Decimal    `json:"receivables"`
	SaleCount        int                `json:"saleCount"`
	PurchaseCount    int                `json:"purchaseCount"`
	Categories       []CategoryTotal    `json:"categories"`
	MonthlyTrend     []MonthPoint       `json:"monthlyTrend"`
	TopVendors       []LeaderboardEntry `json:"topVendors"`
}

// Engine computes summaries.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a summary engine.
func NewEngine() *Engine {
	return &Engine{
		log: logger.WithComponent("summary"),
	}
}

// Summarize computes the rollup. Profit margin is net profit over revenue, as a ratio
// rounded to 4 places, and zero when there is no revenue.
func (e *Engine) Summarize(in Input) Summary {
	s := Summary{
		TotalRevenue:     decimal.Zero,
		TotalCost:        decimal.Zero,
		TotalCommissions: decimal.Zero,
		ProfitMargin:     decimal.Zero,
		Payables:         decimal.Zero,
		Receivables:      decimal.Zero,
	}

	for i := range in.Orders {
		if in.Orders[i].IsSale() {
			s.TotalRevenue = s.TotalRevenue.Add(in.Orders[i].Subtotal.Decimal())
			s.SaleCount++
		}
	}
	for _, p := range in.Purchases {
		s.TotalCost = s.TotalCost.Add(p.TotalCost)
	}
	s.PurchaseCount = len(in.Purchases)

	for _, p := range in.Parties {
		if p.HasCommission() {
			s.TotalCommissions = s.TotalCommissions.Add(p.CommissionEarned)
		}
		s.Payables = s.Payables.Add(p.AmountPending)
	}
	for _, b := range in.Buyers {
		s.Receivables = s.Receivables.Add(b.AmountPending)
	}

	s.GrossProfit = s.TotalRevenue.Sub(s.TotalCost)
	s.NetProfit = s.GrossProfit.Sub(s.TotalCommissions)
	if !s.TotalRevenue.IsZero() {
		s.ProfitMargin = s.NetProfit.DivRound(s.TotalRevenue, 4)
	}

	s.Categories = categories(in.Sales)
	s.MonthlyTrend = trend(in.Sales, in.Purchases, in.AsOf)
	s.TopVendors = leaderboard(in.Parties)

	e.log.Debug().
		Str("revenue", s.TotalRevenue.StringFixed(2)).
		Str("cost", s.TotalCost.StringFixed(2)).
		Str("commissions", s.TotalCommissions.StringFixed(2)).
		Str("net_profit", s.NetProfit.StringFixed(2)).
		Msg("Summary computed")

	return s
}

func categories(sales []records.SalesRecord) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, r := range sales {
		name := r.Category
		if name == "" {
			name = records.UncategorizedLabel
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryTotal{Category: name, Total: decimal.Zero, Quantity: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(r.Revenue)
		out[i].Quantity = out[i].Quantity.Add(r.Quantity)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	if out == nil {
		out = []CategoryTotal{}
	}
	return out
}

// trend returns TrendMonths points ending with the month of asOf, oldest first.
// Months without activity are zero.
func trend(sales []records.SalesRecord, purchases []records.PurchaseRecord, asOf time.Time) []MonthPoint {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	last := monthStart(asOf)
	first := last.AddDate(0, -(TrendMonths - 1), 0)

	points := make([]MonthPoint, TrendMonths)
	index := make(map[string]int, TrendMonths)
	for i := 0; i < TrendMonths; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		points[i] = MonthPoint{Month: key, Revenue: decimal.Zero, Cost: decimal.Zero}
		index[key] = i
	}

	for _, r := range sales {
		if i, ok := index[monthKey(r.Date, asOf.Location())]; ok {
			points[i].Revenue = points[i].Revenue.Add(r.Revenue)
		}
	}
	for _, p := range purchases {
		if i, ok := index[monthKey(p.Date, asOf.Location())]; ok {
			points[i].Cost = points[i].Cost.Add(p.TotalCost)
		}
	}
	for i := range points {
		points[i].Profit = points[i].Revenue.Sub(points[i].Cost)
	}
	return points
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func monthKey(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("2006-01")
}

func leaderboard(parties []party.Party) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(parties))
	for _, p := range parties {
		out = append(out, LeaderboardEntry{
			ID:               p.ID,
			Name:             p.Name,
			Role:             p.Role,
			TotalPurchases:   p.TotalPurchases,
			CommissionEarned: p.CommissionEarned,
			Total:            p.TotalPurchases.Add(p.CommissionEarned),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > LeaderboardSize {
		out = out[:LeaderboardSize]
	}
	return out
}
