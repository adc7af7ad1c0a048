// Package engine runs one full recomputation over a snapshot: record extraction, ledger,
// GST reports, party stats and the financial summary.
package engine

import (
	"strings"
	"time"

	"gstledger/internal/gst"
	"gstledger/internal/ledger"
	"gstledger/internal/logger"
	"gstledger/internal/party"
	"gstledger/internal/records"
	"gstledger/internal/summary"
	"gstledger/internal/tax"
	"gstledger/pkg/models"
)

// Options configures one recomputation. The zero value uses the snapshot settings (or the
// defaults), the current time, substring locality and label role inference.
type Options struct {
	Settings *models.CompanySettings
	AsOf     time.Time
	Locality tax.LocalityResolver
	Roles    party.RoleClassifier
}

// Result is everything derived from one snapshot.
type Result struct {
	Settings  models.CompanySettings   `json:"settings"`
	AsOf      time.Time                `json:"asOf"`
	Sales     []records.SalesRecord    `json:"sales"`
	Purchases []records.PurchaseRecord `json:"purchases"`
	Ledger    ledger.Ledger            `json:"ledger"`
	GST       gst.Report               `json:"gst"`
	Parties   []party.Party            `json:"parties"`
	Buyers    []party.Party            `json:"buyers"`
	Summary   summary.Summary          `json:"summary"`
}

// Compute derives a Result from snap. It allocates all state per call and never modifies
// snap, so calling it twice with the same inputs yields equal results.
func Compute(snap *models.Snapshot, opts Options) *Result {
	if snap == nil {
		snap = &models.Snapshot{}
	}

	settings := snap.EffectiveSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	home := strings.TrimSpace(settings.HomeState)
	if home == "" {
		home = models.DefaultSettings().HomeState
	}
	calc := tax.NewCalculator(home, settings.GSTRate())
	if opts.Locality != nil {
		calc.Locality = opts.Locality
	}

	log := logger.WithComponent("engine")
	log.Debug().
		Int("orders", len(snap.Orders)).
		Int("expenses", len(snap.Expenses)).
		Int("legacy_rows", len(snap.Products)).
		Str("home_state", home).
		Time("as_of", asOf).
		Msg("Starting recomputation")

	extracted := records.NewExtractor().Extract(snap.Orders, snap.Products)

	reconciler := party.NewReconciler(snap.Vendors, snap.Buyers, opts.Roles)
	parties := reconciler.Reconcile(snap.Orders, extracted.Purchases)
	buyers := reconciler.Buyers(snap.Orders)

	result := &Result{
		Settings:  settings,
		AsOf:      asOf,
		Sales:     extracted.Sales,
		Purchases: extracted.Purchases,
		Ledger:    ledger.NewBuilder().Build(snap.Orders, snap.Expenses, extracted.Purchases),
		GST:       gst.NewAggregator(calc, snap.Buyers).Build(snap.Orders, extracted.Purchases),
		Parties:   parties,
		Buyers:    buyers,
	}
	result.Summary = summary.NewEngine().Summarize(summary.Input{
		Orders:    snap.Orders,
		Sales:     extracted.Sales,
		Purchases: extracted.Purchases,
		Parties:   parties,
		Buyers:    buyers,
		AsOf:      asOf,
	})

	log.Info().
		Int("sales", len(result.Sales)).
		Int("purchases", len(result.Purchases)).
		Int("ledger_entries", len(result.Ledger.Entries)).
		Int("parties", len(result.Parties)).
		Int("gst_warnings", len(result.GST.Warnings)).
		Msg("Recomputation completed")

	return result
}
