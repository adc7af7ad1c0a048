package party

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gstledger/internal/logger"
	"gstledger/internal/records"
	"gstledger/pkg/models"
)

// Reconciler builds party stats from direct purchases and order commission splits.
type Reconciler struct {
	vendors    []Known
	buyers     []Known
	classifier RoleClassifier
	log        zerolog.Logger
}

// NewReconciler creates a reconciler. A nil classifier uses LabelClassifier.
func NewReconciler(vendors []models.Vendor, buyers []models.Buyer, classifier RoleClassifier) *Reconciler {
	if classifier == nil {
		classifier = LabelClassifier{}
	}
	r := &Reconciler{
		vendors:    make([]Known, 0, len(vendors)),
		buyers:     make([]Known, 0, len(buyers)),
		classifier: classifier,
		log:        logger.WithComponent("commission-reconciler"),
	}
	for _, v := range vendors {
		r.vendors = append(r.vendors, Known{ID: v.ID, Name: v.Name})
	}
	for _, b := range buyers {
		r.buyers = append(r.buyers, Known{ID: b.ID, Name: b.Name})
	}
	return r
}

// Reconcile returns vendor-side party stats. Direct purchases are applied first so that a
// vendor who also earns commission is labelled "Purchase + Commission".
func (r *Reconciler) Reconcile(orders []models.Order, purchases []records.PurchaseRecord) []Party {
	resolver := NewResolver(r.vendors)

	for _, p := range purchases {
		r.applyPurchase(resolver, p)
	}

	lines, skipped := 0, 0
	for i := range orders {
		order := &orders[i]
		if !order.IsSale() {
			continue
		}
		for _, line := range order.CommissionDistribution {
			if r.applyCommission(resolver, order, line) {
				lines++
			} else {
				skipped++
			}
		}
	}

	parties := resolver.Parties()
	r.log.Debug().
		Int("purchases", len(purchases)).
		Int("commission_lines", lines).
		Int("skipped_lines", skipped).
		Int("parties", len(parties)).
		Msg("Party stats reconciled")

	return parties
}

func (r *Reconciler) applyPurchase(resolver *Resolver, p records.PurchaseRecord) {
	name := strings.TrimSpace(p.VendorName)
	// Legacy rows share one placeholder id, so their suppliers are told apart by name.
	id := p.VendorID
	if id == records.LegacyVendorID {
		id = ""
	}
	party, _ := resolver.Resolve(id, name, RoleVendor, TempPrefix+nameOrUnknown(name))

	amount := p.TotalCost
	party.TotalPurchases = party.TotalPurchases.Add(amount)
	party.TotalAmount = party.TotalAmount.Add(amount)
	party.record(splitByStatus(amount, p.PaymentStatus, models.PaymentPaid, models.PaymentDelivered), p.Date)

	if party.CommissionEarned.IsPositive() {
		party.TransactionType = TypePurchaseCommission
	} else {
		party.TransactionType = TypeDirectPurchase
	}
}

// applyCommission credits one commission line. Zero-amount and unnamed lines are skipped.
func (r *Reconciler) applyCommission(resolver *Resolver, order *models.Order, line models.CommissionLine) bool {
	amount := line.Amount.Decimal()
	label := strings.TrimSpace(line.Party)
	if !amount.IsPositive() || label == "" {
		return false
	}

	name := DisplayName(label)
	role := r.classifier.Classify(label)
	synthetic := fmt.Sprintf("%s%s-%d", CommissionPrefix, name, order.Date.UnixMilli())

	party, created := resolver.Resolve("", name, role, synthetic)
	if created {
		r.log.Debug().
			Str("party", name).
			Str("role", role).
			Str("order_id", order.ID).
			Msg("Created party for commission line")
	}

	party.CommissionEarned = party.CommissionEarned.Add(amount)
	party.TotalAmount = party.TotalAmount.Add(amount)
	party.record(splitByStatus(amount, order.PaymentStatus, models.PaymentPaid), order.Date.Time)

	if party.TotalPurchases.IsPositive() || party.TransactionType == TypeDirectPurchase {
		party.TransactionType = TypePurchaseCommission
	} else {
		party.TransactionType = TypeCommission
	}
	return true
}

// Buyers returns receivable stats per buyer over non-cancelled sale orders.
func (r *Reconciler) Buyers(orders []models.Order) []Party {
	resolver := NewResolver(r.buyers)

	for i := range orders {
		order := &orders[i]
		if !order.IsSale() || order.IsCancelled() {
			continue
		}
		name := strings.TrimSpace(order.BuyerName)
		buyer, _ := resolver.Resolve(order.BuyerID, name, RoleBuyer, TempPrefix+nameOrUnknown(name))

		amount := order.Subtotal.Decimal()
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		buyer.TotalPurchases = buyer.TotalPurchases.Add(amount)
		buyer.TotalAmount = buyer.TotalAmount.Add(amount)
		buyer.TransactionType = TypeSale
		buyer.record(splitByStatus(amount, order.PaymentStatus, models.PaymentPaid), order.Date.Time)
	}

	return resolver.Parties()
}

func nameOrUnknown(name string) string {
	if name == "" {
		return UnknownName
	}
	return name
}
