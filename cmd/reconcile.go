package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gstledger/internal/logger"
	"gstledger/internal/party"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile vendor, agent and buyer balances",
	Long: `Reconcile direct purchases and commission distributions into per-party totals:
what each vendor, designer, stitching master and agent has been paid and is still
owed, and what each buyer has paid and still owes.

Commission recipients are matched to the vendor directory by name; parties that
cannot be matched get a synthetic id.`,
	Example: `  # Payables and receivables
  gstledger reconcile

  # Only parties with something pending
  gstledger reconcile --pending-only

  # As JSON
  gstledger reconcile --json`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().Bool("json", false, "Output parties and buyers as JSON")
	reconcileCmd.Flags().Bool("pending-only", false, "Show only parties with a pending amount")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("reconcile")

	asJSON, _ := cmd.Flags().GetBool("json")
	pendingOnly, _ := cmd.Flags().GetBool("pending-only")

	res, err := compute(cmd)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	parties := filterPending(res.Parties, pendingOnly)
	buyers := filterPending(res.Buyers, pendingOnly)

	log.Info().
		Int("parties", len(parties)).
		Int("buyers", len(buyers)).
		Bool("pending_only", pendingOnly).
		Msg("Reconciliation completed")

	if asJSON {
		return printJSON(map[string]interface{}{
			"parties": parties,
			"buyers":  buyers,
		})
	}

	printBanner("RECONCILIATION")

	printSection("PAYABLES")
	printParties(parties)

	printSection("RECEIVABLES")
	printParties(buyers)

	fmt.Println(strings.Repeat("=", 80))
	return nil
}

func filterPending(parties []party.Party, pendingOnly bool) []party.Party {
	if !pendingOnly {
		return parties
	}
	out := make([]party.Party, 0, len(parties))
	for _, p := range parties {
		if p.AmountPending.IsPositive() {
			out = append(out, p)
		}
	}
	return out
}

func printParties(parties []party.Party) {
	if len(parties) == 0 {
		fmt.Println("Nothing to show.")
		return
	}
	fmt.Printf("%-28s %-16s %-22s %12s %12s %12s\n", "Name", "Role", "Type", "Total", "Paid", "Pending")
	for _, p := range parties {
		fmt.Printf("%-28.28s %-16s %-22s %12s %12s %12s\n",
			p.Name, p.Role, p.TransactionType,
			p.TotalAmount.StringFixed(2), p.AmountPaid.StringFixed(2), p.AmountPending.StringFixed(2))
	}
}
