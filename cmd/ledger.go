package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gstledger/internal/logger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the running-balance ledger",
	Long: `Print the ledger built from expenses, sale revenue, commissions, purchase orders
and legacy inventory purchases, newest entry first with its running balance.`,
	Example: `  # Latest 20 entries
  gstledger ledger --limit 20

  # Full ledger as JSON
  gstledger ledger --json`,
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().Bool("json", false, "Output the ledger as JSON")
	ledgerCmd.Flags().Int("limit", 0, "Show only the newest N entries (0 = all)")
}

func runLedger(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ledger")

	asJSON, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	res, err := compute(cmd)
	if err != nil {
		return fmt.Errorf("failed to build ledger: %w", err)
	}

	book := res.Ledger
	log.Info().Int("entries", len(book.Entries)).Msg("Ledger built")

	if limit > 0 && limit < len(book.Entries) {
		book.Entries = book.Entries[:limit]
	}

	if asJSON {
		return printJSON(book)
	}

	printBanner("LEDGER")
	fmt.Printf("%-10s %-14s %-36s %12s %12s %14s\n", "Date", "ID", "Description", "Debit", "Credit", "Balance")
	for _, e := range book.Entries {
		fmt.Printf("%-10s %-14s %-36.36s %12s %12s %14s\n",
			e.Date.Format("2006-01-02"), e.ID, e.Description,
			e.Debit.StringFixed(2), e.Credit.StringFixed(2), e.Balance.StringFixed(2))
	}
	printSection("TOTALS")
	fmt.Printf("Debits:          %s\n", rupees(res.Ledger.TotalDebit))
	fmt.Printf("Credits:         %s\n", rupees(res.Ledger.TotalCredit))
	fmt.Printf("Closing balance: %s\n", rupees(res.Ledger.ClosingBalance))
	return nil
}
