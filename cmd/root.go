package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gstledger/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "gstledger",
	Short: "GST reports, ledger and commission reconciliation for a merchant back-office",
	Long: `gstledger recomputes statutory GST reports (GSTR1, GSTR3B, HSN summary), a
running-balance ledger, vendor and agent payables, buyer receivables and a
profit and loss summary from the orders, expenses and legacy inventory of a
merchant back-office.

Data comes from a JSON snapshot file or from Redis (see STORE_DRIVER), optionally
merged with legacy inventory rows from an XLSX workbook or a Google Sheet.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("input", "", "Snapshot JSON file (overrides STORE_DRIVER and uses the file store)")
	rootCmd.PersistentFlags().String("legacy-xlsx", "", "XLSX workbook with legacy inventory purchases (overrides LEGACY_XLSX)")
	rootCmd.PersistentFlags().String("as-of", "", "Reference date for the monthly trend (format: YYYY-MM-DD, default: today)")
}
