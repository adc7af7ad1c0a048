package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gstledger/internal/gst"
	"gstledger/internal/logger"
)

var gstCmd = &cobra.Command{
	Use:   "gst",
	Short: "Compute GSTR1, GSTR3B and the HSN summary",
	Long: `Compute the GSTR1 outward supply buckets (B2B, B2C large, B2C small), the GSTR3B
summary with input tax credit and net tax payable, and the HSN-wise summary from
all non-cancelled sales.

Orders whose subtotal does not match their line items are listed as warnings.`,
	Example: `  # Print a summary of the GST reports
  gstledger gst --input data/snapshot.json

  # Print the full reports as JSON
  gstledger gst --json`,
	RunE: runGST,
}

func init() {
	rootCmd.AddCommand(gstCmd)

	gstCmd.Flags().Bool("json", false, "Output the full reports as JSON")
}

func runGST(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("gst")

	asJSON, _ := cmd.Flags().GetBool("json")

	res, err := compute(cmd)
	if err != nil {
		return fmt.Errorf("failed to compute GST reports: %w", err)
	}

	log.Info().
		Int("b2b", len(res.GST.GSTR1.B2B)).
		Int("b2c_large", len(res.GST.GSTR1.B2CLarge)).
		Int("b2c_small", len(res.GST.GSTR1.B2CSmall)).
		Int("warnings", len(res.GST.Warnings)).
		Msg("GST reports computed")

	if asJSON {
		return printJSON(res.GST)
	}

	printGST(res.Settings.TradeName, res.Settings.HomeState, res.GST)
	return nil
}

func printGST(tradeName, homeState string, report gst.Report) {
	printBanner("GST RETURNS")
	fmt.Printf("Business: %s (%s)\n", tradeName, homeState)

	printSection("GSTR1")
	fmt.Printf("B2B invoices:       %d\n", len(report.GSTR1.B2B))
	fmt.Printf("B2C large invoices: %d\n", len(report.GSTR1.B2CLarge))
	fmt.Printf("B2C small invoices: %d\n", len(report.GSTR1.B2CSmall))

	out := report.GSTR3B.OutwardSupplies
	itc := report.GSTR3B.EligibleITC
	payable := report.GSTR3B.TaxPayable

	printSection("GSTR3B")
	fmt.Printf("%-20s %16s %14s %14s %14s\n", "", "Taxable", "IGST", "CGST", "SGST")
	fmt.Printf("%-20s %16s %14s %14s %14s\n", "Outward supplies", rupees(out.Taxable), rupees(out.IGST), rupees(out.CGST), rupees(out.SGST))
	fmt.Printf("%-20s %16s %14s %14s %14s\n", "Eligible ITC", rupees(itc.Taxable), rupees(itc.IGST), rupees(itc.CGST), rupees(itc.SGST))
	fmt.Printf("%-20s %16s %14s %14s %14s\n", "Tax payable", "", rupees(payable.IGST), rupees(payable.CGST), rupees(payable.SGST))

	if len(report.HSN) > 0 {
		printSection("HSN SUMMARY")
		for _, row := range report.HSN {
			fmt.Printf("%-10s qty %-10s taxable %-14s\n", row.HSN, row.Quantity.String(), rupees(row.TaxableValue))
		}
	}

	if len(report.Warnings) > 0 {
		printSection("WARNINGS")
		for _, warning := range report.Warnings {
			fmt.Printf("⚠️  %s\n", warning)
		}
	}
	fmt.Println(strings.Repeat("=", 80))
}
