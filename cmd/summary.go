package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gstledger/internal/logger"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the profit and loss summary",
	Long: `Print revenue, cost, commissions, gross and net profit, payables and receivables,
the category breakdown, the trailing twelve month trend and the top vendors.`,
	Example: `  # Summary with the trend ending March 2025
  gstledger summary --as-of 2025-03-31

  # Summary as JSON
  gstledger summary --json`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().Bool("json", false, "Output the summary as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("summary")

	asJSON, _ := cmd.Flags().GetBool("json")

	res, err := compute(cmd)
	if err != nil {
		return fmt.Errorf("failed to compute summary: %w", err)
	}

	s := res.Summary
	log.Info().
		Int("sales", s.SaleCount).
		Int("purchases", s.PurchaseCount).
		Str("net_profit", s.NetProfit.String()).
		Msg("Summary computed")

	if asJSON {
		return printJSON(s)
	}

	printBanner("FINANCIAL SUMMARY")
	fmt.Printf("Revenue:      %s (%d sales)\n", rupees(s.TotalRevenue), s.SaleCount)
	fmt.Printf("Cost:         %s (%d purchases)\n", rupees(s.TotalCost), s.PurchaseCount)
	fmt.Printf("Commissions:  %s\n", rupees(s.TotalCommissions))
	fmt.Printf("Gross profit: %s\n", rupees(s.GrossProfit))
	fmt.Printf("Net profit:   %s\n", rupees(s.NetProfit))
	fmt.Printf("Margin:       %s%%\n", s.ProfitMargin.Shift(2).StringFixed(2))
	fmt.Printf("Payables:     %s\n", rupees(s.Payables))
	fmt.Printf("Receivables:  %s\n", rupees(s.Receivables))

	if len(s.Categories) > 0 {
		printSection("CATEGORIES")
		for _, c := range s.Categories {
			fmt.Printf("%-24s %14s  qty %s\n", c.Category, rupees(c.Total), c.Quantity.String())
		}
	}

	printSection("MONTHLY TREND")
	for _, m := range s.MonthlyTrend {
		fmt.Printf("%s  revenue %14s  cost %14s  profit %14s\n", m.Month, rupees(m.Revenue), rupees(m.Cost), rupees(m.Profit))
	}

	if len(s.TopVendors) > 0 {
		printSection("TOP VENDORS")
		for i, v := range s.TopVendors {
			fmt.Printf("%2d. %-28s %-16s %14s\n", i+1, v.Name, v.Role, rupees(v.Total))
		}
	}
	return nil
}
