package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gstledger/internal/config"
	"gstledger/internal/export"
	"gstledger/internal/logger"
	"gstledger/internal/sheets"
)

// workbookName is the file written by --format xlsx.
const workbookName = "gstledger.xlsx"

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the Tally register, sales, purchases, ledger and HSN tables",
	Long: `Export the computed tables for accounting tools:

- tally      Tally sales register (one row per invoice line, dd-mm-yyyy dates)
- sales      accounting platform sales invoice import
- purchases  accounting platform purchase bill import
- ledger     running-balance ledger
- hsn        HSN-wise summary

Tables are written as CSV files or as one XLSX workbook into --out. With --sheet
they are also published to the Google Sheet configured by GOOGLE_SHEET_URL, one
worksheet per table, using a pool of parallel workers.

Required environment variables for --sheet:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Google Sheets URL to write results

Optional environment variables:
  GOOGLE_SHEET_PREFIX - Prefix for worksheet names (e.g. "FY25 ")`,
	Example: `  # All tables as CSV files in ./out
  gstledger export --out ./out

  # Tally register and ledger as one workbook
  gstledger export --format xlsx --tables tally,ledger --out ./out

  # Publish to Google Sheets without writing files
  gstledger export --sheet --out ""`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", "csv", "Output format (csv or xlsx)")
	exportCmd.Flags().String("out", "export", "Output directory (empty to skip writing files)")
	exportCmd.Flags().StringSlice("tables", export.Names(), "Tables to export")
	exportCmd.Flags().Bool("sheet", false, "Publish the tables to Google Sheets")
	exportCmd.Flags().Int("workers", 4, "Number of parallel workers for Google Sheets publishing")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	format, _ := cmd.Flags().GetString("format")
	outDir, _ := cmd.Flags().GetString("out")
	names, _ := cmd.Flags().GetStringSlice("tables")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	workers, _ := cmd.Flags().GetInt("workers")

	format = strings.ToLower(format)
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("invalid format: %s (must be 'csv' or 'xlsx')", format)
	}
	if outDir == "" && !toSheet {
		return fmt.Errorf("nothing to do: set --out or --sheet")
	}

	res, err := compute(cmd)
	if err != nil {
		return fmt.Errorf("failed to compute results: %w", err)
	}

	tables := make([]export.Table, 0, len(names))
	for _, name := range names {
		t, err := export.Build(strings.ToLower(strings.TrimSpace(name)), res)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	log.Info().
		Str("format", format).
		Str("out", outDir).
		Int("tables", len(tables)).
		Bool("sheet", toSheet).
		Msg("Starting export")

	printBanner("EXPORT")

	if outDir != "" {
		if err := writeTables(outDir, format, tables); err != nil {
			return err
		}
	}

	if toSheet {
		if err := publishTables(commandContext(cmd), tables, workers); err != nil {
			return err
		}
	}

	fmt.Println(strings.Repeat("=", 80))
	return nil
}

func writeTables(outDir, format string, tables []export.Table) error {
	const op = "writeTables"

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("%s: failed to create %s: %w", op, outDir, err)
	}

	if format == "xlsx" {
		path := filepath.Join(outDir, workbookName)
		if err := writeFile(path, func(f *os.File) error { return export.WriteWorkbook(f, tables...) }); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		fmt.Printf("Workbook: %s (%d sheets)\n", path, len(tables))
		return nil
	}

	for _, t := range tables {
		path := filepath.Join(outDir, t.Name+".csv")
		if err := writeFile(path, func(f *os.File) error { return export.WriteCSV(f, t) }); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		fmt.Printf("%-12s %s (%d rows)\n", t.Name, path, len(t.Rows))
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func publishTables(ctx context.Context, tables []export.Table, workers int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required for --sheet")
	}

	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
	}

	fmt.Printf("Publishing %d tables with %d parallel workers...\n", len(tables), workers)

	failed := 0
	for _, r := range export.PublishAll(ctx, sheetsService, cfg.GoogleSheetPrefix, workers, tables...) {
		if r.Err != nil {
			failed++
			fmt.Printf("❌ %s (%s)\n", r.Sheet, r.Err.Error())
			continue
		}
		fmt.Printf("✅ %s (%d rows)\n", r.Sheet, r.Rows)
	}
	fmt.Printf("URL: %s\n", cfg.GoogleSheetURL)

	if failed > 0 {
		return fmt.Errorf("%d of %d tables failed to publish", failed, len(tables))
	}
	return nil
}
