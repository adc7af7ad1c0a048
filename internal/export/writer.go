package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrUnknownTable is returned when an export name is not one of Names().
var ErrUnknownTable = errors.New("unknown export table")

// WriteCSV writes the header and rows of t.
func WriteCSV(w io.Writer, t Table) error {
	const op = "WriteCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("%s: %s header: %w", op, t.Name, err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("%s: %s rows: %w", op, t.Name, err)
	}
	return nil
}

// sheetTitles are the worksheet names used in workbooks and Google Sheets.
var sheetTitles = map[string]string{
	TableTally:     "Tally Sales Register",
	TableSales:     "Sales Invoices",
	TablePurchases: "Purchase Bills",
	TableLedger:    "Ledger",
	TableHSN:       "HSN Summary",
}

// SheetTitle returns the worksheet name for a table.
func SheetTitle(t Table) string {
	if title, ok := sheetTitles[t.Name]; ok {
		return title
	}
	return t.Name
}

// WriteWorkbook writes every table into its own worksheet with a bold header row.
func WriteWorkbook(w io.Writer, tables ...Table) error {
	const op = "WriteWorkbook"

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%s: header style: %w", op, err)
	}

	for i, t := range tables {
		sheet := SheetTitle(t)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("%s: rename sheet %s: %w", op, sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("%s: create sheet %s: %w", op, sheet, err)
		}

		if err := writeSheetRow(f, sheet, 1, t.Header); err != nil {
			return fmt.Errorf("%s: %s header: %w", op, sheet, err)
		}
		if len(t.Header) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
			if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
				return fmt.Errorf("%s: %s header style: %w", op, sheet, err)
			}
		}
		for r, row := range t.Rows {
			if err := writeSheetRow(f, sheet, r+2, row); err != nil {
				return fmt.Errorf("%s: %s row %d: %w", op, sheet, r+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: write workbook: %w", op, err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
