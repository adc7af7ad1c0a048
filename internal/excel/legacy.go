// Package excel imports legacy inventory purchase rows from spreadsheet exports of the old
// stock register.
package excel

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstledger/internal/logger"
	"gstledger/pkg/models"
)

var headerAliases = map[string]string{
	"id":            "id",
	"sku":           "id",
	"name":          "name",
	"product":       "name",
	"product name":  "name",
	"item":          "name",
	"item name":     "name",
	"quantity":      "quantity",
	"qty":           "quantity",
	"cost":          "cost",
	"cost price":    "cost",
	"buy price":     "cost",
	"purchase rate": "cost",
	"date":          "date",
	"purchase date": "date",
	"vendor":        "vendor",
	"vendor name":   "vendor",
	"supplier":      "vendor",
	"category":      "category",
	"order id":      "order",
	"order":         "order",
}

// RowParser turns header-keyed rows into legacy purchases.
type RowParser struct {
	log zerolog.Logger
}

// NewRowParser creates a row parser.
func NewRowParser() *RowParser {
	return &RowParser{
		log: logger.WithComponent("legacy-import"),
	}
}

// Parse maps the header row onto known columns and reads every following row. Rows
// without a name are skipped. Unparsable numbers become zero and unparsable dates the
// zero time, each with a warning.
func (p *RowParser) Parse(rows [][]string) ([]models.LegacyPurchase, error) {
	const op = "Parse"

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet is empty", op)
	}
	colMap := mapColumns(rows[0])
	if _, ok := colMap["name"]; !ok {
		return nil, fmt.Errorf("%s: missing required column: name", op)
	}

	result := make([]models.LegacyPurchase, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		rowNum := index + 1

		name := strings.TrimSpace(readCell(cells, colMap, "name"))
		if name == "" {
			continue
		}

		id := strings.TrimSpace(readCell(cells, colMap, "id"))
		if id == "" {
			id = fmt.Sprintf("LEGACY-%d", rowNum)
		}

		result = append(result, models.LegacyPurchase{
			ID:         id,
			Date:       models.NewDate(p.parseDate(readCell(cells, colMap, "date"), rowNum)),
			Name:       name,
			Category:   strings.TrimSpace(readCell(cells, colMap, "category")),
			Quantity:   p.parseNumber(readCell(cells, colMap, "quantity"), "quantity", rowNum),
			CostPrice:  p.parseNumber(readCell(cells, colMap, "cost"), "cost", rowNum),
			VendorName: strings.TrimSpace(readCell(cells, colMap, "vendor")),
			OrderID:    strings.TrimSpace(readCell(cells, colMap, "order")),
		})
	}

	p.log.Info().
		Int("total_rows", len(rows)-1).
		Int("parsed_rows", len(result)).
		Msg("Legacy purchase rows parsed")

	return result, nil
}

func (p *RowParser) parseNumber(raw, column string, rowNum int) models.Number {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Number{Value: decimal.Zero}
	}
	amount, err := models.ParseAmount(raw)
	if err != nil {
		p.log.Warn().
			Str("column", column).
			Str("value", raw).
			Int("row", rowNum).
			Msg("Invalid number, using 0")
		return models.Number{Value: decimal.Zero}
	}
	return models.Number{Value: amount, Set: true}
}

// maxExcelSerial separates Excel serial day numbers from Unix millisecond timestamps.
const maxExcelSerial = 1000000

// parseDate accepts the usual text layouts and Excel serial day numbers.
func (p *RowParser) parseDate(raw string, rowNum int) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 && serial < maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t
		}
	}
	if t, err := models.ParseDate(raw); err == nil {
		return t
	}
	p.log.Warn().
		Str("date_str", raw).
		Int("row", rowNum).
		Msg("Invalid date, using zero date")
	return time.Time{}
}

// ReadWorkbook parses the first sheet of an XLSX workbook.
func (p *RowParser) ReadWorkbook(reader io.Reader) ([]models.LegacyPurchase, error) {
	const op = "ReadWorkbook"

	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: open excel file: %w", op, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: excel file has no sheets", op)
	}

	// Raw values keep dates as serial day numbers instead of locale-formatted text.
	rows, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet rows: %w", op, err)
	}
	return p.Parse(rows)
}

// FileSource reads legacy purchases from an XLSX file on every call.
type FileSource struct {
	Path   string
	parser *RowParser
}

// NewFileSource creates a source for the workbook at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, parser: NewRowParser()}
}

// LegacyPurchases implements services.LegacySource.
func (s *FileSource) LegacyPurchases(ctx context.Context) ([]models.LegacyPurchase, error) {
	const op = "LegacyPurchases"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open %s: %w", op, s.Path, err)
	}
	defer f.Close()

	rows, err := s.parser.ReadWorkbook(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, s.Path, err)
	}
	return rows, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		canonical, ok := headerAliases[normalizeHeader(col)]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

func readCell(row []string, colMap map[string]int, column string) string {
	idx, ok := colMap[column]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
