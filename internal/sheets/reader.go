package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"gstledger/internal/excel"
	"gstledger/internal/logger"
	"gstledger/pkg/models"
)

// RangeReader reads raw cell values. *Service satisfies it.
type RangeReader interface {
	ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error)
}

// LegacyReader reads legacy purchase rows kept in a worksheet of the shared spreadsheet.
type LegacyReader struct {
	reader    RangeReader
	sheetName string
	parser    *excel.RowParser
	log       zerolog.Logger
}

// NewLegacyReader creates a reader for sheetName.
func NewLegacyReader(reader RangeReader, sheetName string) *LegacyReader {
	return &LegacyReader{
		reader:    reader,
		sheetName: sheetName,
		parser:    excel.NewRowParser(),
		log:       logger.WithComponent("sheets-legacy-reader"),
	}
}

// LegacyPurchases implements services.LegacySource.
func (lr *LegacyReader) LegacyPurchases(ctx context.Context) ([]models.LegacyPurchase, error) {
	const op = "LegacyPurchases"

	lr.log.Info().Str("sheet", lr.sheetName).Msg("Reading legacy purchases")

	values, err := lr.reader.ReadRange(ctx, fmt.Sprintf("'%s'", lr.sheetName))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s sheet: %w", op, lr.sheetName, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %s sheet is empty", op, lr.sheetName)
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j := range row {
			rows[i][j] = getString(row, j)
		}
	}

	purchases, err := lr.parser.Parse(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %s sheet: %w", op, lr.sheetName, err)
	}
	return purchases, nil
}

// getString safely extracts a string value from a row slice
func getString(row []interface{}, index int) string {
	if index >= len(row) || row[index] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}
