package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Reports are consumed as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Number is a monetary or quantity field read from loosely typed source records.
// Anything that cannot be parsed decodes to zero with Set=false instead of failing
// the whole document.
type Number struct {
	Value decimal.Decimal
	Set   bool
}

// NewNumber builds a set Number from a float literal.
func NewNumber(v float64) Number {
	return Number{Value: decimal.NewFromFloat(v), Set: true}
}

// Decimal returns the parsed value, zero when unset.
func (n Number) Decimal() decimal.Decimal {
	return n.Value
}

// Or returns the parsed value, or def when the field was missing or unparsable.
func (n Number) Or(def decimal.Decimal) decimal.Decimal {
	if !n.Set {
		return def
	}
	return n.Value
}

// UnmarshalJSON accepts numbers, numeric strings and null. It never returns an error.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = s
	}

	value, err := ParseAmount(raw)
	if err != nil {
		return nil
	}
	n.Value = value
	n.Set = true
	return nil
}

// MarshalJSON writes unset numbers as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return []byte(n.Value.String()), nil
}

// ParseAmount parses a user formatted amount such as "1,05,000.50", "₹ 2,500" or "Rs. 40".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountStr)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	isNegative := strings.HasPrefix(cleaned, "-")
	if isNegative {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "-"))
	}

	for _, marker := range []string{"₹", "INR", "Rs.", "Rs", "rs.", "rs", ",", " "} {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse amount: %s (cleaned: %s)", amountStr, cleaned)
	}
	if isNegative {
		value = value.Neg()
	}
	return value, nil
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Date is a timestamp read from source records that may carry any of several layouts.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
}

// ParseDate tries each supported layout in turn, then Unix milliseconds.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := strings.TrimSpace(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	if ms, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// UnmarshalJSON accepts date strings, Unix millisecond numbers and null.
// Unparsable values decode to the zero time.
func (d *Date) UnmarshalJSON(data []byte) error {
	*d = Date{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = s
	}

	if t, err := ParseDate(raw); err == nil {
		d.Time = t
	}
	return nil
}

// MarshalJSON writes the zero date as null and everything else as RFC3339.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}
