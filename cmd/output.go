package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func printJSON(v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func printBanner(title string) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len(title)/2, title)
	fmt.Println(strings.Repeat("=", 80))
}

func printSection(title string) {
	fmt.Println()
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", 50))
}

func rupees(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}
