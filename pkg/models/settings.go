package models

import "github.com/shopspring/decimal"

// CompanySettings is replaced as a whole on save; it is never partially applied.
type CompanySettings struct {
	LegalName      string      `json:"legalName"`
	TradeName      string      `json:"tradeName"`
	GSTIN          string      `json:"gstin"`
	Address        string      `json:"address"`
	HomeState      string      `json:"homeState"`
	StateCode      string      `json:"stateCode"`
	DefaultGSTRate Number      `json:"defaultGstRate"`
	Bank           BankDetails `json:"bank"`
	Terms          []string    `json:"terms,omitempty"`
}

// BankDetails is printed on invoices.
type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch,omitempty"`
	UPI           string `json:"upi,omitempty"`
}

// DefaultGSTRate applies when neither the order nor the settings carry a usable rate.
var DefaultGSTRate = decimal.NewFromInt(5)

// DefaultSettings is substituted when no settings have been saved yet.
func DefaultSettings() CompanySettings {
	return CompanySettings{
		LegalName:      "My Business",
		TradeName:      "My Business",
		HomeState:      "Gujarat",
		StateCode:      "24",
		DefaultGSTRate: Number{Value: DefaultGSTRate, Set: true},
		Terms: []string{
			"Goods once sold will not be taken back.",
			"Subject to local jurisdiction.",
		},
	}
}

// GSTRate returns the configured default rate, falling back to DefaultGSTRate.
func (s *CompanySettings) GSTRate() decimal.Decimal {
	if s == nil {
		return DefaultGSTRate
	}
	return s.DefaultGSTRate.Or(DefaultGSTRate)
}
