// Package currency provides standardized currency handling across the application.
// All monetary amounts are stored as decimal.Decimal to avoid floating-point errors.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	BRL Currency = "BRL" // Brazilian Real
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	ARS Currency = "ARS" // Argentine Peso
	CLP Currency = "CLP" // Chilean Peso
)

// DefaultCurrency is the default currency when none is specified.
const DefaultCurrency = BRL

// CurrencyInfo contains metadata about a currency.
type CurrencyInfo struct {
	Code          Currency
	Name          string
	Symbol        string
	DecimalPlaces int    // Number of decimal places (e.g., 2 for BRL, 0 for CLP)
	SymbolBefore  bool   // Whether symbol appears before amount
	ThousandsSep  string // Thousands separator
	DecimalSep    string // Decimal separator
}

// currencies maps currency codes to their info.
var currencies = map[Currency]CurrencyInfo{
	BRL: {Code: BRL, Name: "Brazilian Real", Symbol: "R$", DecimalPlaces: 2, SymbolBefore: true, ThousandsSep: ".", DecimalSep: ","},
	USD: {Code: USD, Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, SymbolBefore: true, ThousandsSep: ",", DecimalSep: "."},
	EUR: {Code: EUR, Name: "Euro", Symbol: "€", DecimalPlaces: 2, SymbolBefore: false, ThousandsSep: ".", DecimalSep: ","},
	GBP: {Code: GBP, Name: "British Pound", Symbol: "£", DecimalPlaces: 2, SymbolBefore: true, ThousandsSep: ",", DecimalSep: "."},
	ARS: {Code: ARS, Name: "Argentine Peso", Symbol: "$", DecimalPlaces: 2, SymbolBefore: true, ThousandsSep: ".", DecimalSep: ","},
	CLP: {Code: CLP, Name: "Chilean Peso", Symbol: "$", DecimalPlaces: 0, SymbolBefore: true, ThousandsSep: ".", DecimalSep: ","},
}

// SupportedCurrencies returns a list of all supported currency codes.
func SupportedCurrencies() []Currency {
	return []Currency{BRL, USD, EUR, GBP, ARS, CLP}
}

// IsValid checks if a currency code is supported.
func IsValid(code string) bool {
	_, ok := currencies[Currency(code)]
	return ok
}

// GetInfo returns metadata for a currency code.
func GetInfo(code Currency) (CurrencyInfo, bool) {
	info, ok := currencies[code]
	return info, ok
}

// ParseAmount parses the decimal notation found in bank and card CSV
// statements. Accepts both comma and dot decimal separators; when both
// appear the dot is taken as a thousands separator ("1.234,56").
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Format renders an amount using the currency's formatting rules.
func Format(amount decimal.Decimal, code Currency) string {
	info, ok := GetInfo(code)
	if !ok {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), code)
	}

	rounded := amount.Round(int32(info.DecimalPlaces))
	fixed := rounded.StringFixed(int32(info.DecimalPlaces))
	if info.DecimalSep != "." {
		fixed = strings.Replace(fixed, ".", info.DecimalSep, 1)
	}

	if info.SymbolBefore {
		return fmt.Sprintf("%s%s", info.Symbol, fixed)
	}
	return fmt.Sprintf("%s%s", fixed, info.Symbol)
}
