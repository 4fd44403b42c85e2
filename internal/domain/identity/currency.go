package identity

import "strings"

// Currency is a directory entry describing a supported invoicing currency
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// NormalizeCurrencyCode uppercases and trims a currency code
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
