package model

import (
	"fmt"
	"strings"
)

// Currency is a closed set of supported currencies. Adding a currency
// requires adding a constant here; mappers reject anything else.
type Currency string

const (
	CurrencyPLN Currency = "PLN"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

// ParseCurrency matches a currency code case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case CurrencyPLN:
		return CurrencyPLN, nil
	case CurrencyGBP:
		return CurrencyGBP, nil
	case CurrencyEUR:
		return CurrencyEUR, nil
	}
	return "", fmt.Errorf("unknown currency %q", s)
}

// Account identifies the source institution. Adding a bank requires
// adding a constant here plus a mapper for its export format.
type Account string

const (
	AccountPekao24 Account = "pekao24"
	AccountRevolut Account = "revolut"
)

// ParseAccount matches an account name case-insensitively.
func ParseAccount(s string) (Account, error) {
	switch Account(strings.ToLower(strings.TrimSpace(s))) {
	case AccountPekao24:
		return AccountPekao24, nil
	case AccountRevolut:
		return AccountRevolut, nil
	}
	return "", fmt.Errorf("unknown account %q", s)
}
