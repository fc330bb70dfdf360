package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a locale-formatted numeric string to a decimal.
// Bank exports use spaces as thousands separators and a comma decimal
// separator ("1 234,56"); an empty string means zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(s, " ", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	if normalized == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// earlier returns the earlier of two timestamps. Statements carry a
// booking/started date and a value/completed date; the transaction date
// is always the earlier of the two.
func earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
