package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the normalized record common to all source formats.
// Date, Amount, Currency and Account are always set; Balance, Category
// and PaymentType depend on what the source reports.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal // negative = debit, positive = credit
	Currency    Currency
	Account     Account
	Balance     decimal.Decimal // running balance after this transaction
	HasBalance  bool            // false for sources that do not report a balance
	Category    string
	PaymentType string
	Description Extras // source columns not otherwise extracted
}

// Extra is one unmapped source column carried through normalization verbatim.
type Extra struct {
	Key   string
	Value string
}

// Extras preserves unmapped source data in header order.
type Extras []Extra

// Get returns the value for key and whether it was present.
func (e Extras) Get(key string) (string, bool) {
	for _, x := range e {
		if x.Key == key {
			return x.Value, true
		}
	}
	return "", false
}

// String renders the extras as "key=value" pairs joined by semicolons.
func (e Extras) String() string {
	parts := make([]string, len(e))
	for i, x := range e {
		parts[i] = x.Key + "=" + x.Value
	}
	return strings.Join(parts, ";")
}
