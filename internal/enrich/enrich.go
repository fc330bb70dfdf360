// Package enrich adds derived fields to normalized transactions:
// per-transaction running balances back-filled from a known anchor and
// optional currency conversion with static rates.
package enrich

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// AddRunningBalance back-fills the balance after each transaction for
// sources that do not report one. anchor is the balance after the most
// recent transaction; each earlier balance is the later one minus the
// later transaction's amount. Returns a new slice sorted most recent
// first; the input is not modified.
func AddRunningBalance(txns []model.Transaction, anchor decimal.Decimal) []model.Transaction {
	if len(txns) == 0 {
		return nil
	}

	out := make([]model.Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Before(out[i].Date) })

	out[0].Balance = anchor
	out[0].HasBalance = true
	for i := 1; i < len(out); i++ {
		out[i].Balance = out[i-1].Balance.Sub(out[i-1].Amount)
		out[i].HasBalance = true
	}
	return out
}

// Rates maps a currency to its value in the target currency (units of
// target per one unit of source). The target's own rate is implicitly 1.
type Rates map[model.Currency]decimal.Decimal

// Convert rewrites amounts and balances into the target currency using
// static rates. This is an optional enrichment, not a correctness-
// critical path; a missing rate is an error rather than a guess.
func Convert(txns []model.Transaction, target model.Currency, rates Rates) ([]model.Transaction, error) {
	out := make([]model.Transaction, len(txns))
	for i, txn := range txns {
		if txn.Currency == target {
			out[i] = txn
			continue
		}
		rate, ok := rates[txn.Currency]
		if !ok {
			return nil, fmt.Errorf("no rate from %s to %s", txn.Currency, target)
		}
		txn.Amount = txn.Amount.Mul(rate)
		if txn.HasBalance {
			txn.Balance = txn.Balance.Mul(rate)
		}
		txn.Currency = target
		out[i] = txn
	}
	return out, nil
}
