package balance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/date"
	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// DailyNet groups transactions by calendar day (time component
// discarded) and sums their amounts.
func DailyNet(txns []model.Transaction) *Series {
	s := &Series{}
	for _, txn := range txns {
		s.Add(date.FromTime(txn.Date), txn.Amount)
	}
	return s
}

// ExtractEOD takes, per calendar day, the running balance of the last
// transaction on that day. The sort is stable: within a day the input
// order is assumed chronological, as given by the source. Transactions
// without a balance are ignored.
func ExtractEOD(txns []model.Transaction) *Series {
	withBalance := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.HasBalance {
			withBalance = append(withBalance, txn)
		}
	}
	sort.SliceStable(withBalance, func(i, j int) bool {
		return date.FromTime(withBalance[i].Date).Before(date.FromTime(withBalance[j].Date))
	})

	s := &Series{}
	for _, txn := range withBalance {
		s.Set(date.FromTime(txn.Date), txn.Balance)
	}
	return s
}

// Reindex produces one entry per day across r inclusive, filling days
// missing from s with fill. Days of s outside r are dropped.
func Reindex(s *Series, fill decimal.Decimal, r date.Range) *Series {
	out := &Series{}
	for _, day := range r.Days() {
		if v, ok := s.Get(day); ok {
			out.Set(day, v)
		} else {
			out.Set(day, fill)
		}
	}
	return out
}

// CarryForward fills gap days within the series' own range with the
// last known value. Distinct policy from Reindex: balances persist
// across days without transactions, net amounts do not.
func CarryForward(s *Series) *Series {
	r, ok := s.Range()
	if !ok {
		return &Series{}
	}
	out := &Series{}
	last := decimal.Decimal{}
	for _, day := range r.Days() {
		if v, ok := s.Get(day); ok {
			last = v
		}
		out.Set(day, last)
	}
	return out
}
