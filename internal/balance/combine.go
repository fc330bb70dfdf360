package balance

import (
	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/date"
)

// SumBalances unions per-account end-of-day balance series over the
// combined date range and sums them day by day, treating days absent
// from a series as zero. The result is total assets across accounts.
func SumBalances(series ...*Series) *Series {
	var union date.Range
	found := false
	for _, s := range series {
		r, ok := s.Range()
		if !ok {
			continue
		}
		if !found {
			union, found = r, true
			continue
		}
		union = date.Union(union, r)
	}
	if !found {
		return &Series{}
	}

	out := &Series{}
	for _, day := range union.Days() {
		total := decimal.Zero
		for _, s := range series {
			if v, ok := s.Get(day); ok {
				total = total.Add(v)
			}
		}
		out.Set(day, total)
	}
	return out
}
