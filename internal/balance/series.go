// Package balance derives end-of-day balance series from normalized
// transactions: direct extraction when the source reports a running
// balance, reconstruction from a known anchor when it does not.
package balance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/date"
)

// Point is one day's value in a series.
type Point struct {
	Day   date.Day
	Value decimal.Decimal
}

// Series maps calendar days to decimal values, kept sorted with unique
// days. Used for both daily net amounts and end-of-day balances.
type Series struct {
	days   []date.Day
	values []decimal.Decimal
}

// Len returns the number of days in the series.
func (s *Series) Len() int { return len(s.days) }

// Get returns the value on day and whether the day is present.
func (s *Series) Get(day date.Day) (decimal.Decimal, bool) {
	i := s.search(day)
	if i < len(s.days) && s.days[i] == day {
		return s.values[i], true
	}
	return decimal.Decimal{}, false
}

// Set records a value for day, overwriting any existing value.
func (s *Series) Set(day date.Day, v decimal.Decimal) {
	i := s.search(day)
	if i < len(s.days) && s.days[i] == day {
		s.values[i] = v
		return
	}
	s.days = append(s.days, date.Day{})
	s.values = append(s.values, decimal.Decimal{})
	copy(s.days[i+1:], s.days[i:])
	copy(s.values[i+1:], s.values[i:])
	s.days[i] = day
	s.values[i] = v
}

// Add sums v into the value for day, inserting it if absent.
func (s *Series) Add(day date.Day, v decimal.Decimal) {
	if existing, ok := s.Get(day); ok {
		s.Set(day, existing.Add(v))
		return
	}
	s.Set(day, v)
}

// Points returns the series as day/value pairs in chronological order.
func (s *Series) Points() []Point {
	pts := make([]Point, len(s.days))
	for i, d := range s.days {
		pts[i] = Point{Day: d, Value: s.values[i]}
	}
	return pts
}

// Range returns the span from the first to the last day. ok is false
// for an empty series.
func (s *Series) Range() (r date.Range, ok bool) {
	if len(s.days) == 0 {
		return date.Range{}, false
	}
	return date.Range{From: s.days[0], To: s.days[len(s.days)-1]}, true
}

// Latest returns the most recent day and its value. ok is false for an
// empty series.
func (s *Series) Latest() (day date.Day, v decimal.Decimal, ok bool) {
	if len(s.days) == 0 {
		return date.Day{}, decimal.Decimal{}, false
	}
	last := len(s.days) - 1
	return s.days[last], s.values[last], true
}

func (s *Series) search(day date.Day) int {
	return sort.Search(len(s.days), func(i int) bool {
		return !s.days[i].Before(day)
	})
}
