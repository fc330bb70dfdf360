// Package date provides a calendar-day type used to key daily series.
package date

import (
	"fmt"
	"time"
)

// Format is the ISO-8601 day format used for parsing and printing.
const Format = "2006-01-02"

// Day is a calendar date with day granularity. The zero value is the
// zero time's date; Days are comparable and usable as map keys.
type Day struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Day (out-of-range month/day values roll over,
// as with time.Date).
func New(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// FromTime truncates a timestamp to its calendar date.
func FromTime(t time.Time) Day {
	return Day{t.Year(), t.Month(), t.Day()}
}

// Parse reads an ISO-8601 date like "2023-01-02".
func Parse(s string) (Day, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error. Test helper.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year.
func (d Day) Year() int { return d.y }

// Month returns the month.
func (d Day) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Day) Day() int { return d.d }

// Add returns the day shifted by n calendar days.
func (d Day) Add(n int) Day { return New(d.y, d.m, d.d+n) }

// Before reports whether d is before x.
func (d Day) Before(x Day) bool { return d.Time().Before(x.Time()) }

// After reports whether d is after x.
func (d Day) After(x Day) bool { return d.Time().After(x.Time()) }

// String formats the day as ISO-8601.
func (d Day) String() string { return d.Time().Format(Format) }

// Range is an inclusive span of calendar days.
type Range struct {
	From Day
	To   Day
}

// Contains reports whether day falls within the range, boundaries included.
func (r Range) Contains(day Day) bool {
	return !day.Before(r.From) && !day.After(r.To)
}

// Len returns the number of days in the range, zero if inverted.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return int(r.To.Time().Sub(r.From.Time())/(24*time.Hour)) + 1
}

// Days returns every day in the range in chronological order.
func (r Range) Days() []Day {
	n := r.Len()
	days := make([]Day, 0, n)
	for d := r.From; !d.After(r.To); d = d.Add(1) {
		days = append(days, d)
	}
	return days
}

// Union returns the smallest range covering both a and b.
func Union(a, b Range) Range {
	u := a
	if b.From.Before(u.From) {
		u.From = b.From
	}
	if b.To.After(u.To) {
		u.To = b.To
	}
	return u
}
