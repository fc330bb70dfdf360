package balance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/date"
	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// DuplicateDateError reports a reconstruction input with a repeated
// day. Daily net amounts must be unique per day; a duplicate means the
// caller skipped aggregation.
type DuplicateDateError struct {
	Day date.Day
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("duplicate date in daily net amounts: %s", e.Day)
}

// Reconstruct derives the end-of-day balance series from daily net
// amounts and a known anchor balance. The anchor is the end-of-day
// balance on the most recent day present; walking backward, each
// earlier day's balance is the later day's balance minus that later
// day's net amount. The most recent day's balance equals the anchor
// exactly.
func Reconstruct(dailyNet []Point, anchor decimal.Decimal) (*Series, error) {
	if len(dailyNet) == 0 {
		return &Series{}, nil
	}

	pts := make([]Point, len(dailyNet))
	copy(pts, dailyNet)
	sort.Slice(pts, func(i, j int) bool { return pts[j].Day.Before(pts[i].Day) })

	for i := 1; i < len(pts); i++ {
		if pts[i].Day == pts[i-1].Day {
			return nil, &DuplicateDateError{Day: pts[i].Day}
		}
	}

	out := &Series{}
	bal := anchor
	out.Set(pts[0].Day, bal)
	for i := 1; i < len(pts); i++ {
		bal = bal.Sub(pts[i-1].Value)
		out.Set(pts[i].Day, bal)
	}
	return out, nil
}

// EODFromAnchor computes the end-of-day balance series for sources that
// report no running balance: daily nets, zero-filled to a continuous
// range, reconstructed backward from the anchor.
func EODFromAnchor(txns []model.Transaction, anchor decimal.Decimal) (*Series, error) {
	daily := DailyNet(txns)
	r, ok := daily.Range()
	if !ok {
		return &Series{}, nil
	}
	daily = Reindex(daily, decimal.Zero, r)
	return Reconstruct(daily.Points(), anchor)
}

// EODFromReported computes the end-of-day balance series for sources
// that report a running balance, carrying the last known balance across
// days without transactions.
func EODFromReported(txns []model.Transaction) *Series {
	return CarryForward(ExtractEOD(txns))
}
