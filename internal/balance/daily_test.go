package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/date"
	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// txnAt builds a transaction at an offset of n*9 hours from the start,
// mirroring several transactions per day.
func txnAt(t *testing.T, start string, n int, amount string) model.Transaction {
	t.Helper()
	base, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	return model.Transaction{
		Date:     base.Add(time.Duration(n) * 9 * time.Hour),
		Amount:   dec(amount),
		Currency: model.CurrencyPLN,
		Account:  model.AccountPekao24,
	}
}

func withBalance(txn model.Transaction, balance string) model.Transaction {
	txn.Balance = dec(balance)
	txn.HasBalance = true
	txn.Account = model.AccountRevolut
	return txn
}

func TestDailyNet_GroupsByCalendarDay(t *testing.T) {
	amounts := []string{"100", "-50", "200", "-100", "50", "175", "-75", "25"}
	var txns []model.Transaction
	for i, a := range amounts {
		txns = append(txns, txnAt(t, "2023-01-01", i, a))
	}

	s := DailyNet(txns)
	require.Equal(t, 3, s.Len())

	v, _ := s.Get(d("2023-01-01"))
	assert.Equal(t, "250", v.String())
	v, _ = s.Get(d("2023-01-02"))
	assert.Equal(t, "125", v.String())
	v, _ = s.Get(d("2023-01-03"))
	assert.Equal(t, "-50", v.String())
}

func TestExtractEOD_TakesLastBalancePerDay(t *testing.T) {
	balances := []string{"100", "50", "200", "100", "150", "325", "250", "275"}
	var txns []model.Transaction
	for i, b := range balances {
		txns = append(txns, withBalance(txnAt(t, "2023-01-01", i, "0"), b))
	}

	s := ExtractEOD(txns)
	require.Equal(t, 3, s.Len())

	v, _ := s.Get(d("2023-01-01"))
	assert.Equal(t, "200", v.String())
	v, _ = s.Get(d("2023-01-02"))
	assert.Equal(t, "325", v.String())
	v, _ = s.Get(d("2023-01-03"))
	assert.Equal(t, "275", v.String())
}

func TestExtractEOD_IgnoresTransactionsWithoutBalance(t *testing.T) {
	txns := []model.Transaction{
		txnAt(t, "2023-01-01", 0, "100"),
		withBalance(txnAt(t, "2023-01-02", 0, "50"), "150"),
	}

	s := ExtractEOD(txns)
	require.Equal(t, 1, s.Len())
	_, ok := s.Get(d("2023-01-01"))
	assert.False(t, ok)
}

func TestReindex_FillsMissingDays(t *testing.T) {
	s := &Series{}
	s.Set(d("2023-01-01"), dec("100"))
	s.Set(d("2023-01-04"), dec("-50"))

	r, _ := s.Range()
	out := Reindex(s, decimal.Zero, r)
	require.Equal(t, 4, out.Len())

	v, _ := out.Get(d("2023-01-02"))
	assert.True(t, v.IsZero())
	v, _ = out.Get(d("2023-01-04"))
	assert.Equal(t, "-50", v.String())
}

func TestReindex_ExplicitRange(t *testing.T) {
	s := &Series{}
	s.Set(d("2023-01-02"), dec("10"))

	out := Reindex(s, decimal.Zero, date.Range{From: d("2023-01-01"), To: d("2023-01-03")})
	require.Equal(t, 3, out.Len())

	v, ok := out.Get(d("2023-01-01"))
	require.True(t, ok)
	assert.True(t, v.IsZero())
	v, _ = out.Get(d("2023-01-02"))
	assert.Equal(t, "10", v.String())
}

func TestCarryForward_FillsGapsWithLastKnown(t *testing.T) {
	s := &Series{}
	s.Set(d("2023-01-01"), dec("200"))
	s.Set(d("2023-01-04"), dec("325"))

	out := CarryForward(s)
	require.Equal(t, 4, out.Len())

	v, _ := out.Get(d("2023-01-02"))
	assert.Equal(t, "200", v.String())
	v, _ = out.Get(d("2023-01-03"))
	assert.Equal(t, "200", v.String())
	v, _ = out.Get(d("2023-01-04"))
	assert.Equal(t, "325", v.String())
}

func TestCarryForward_Empty(t *testing.T) {
	out := CarryForward(&Series{})
	assert.Equal(t, 0, out.Len())
}
