package importer

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

func readFixture(t *testing.T, name string) ([]RawRow, []string) {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	rows, columns, err := ReadRows(strings.NewReader(string(data)))
	require.NoError(t, err)
	return rows, columns
}

func TestPekao24Mapper_Sample(t *testing.T) {
	rows, _ := readFixture(t, "pekao24.csv")
	p := &Pekao24Mapper{}

	txn, skip, err := p.Map(rows[0])
	require.NoError(t, err)
	assert.False(t, skip)

	assert.Equal(t, "-235.62", txn.Amount.StringFixed(2))
	assert.Equal(t, model.CurrencyPLN, txn.Currency)
	assert.Equal(t, model.AccountPekao24, txn.Account)
	assert.Equal(t, "Bez kategorii", txn.Category)
	assert.Equal(t, "PŁATNOŚĆ BLIK", txn.PaymentType)
	assert.False(t, txn.HasBalance)

	// Value date 01.05 precedes booking date 02.05 and wins.
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), txn.Date)
}

func TestPekao24Mapper_DateIsEarlierOfTwo(t *testing.T) {
	rows, _ := readFixture(t, "pekao24.csv")
	p := &Pekao24Mapper{}

	// Booking 08.05 precedes value 09.05.
	txn, skip, err := p.Map(rows[3])
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC), txn.Date)
}

func TestPekao24Mapper_SkipsPendingRow(t *testing.T) {
	rows, _ := readFixture(t, "pekao24.csv")
	p := &Pekao24Mapper{}

	// Row 3 has an empty booking date.
	_, skip, err := p.Map(rows[2])
	require.NoError(t, err)
	assert.True(t, skip)
}

func TestPekao24Mapper_ThousandsSeparator(t *testing.T) {
	rows, _ := readFixture(t, "pekao24.csv")
	p := &Pekao24Mapper{}

	txn, _, err := p.Map(rows[1])
	require.NoError(t, err)
	assert.Equal(t, "5200.00", txn.Amount.StringFixed(2))
	assert.True(t, txn.Amount.IsPositive())
}

func TestPekao24Mapper_DescriptionKeepsUnmappedColumns(t *testing.T) {
	rows, _ := readFixture(t, "pekao24.csv")
	p := &Pekao24Mapper{}

	txn, _, err := p.Map(rows[0])
	require.NoError(t, err)

	v, ok := txn.Description.Get("Nadawca / Odbiorca")
	assert.True(t, ok)
	assert.Equal(t, "SFD SA", v)

	v, ok = txn.Description.Get("Tytułem")
	assert.True(t, ok)
	assert.Equal(t, "BLIK REF 123456789012", v)

	// Extracted columns must not leak into the description bag.
	_, ok = txn.Description.Get("Kwota operacji")
	assert.False(t, ok)
	_, ok = txn.Description.Get("Waluta")
	assert.False(t, ok)
}

func TestPekao24Mapper_BadAmount(t *testing.T) {
	p := &Pekao24Mapper{}
	row := NewRawRow(2,
		[2]string{"Data księgowania", "02.05.2025"},
		[2]string{"Data waluty", "01.05.2025"},
		[2]string{"Kwota operacji", "abc"},
		[2]string{"Waluta", "PLN"},
		[2]string{"Kategoria", ""},
		[2]string{"Typ operacji", ""},
	)
	_, _, err := p.Map(row)
	require.Error(t, err)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Kwota operacji", fe.Field)
}

func TestPekao24Mapper_BadDate(t *testing.T) {
	p := &Pekao24Mapper{}
	row := NewRawRow(2,
		[2]string{"Data księgowania", "02.05.2025"},
		[2]string{"Data waluty", "2025-05-01"},
		[2]string{"Kwota operacji", "-1,00"},
		[2]string{"Waluta", "PLN"},
		[2]string{"Kategoria", ""},
		[2]string{"Typ operacji", ""},
	)
	_, _, err := p.Map(row)
	require.Error(t, err)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Data waluty", fe.Field)
}

func TestPekao24Mapper_LowercaseCurrency(t *testing.T) {
	p := &Pekao24Mapper{}
	row := NewRawRow(2,
		[2]string{"Data księgowania", "02.05.2025"},
		[2]string{"Data waluty", "01.05.2025"},
		[2]string{"Kwota operacji", "-1,00"},
		[2]string{"Waluta", "pln"},
		[2]string{"Kategoria", ""},
		[2]string{"Typ operacji", ""},
	)
	txn, skip, err := p.Map(row)
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, model.CurrencyPLN, txn.Currency)
}

func TestPekao24Mapper_UnknownCurrency(t *testing.T) {
	p := &Pekao24Mapper{}
	row := NewRawRow(2,
		[2]string{"Data księgowania", "02.05.2025"},
		[2]string{"Data waluty", "01.05.2025"},
		[2]string{"Kwota operacji", "-1,00"},
		[2]string{"Waluta", "USD"},
		[2]string{"Kategoria", ""},
		[2]string{"Typ operacji", ""},
	)
	_, _, err := p.Map(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown currency")
}
