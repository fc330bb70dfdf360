package date

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-05-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, "2025-05-01", d.String())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("01.05.2025")
	assert.Error(t, err)
}

func TestFromTime_DropsTime(t *testing.T) {
	ts := time.Date(2024, 5, 4, 22, 31, 29, 0, time.UTC)
	assert.Equal(t, MustParse("2024-05-04"), FromTime(ts))
}

func TestAdd_RollsOverMonth(t *testing.T) {
	assert.Equal(t, MustParse("2023-02-01"), MustParse("2023-01-31").Add(1))
	assert.Equal(t, MustParse("2022-12-31"), MustParse("2023-01-01").Add(-1))
}

func TestBeforeAfter(t *testing.T) {
	a := MustParse("2023-01-01")
	b := MustParse("2023-01-02")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}

func TestRange_Days(t *testing.T) {
	r := Range{From: MustParse("2023-01-30"), To: MustParse("2023-02-02")}
	days := r.Days()
	require.Len(t, days, 4)
	assert.Equal(t, MustParse("2023-01-30"), days[0])
	assert.Equal(t, MustParse("2023-02-02"), days[3])
	assert.Equal(t, 4, r.Len())
}

func TestRange_Inverted(t *testing.T) {
	r := Range{From: MustParse("2023-01-02"), To: MustParse("2023-01-01")}
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Days())
}

func TestRange_Contains(t *testing.T) {
	r := Range{From: MustParse("2023-01-01"), To: MustParse("2023-01-03")}
	assert.True(t, r.Contains(MustParse("2023-01-01")))
	assert.True(t, r.Contains(MustParse("2023-01-03")))
	assert.False(t, r.Contains(MustParse("2023-01-04")))
}

func TestUnion(t *testing.T) {
	a := Range{From: MustParse("2023-01-05"), To: MustParse("2023-01-10")}
	b := Range{From: MustParse("2023-01-01"), To: MustParse("2023-01-07")}
	u := Union(a, b)
	assert.Equal(t, MustParse("2023-01-01"), u.From)
	assert.Equal(t, MustParse("2023-01-10"), u.To)
}
