package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore folds an in-memory transaction list the same way the real
// store does: sparse sums only, no zero pre-filling.
type fakeStore struct {
	rows []fakeRow
	err  error
}

type fakeRow struct {
	owner  string
	typ    string
	amount float64
	date   time.Time
}

func (f *fakeStore) SumsByBucket(owner string, unit Unit, from, to *time.Time, loc *time.Location) (map[string]ClassSums, error) {
	if f.err != nil {
		return nil, f.err
	}
	sums := map[string]ClassSums{}
	for _, r := range f.rows {
		if r.owner != owner || !inRange(r.date, from, to) {
			continue
		}
		key := Key(unit, r.date, loc)
		s := sums[key]
		s.Add(r.typ, r.amount)
		sums[key] = s
	}
	return sums, nil
}

func (f *fakeStore) SumsInRange(owner string, from, to *time.Time) (ClassSums, error) {
	if f.err != nil {
		return ClassSums{}, f.err
	}
	var sums ClassSums
	for _, r := range f.rows {
		if r.owner == owner && inRange(r.date, from, to) {
			sums.Add(r.typ, r.amount)
		}
	}
	return sums, nil
}

func (f *fakeStore) FirstDate(owner string) (*time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	var first *time.Time
	for i := range f.rows {
		r := f.rows[i]
		if r.owner != owner {
			continue
		}
		if first == nil || r.date.Before(*first) {
			first = &f.rows[i].date
		}
	}
	return first, nil
}

func inRange(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && !date.Before(*to) {
		return false
	}
	return true
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func testEngine(store Store, now time.Time) *Engine {
	return NewEngine(store, time.UTC, time.Monday).WithClock(fixedClock(now))
}

func TestWeeklyAlwaysSevenDense(t *testing.T) {
	// Wednesday 2024-01-17: the week is Mon 15th .. Sun 21st.
	now := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []fakeRow{
		{"alice", "income", 100, day(2024, 1, 15)},
		{"alice", "expense", 30, day(2024, 1, 15)},
		{"alice", "savings", 10, day(2024, 1, 20)},
		{"alice", "income", 999, day(2024, 1, 14)}, // previous week
		{"bob", "income", 500, day(2024, 1, 16)},   // other owner
	}}

	series, err := testEngine(store, now).Weekly("alice", "")
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, DayEntry{Day: "2024-01-15", Income: 100, Expense: 30}, series[0])
	for i, entry := range series[1:5] {
		assert.Equal(t, DayEntry{Day: fmt.Sprintf("2024-01-%02d", 16+i)}, entry, "gap day must be zero-filled")
	}
	assert.Equal(t, DayEntry{Day: "2024-01-20", Savings: 10}, series[5])
	assert.Equal(t, DayEntry{Day: "2024-01-21"}, series[6])
}

func TestWeeklyEmptyOwnerStillSeven(t *testing.T) {
	now := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)
	series, err := testEngine(&fakeStore{}, now).Weekly("nobody", "")
	require.NoError(t, err)
	require.Len(t, series, 7)
	for _, entry := range series {
		assert.Zero(t, entry.Income)
		assert.Zero(t, entry.Expense)
		assert.Zero(t, entry.Savings)
	}
}

func TestWeeklyRespectsCallerTimezone(t *testing.T) {
	// Server clock: Sunday 23:30 UTC. In Kolkata that is already
	// Monday, so the Kolkata week runs Jan 22-28 while the UTC week
	// runs Jan 15-21.
	now := time.Date(2024, 1, 21, 23, 30, 0, 0, time.UTC)

	utcSeries, err := testEngine(&fakeStore{}, now).Weekly("alice", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", utcSeries[0].Day)

	kolkataSeries, err := testEngine(&fakeStore{}, now).Weekly("alice", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-22", kolkataSeries[0].Day)
}

func TestMonthlyScenario(t *testing.T) {
	// income 100 on Jan 15, expense 30 on Jan 20, savings 10 on Feb 1.
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []fakeRow{
		{"alice", "income", 100, day(2024, 1, 15)},
		{"alice", "expense", 30, day(2024, 1, 20)},
		{"alice", "savings", 10, day(2024, 2, 1)},
	}}

	result, err := testEngine(store, now).MonthlyByYear("alice", 2024, "")
	require.NoError(t, err)

	assert.Equal(t, "monthly", result.Period)
	assert.Equal(t, 2024, result.Year)
	require.Len(t, result.Data, 12)

	assert.Equal(t, MonthEntry{Month: "2024-01", Income: 100, Expense: 30}, result.Data[0])
	assert.Equal(t, MonthEntry{Month: "2024-02", Savings: 10}, result.Data[1])
	for _, entry := range result.Data[2:] {
		assert.Zero(t, entry.Income)
		assert.Zero(t, entry.Expense)
		assert.Zero(t, entry.Savings)
	}

	// 2024 is a past year relative to the clock.
	assert.Equal(t, 12, result.LatestMonth)
	assert.Equal(t, ClassSums{}, result.Carry)
}

func TestMonthlyCarry(t *testing.T) {
	now := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []fakeRow{
		{"alice", "income", 1000, day(2022, 6, 1)},
		{"alice", "expense", 400, day(2023, 12, 31)},
		{"alice", "savings", 50, day(2023, 3, 15)},
		{"alice", "income", 77, day(2024, 1, 2)}, // in-year, not carry
	}}

	result, err := testEngine(store, now).MonthlyByYear("alice", 2024, "")
	require.NoError(t, err)

	assert.Equal(t, ClassSums{Income: 1000, Expense: 400, Savings: 50}, result.Carry)
	assert.Equal(t, float64(77), result.Data[0].Income)
}

func TestMonthlyLatestMonth(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		year     int
		expected int
	}{
		{"PastYear", 2022, 12},
		{"CurrentYear", 2024, 5},
		{"FutureYear", 2026, 12},
	}
	for _, test := range tests {
		t.Run(test.name, func(st *testing.T) {
			result, err := testEngine(&fakeStore{}, now).MonthlyByYear("alice", test.year, "")
			require.NoError(st, err)
			assert.Equal(st, test.expected, result.LatestMonth)
		})
	}
}

func TestMonthlyDefaultsToCurrentYear(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	result, err := testEngine(&fakeStore{}, now).MonthlyByYear("alice", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2024, result.Year)
	assert.Equal(t, 5, result.LatestMonth)
}

func TestAllTimeScenario(t *testing.T) {
	now := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []fakeRow{
		{"alice", "income", 100, day(2024, 1, 15)},
		{"alice", "expense", 30, day(2024, 1, 20)},
		{"alice", "savings", 10, day(2024, 2, 1)},
	}}

	result, err := testEngine(store, now).AllTime("alice", "")
	require.NoError(t, err)

	assert.Equal(t, "total", result.Period)
	require.Len(t, result.Data, 4) // Jan..Apr, dense
	assert.Equal(t, MonthEntry{Month: "2024-01", Income: 100, Expense: 30}, result.Data[0])
	assert.Equal(t, MonthEntry{Month: "2024-02", Savings: 10}, result.Data[1])
	assert.Equal(t, MonthEntry{Month: "2024-03"}, result.Data[2])
	assert.Equal(t, MonthEntry{Month: "2024-04"}, result.Data[3])

	assert.Equal(t, Totals{Income: 100, Expense: 30, Savings: 10, Balance: 60}, result.Totals)
}

func TestAllTimeBalanceMatchesPerBucketSum(t *testing.T) {
	now := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []fakeRow{
		{"alice", "income", 20, day(2023, 11, 3)},
		{"alice", "expense", 45.5, day(2023, 12, 24)},
		{"alice", "savings", 12.25, day(2024, 2, 14)},
	}}

	result, err := testEngine(store, now).AllTime("alice", "")
	require.NoError(t, err)

	var perBucket float64
	for _, entry := range result.Data {
		perBucket += entry.Income - entry.Expense - entry.Savings
	}
	assert.Equal(t, result.Totals.Balance, perBucket)
	assert.True(t, result.Totals.Balance < 0)
}

func TestAllTimeEmptyOwner(t *testing.T) {
	now := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{err: nil}

	result, err := testEngine(store, now).AllTime("ghost", "")
	require.NoError(t, err)

	assert.Equal(t, "total", result.Period)
	assert.Empty(t, result.Data)
	assert.Equal(t, Totals{}, result.Totals)
}

func TestAllTimeYearRollover(t *testing.T) {
	now := time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []fakeRow{
		{"alice", "income", 5, day(2023, 11, 1)},
	}}

	result, err := testEngine(store, now).AllTime("alice", "")
	require.NoError(t, err)

	months := make([]string, 0, len(result.Data))
	for _, entry := range result.Data {
		months = append(months, entry.Month)
	}
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, months)
}

func TestSelectableYears(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

	years := testEngine(&fakeStore{}, now).SelectableYears()
	require.Len(t, years.Years, 11)
	assert.Equal(t, 2019, years.Years[0])
	assert.Equal(t, 2029, years.Years[10])
}

func TestStoreErrorsPropagate(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{err: fmt.Errorf("store unavailable")}
	engine := testEngine(store, now)

	_, err := engine.Weekly("alice", "")
	assert.Error(t, err)
	_, err = engine.MonthlyByYear("alice", 2024, "")
	assert.Error(t, err)
	_, err = engine.AllTime("alice", "")
	assert.Error(t, err)
}
