package report

import (
	"time"
)

// ClassSums holds per-class totals for one bucket or range.
type ClassSums struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Savings float64 `json:"savings"`
}

// Add accumulates amount into the class named by typ. Unknown classes
// are ignored; the store never produces them.
func (s *ClassSums) Add(typ string, amount float64) {
	switch typ {
	case "income":
		s.Income += amount
	case "expense":
		s.Expense += amount
	case "savings":
		s.Savings += amount
	}
}

// Store is the bucketed-sum query capability the engine runs against.
// SumsByBucket returns only buckets that have at least one matching
// record; it never pre-fills zeros. Nil range bounds are unbounded.
type Store interface {
	SumsByBucket(owner string, unit Unit, from, to *time.Time, loc *time.Location) (map[string]ClassSums, error)
	SumsInRange(owner string, from, to *time.Time) (ClassSums, error)
	FirstDate(owner string) (*time.Time, error)
}

// DayEntry is one day of the weekly series.
type DayEntry struct {
	Day     string  `json:"day"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Savings float64 `json:"savings"`
}

// MonthEntry is one month of the monthly or total series.
type MonthEntry struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Savings float64 `json:"savings"`
}

// Monthly is the yearly report: the 12-month series plus the running
// balance carried in from before the year and the last month that has
// actually been reached.
type Monthly struct {
	Period      string       `json:"period"`
	Year        int          `json:"year"`
	Data        []MonthEntry `json:"data"`
	Carry       ClassSums    `json:"carry"`
	LatestMonth int          `json:"latestMonth"`
}

// Totals are all-time per-class sums with their derived balance.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Savings float64 `json:"savings"`
	Balance float64 `json:"balance"`
}

// Total is the all-time report: a dense monthly series from the
// owner's first transaction through now.
type Total struct {
	Period string       `json:"period"`
	Data   []MonthEntry `json:"data"`
	Totals Totals       `json:"totals"`
}

// Years is the selectable-year window offered to clients.
type Years struct {
	Years []int `json:"years"`
}

// Engine produces dense, gap-filled report series for one owner. All
// results are computed on demand from the store's sparse sums; nothing
// is persisted.
type Engine struct {
	store     Store
	fallback  *time.Location
	weekStart time.Weekday
	now       func() time.Time
}

// NewEngine builds an engine over store. fallback is the timezone used
// when a request names none (or an unknown one); weekStart is the
// configured first day of the week.
func NewEngine(store Store, fallback *time.Location, weekStart time.Weekday) *Engine {
	return &Engine{
		store:     store,
		fallback:  fallback,
		weekStart: weekStart,
		now:       time.Now,
	}
}

// WithClock replaces the engine's time source. Tests pin reports to a
// known instant with this.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Weekly reports the current week, one dense entry per day from the
// configured week start, in tz. Always exactly 7 entries.
func (e *Engine) Weekly(owner, tz string) ([]DayEntry, error) {
	loc := Timezone(tz, e.fallback)
	start := WeekStart(e.now(), loc, e.weekStart)
	end := start.AddDate(0, 0, 7)

	sums, err := e.store.SumsByBucket(owner, UnitDay, &start, &end, loc)
	if err != nil {
		return nil, err
	}

	days := DayKeys(start, 7, loc)
	series := make([]DayEntry, 0, len(days))
	for _, day := range days {
		s := sums[day]
		series = append(series, DayEntry{Day: day, Income: s.Income, Expense: s.Expense, Savings: s.Savings})
	}
	return series, nil
}

// MonthlyByYear reports the 12 months of year in tz, with the per-class
// carry from everything strictly before the year's start. A zero year
// selects the current year.
func (e *Engine) MonthlyByYear(owner string, year int, tz string) (*Monthly, error) {
	loc := Timezone(tz, e.fallback)
	now := e.now()
	if year == 0 {
		year = now.In(e.fallback).Year()
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	nextYear := yearStart.AddDate(1, 0, 0)

	sums, err := e.store.SumsByBucket(owner, UnitMonth, &yearStart, &nextYear, loc)
	if err != nil {
		return nil, err
	}
	carry, err := e.store.SumsInRange(owner, nil, &yearStart)
	if err != nil {
		return nil, err
	}

	series := make([]MonthEntry, 0, 12)
	for _, key := range MonthKeysOfYear(year) {
		s := sums[key]
		series = append(series, MonthEntry{Month: key, Income: s.Income, Expense: s.Expense, Savings: s.Savings})
	}

	// Past (and future) years are complete; only the current year is
	// cut off at the month the server clock has reached.
	latest := 12
	if serverNow := now.In(e.fallback); year == serverNow.Year() {
		latest = int(serverNow.Month())
	}

	return &Monthly{
		Period:      "monthly",
		Year:        year,
		Data:        series,
		Carry:       carry,
		LatestMonth: latest,
	}, nil
}

// AllTime reports the owner's entire history as a dense monthly series
// from their first transaction through now, with all-time totals and
// balance. An owner with no transactions gets an empty series and zero
// totals without touching aggregation.
func (e *Engine) AllTime(owner, tz string) (*Total, error) {
	loc := Timezone(tz, e.fallback)

	first, err := e.store.FirstDate(owner)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return &Total{Period: "total", Data: []MonthEntry{}}, nil
	}

	sums, err := e.store.SumsByBucket(owner, UnitMonth, nil, nil, loc)
	if err != nil {
		return nil, err
	}

	keys := MonthSequence(MonthKey(*first, loc), MonthKey(e.now(), loc))
	series := make([]MonthEntry, 0, len(keys))
	var totals Totals
	for _, key := range keys {
		s := sums[key]
		series = append(series, MonthEntry{Month: key, Income: s.Income, Expense: s.Expense, Savings: s.Savings})
		totals.Income += s.Income
		totals.Expense += s.Expense
		totals.Savings += s.Savings
	}
	totals.Balance = totals.Income - totals.Expense - totals.Savings

	return &Total{Period: "total", Data: series, Totals: totals}, nil
}

// SelectableYears is a fixed window around the current year, a UI
// convenience independent of the owner's data span.
func (e *Engine) SelectableYears() Years {
	current := e.now().In(e.fallback).Year()
	years := make([]int, 0, 11)
	for y := current - 5; y <= current+5; y++ {
		years = append(years, y)
	}
	return Years{Years: years}
}
