package report

import (
	"fmt"
	"time"
)

// Unit is a calendar interval transactions are bucketed into.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

const (
	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "2006-01"
	yearKeyFormat  = "2006"
)

// Key returns the bucket key of t for the given unit, computed in loc.
// Week buckets are keyed by the date of their first day.
func Key(unit Unit, t time.Time, loc *time.Location) string {
	switch unit {
	case UnitWeek:
		return WeekStart(t, loc, time.Monday).Format(dayKeyFormat)
	case UnitMonth:
		return t.In(loc).Format(monthKeyFormat)
	case UnitYear:
		return t.In(loc).Format(yearKeyFormat)
	default:
		return t.In(loc).Format(dayKeyFormat)
	}
}

// DayKey returns the calendar date of t in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyFormat)
}

// MonthKey returns the calendar month of t in loc as YYYY-MM.
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthKeyFormat)
}

// WeekStart returns midnight of the week containing t, computed in loc.
// The week begins on start (Monday unless configured otherwise). Two
// instants share a week bucket iff their WeekStart values are equal.
func WeekStart(t time.Time, loc *time.Location, start time.Weekday) time.Time {
	lt := t.In(loc)
	back := (int(lt.Weekday()) - int(start) + 7) % 7
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -back)
}

// DayKeys returns n consecutive date keys starting at the calendar day
// of start in loc. Date arithmetic keeps the sequence dense across DST
// transitions, where adding 24h would skip or repeat a day.
func DayKeys(start time.Time, n int, loc *time.Location) []string {
	lt := start.In(loc)
	base := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, base.AddDate(0, 0, i).Format(dayKeyFormat))
	}
	return keys
}

// MonthKeysOfYear returns the 12 month keys of a calendar year.
func MonthKeysOfYear(year int) []string {
	keys := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		keys = append(keys, fmt.Sprintf("%04d-%02d", year, m))
	}
	return keys
}

// MonthSequence returns every month key from first to last inclusive,
// in order, rolling over year boundaries (2023-12 -> 2024-01). Returns
// nil when either key is malformed or first is after last.
func MonthSequence(first, last string) []string {
	fy, fm, err := parseMonthKey(first)
	if err != nil {
		return nil
	}
	ly, lm, err := parseMonthKey(last)
	if err != nil {
		return nil
	}
	if fy > ly || (fy == ly && fm > lm) {
		return nil
	}
	var keys []string
	for y, m := fy, fm; y < ly || (y == ly && m <= lm); {
		keys = append(keys, fmt.Sprintf("%04d-%02d", y, m))
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return keys
}

func parseMonthKey(key string) (year, month int, err error) {
	if _, err = fmt.Sscanf(key, "%4d-%2d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q", key)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month key %q", key)
	}
	return year, month, nil
}

// Timezone resolves an IANA timezone name, falling back to fallback
// and finally UTC. Callers pass the request's tz parameter verbatim.
func Timezone(name string, fallback *time.Location) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}
