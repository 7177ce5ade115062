/*
window.go - Month arithmetic and the rolling window generator

PURPOSE:
  Months are the unit of temporal aggregation: the active-lives series is
  anchored to the last day of each month in a rolling window, and report end
  dates are normalized to the last day of their month.

EDGE CASES:
  - Windows roll back across year boundaries.
  - LastDay accounts for leap years (computed via the first day of the next
    month minus one day, same trick as time.Date normalization).
*/
package benefits

import (
	"fmt"
	"time"
)

// Month is a calendar month at year+month granularity.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM token. A malformed token is a validation
// error (ErrInvalidMonth) and must be rejected before any data access.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing the given time.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// AddMonths returns the month n months after (or before, for negative n)
// this one. time.Date normalizes month overflow in both directions.
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// FirstDay returns the first calendar day of the month (UTC midnight).
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last calendar day of the month (UTC midnight),
// leap-aware.
func (m Month) LastDay() time.Time {
	return time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// MonthWindow returns the n month anchors ending at ref, oldest first:
// ref-(n-1), ..., ref-1, ref.
func MonthWindow(ref Month, n int) []Month {
	window := make([]Month, 0, n)
	for i := n - 1; i >= 0; i-- {
		window = append(window, ref.AddMonths(-i))
	}
	return window
}

// LastDayOfMonth normalizes any date to the last calendar day of its month.
// Report end bounds are normalized this way before use.
func LastDayOfMonth(t time.Time) time.Time {
	return MonthOf(t).LastDay()
}
