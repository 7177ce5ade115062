package benefits_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampara/benefits-engine/benefits"
)

func TestMonthWindow_TwelveMonthsFromJanuary(t *testing.T) {
	// GIVEN: reference month 2024-01, window 12
	ref, err := benefits.ParseMonth("2024-01")
	require.NoError(t, err)

	// WHEN: generating the window
	window := benefits.MonthWindow(ref, 12)

	// THEN: exactly 2023-02 .. 2024-01, oldest first
	require.Len(t, window, 12)
	expected := []string{
		"2023-02", "2023-03", "2023-04", "2023-05", "2023-06", "2023-07",
		"2023-08", "2023-09", "2023-10", "2023-11", "2023-12", "2024-01",
	}
	for i, m := range window {
		assert.Equal(t, expected[i], m.String())
	}
}

func TestMonthWindow_YearBoundary(t *testing.T) {
	ref, err := benefits.ParseMonth("2023-03")
	require.NoError(t, err)

	window := benefits.MonthWindow(ref, 12)

	assert.Equal(t, "2022-04", window[0].String())
	assert.Equal(t, "2023-03", window[11].String())
}

func TestMonthLastDay_LeapYear(t *testing.T) {
	feb2024 := benefits.Month{Year: 2024, Month: time.February}
	feb2023 := benefits.Month{Year: 2023, Month: time.February}

	assert.Equal(t, 29, feb2024.LastDay().Day())
	assert.Equal(t, 28, feb2023.LastDay().Day())
	assert.Equal(t, 31, benefits.Month{Year: 2024, Month: time.December}.LastDay().Day())
}

func TestParseMonth_Malformed(t *testing.T) {
	for _, raw := range []string{"", "2024", "2024-13", "01-2024", "2024-1", "abc"} {
		_, err := benefits.ParseMonth(raw)
		assert.ErrorIs(t, err, benefits.ErrInvalidMonth, "input %q", raw)
	}
}

func TestMonthAddMonths_RollsAcrossYears(t *testing.T) {
	jan := benefits.Month{Year: 2024, Month: time.January}

	assert.Equal(t, "2023-02", jan.AddMonths(-11).String())
	assert.Equal(t, "2025-01", jan.AddMonths(12).String())
}

func TestLastDayOfMonth_NormalizesAnyDate(t *testing.T) {
	d := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), benefits.LastDayOfMonth(d))
}
