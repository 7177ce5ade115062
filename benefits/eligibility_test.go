package benefits_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ampara/benefits-engine/benefits"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := date(year, month, day)
	return &t
}

func enrollment(cpf, status string, from time.Time, excluded *time.Time) benefits.Enrollment {
	return benefits.Enrollment{
		CPF:           benefits.CPF(cpf),
		Name:          "Beneficiary " + cpf,
		Operator:      "VIVA SAUDE",
		Status:        status,
		EffectiveFrom: from,
		ExcludedAt:    excluded,
	}
}

// =============================================================================
// POINT-IN-TIME PREDICATE (ActiveAt)
// =============================================================================

func TestActiveAt(t *testing.T) {
	ref := date(2024, time.June, 30)

	tests := []struct {
		name   string
		e      benefits.Enrollment
		active bool
	}{
		{
			name:   "started, never excluded, status ativo",
			e:      enrollment("1", "ativo", date(2023, time.January, 1), nil),
			active: true,
		},
		{
			name:   "started, never excluded, status not ativo",
			e:      enrollment("2", "cancelado", date(2023, time.January, 1), nil),
			active: false,
		},
		{
			name:   "not yet started",
			e:      enrollment("3", "ativo", date(2024, time.July, 1), nil),
			active: false,
		},
		{
			name:   "started exactly on reference date",
			e:      enrollment("4", "ativo", ref, nil),
			active: true,
		},
		{
			name:   "excluded after reference date",
			e:      enrollment("5", "ativo", date(2023, time.January, 1), datePtr(2024, time.July, 15)),
			active: true,
		},
		{
			name: "excluded before reference date, stale ativo status not trusted",
			e:    enrollment("6", "ativo", date(2023, time.January, 1), datePtr(2024, time.March, 1)),
			// A past exclusion wins over the status flag.
			active: false,
		},
		{
			name:   "excluded exactly on reference date is inactive (strict >)",
			e:      enrollment("7", "ativo", date(2023, time.January, 1), datePtr(2024, time.June, 30)),
			active: false,
		},
		{
			name:   "excluded with non-ativo status but exclusion in the future",
			e:      enrollment("8", "cancelado", date(2023, time.January, 1), datePtr(2024, time.December, 31)),
			active: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, benefits.ActiveAt(tt.e, ref))
		})
	}
}

// =============================================================================
// REPORT PREDICATE (ActiveForReport)
// =============================================================================

func TestActiveForReport_FutureExclusionRelativeToNow(t *testing.T) {
	// GIVEN: a report over January 2024 and a processing date in June 2024
	end := date(2024, time.January, 31)
	now := date(2024, time.June, 15)

	// WHEN: the beneficiary's exclusion is in July 2024 - after now but
	// also after end, active under both branches
	e := enrollment("1", "ativo", date(2023, time.January, 1), datePtr(2024, time.July, 1))
	assert.True(t, benefits.ActiveForReport(e, end, now))

	// WHEN: the exclusion is in March 2024 - before now but after the
	// report end; still active for this report
	e = enrollment("2", "ativo", date(2023, time.January, 1), datePtr(2024, time.March, 1))
	assert.True(t, benefits.ActiveForReport(e, end, now))

	// WHEN: the exclusion precedes both the report end and now
	e = enrollment("3", "ativo", date(2022, time.January, 1), datePtr(2023, time.December, 1))
	assert.False(t, benefits.ActiveForReport(e, end, now))
}

func TestActiveForReport_DiffersFromActiveAt(t *testing.T) {
	// The report rule keeps a beneficiary whose exclusion is scheduled for
	// the real-world future even inside a past period; the point-in-time
	// rule over the same end date agrees here, but the two diverge when
	// the exclusion sits between end and now.
	end := date(2024, time.January, 31)
	now := date(2024, time.June, 15)

	e := enrollment("1", "ativo", date(2023, time.January, 1), datePtr(2024, time.March, 1))

	assert.True(t, benefits.ActiveForReport(e, end, now))
	assert.True(t, benefits.ActiveAt(e, end))
	assert.False(t, benefits.ActiveAt(e, now), "point-in-time at now: already excluded")
}

func TestActiveForReport_ExclusionOnEndDateBoundary(t *testing.T) {
	// GIVEN: exclusion exactly equal to the report end and to now
	end := date(2024, time.June, 30)
	e := enrollment("1", "ativo", date(2023, time.January, 1), datePtr(2024, time.June, 30))

	// THEN: strict > on both comparisons means inactive
	assert.False(t, benefits.ActiveForReport(e, end, end))
}
