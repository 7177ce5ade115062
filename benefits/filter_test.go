package benefits_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampara/benefits-engine/benefits"
)

func baseFilter() benefits.ReportFilter {
	return benefits.ReportFilter{
		Start:        date(2024, time.January, 1),
		End:          date(2024, time.June, 1),
		Now:          date(2024, time.July, 10),
		PlanDenylist: []string{"DENT", "AESP", "STANDARD"},
	}
}

// =============================================================================
// BUILD VALIDATION
// =============================================================================

func TestReportFilterBuild_MissingDateRange(t *testing.T) {
	f := baseFilter()
	f.Start = time.Time{}

	_, err := f.Build()
	assert.ErrorIs(t, err, benefits.ErrMissingDateRange)

	f = baseFilter()
	f.End = time.Time{}

	_, err = f.Build()
	assert.ErrorIs(t, err, benefits.ErrMissingDateRange)
}

func TestReportFilterBuild_MissingClock(t *testing.T) {
	f := baseFilter()
	f.Now = time.Time{}

	_, err := f.Build()
	assert.ErrorIs(t, err, benefits.ErrMissingClock)
}

func TestReportFilterBuild_EndBeforeStart(t *testing.T) {
	f := baseFilter()
	f.Start = date(2024, time.August, 1)

	_, err := f.Build()
	assert.ErrorIs(t, err, benefits.ErrInvalidPeriod)
}

func TestReportFilterBuild_NormalizesEndToLastDayOfMonth(t *testing.T) {
	// GIVEN: an end date in the middle of February of a leap year
	f := baseFilter()
	f.End = date(2024, time.February, 10)

	spec, err := f.Build()
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.February, 29), spec.End)
}

func TestReportFilterBuild_TypeSentinelMeansNoFilter(t *testing.T) {
	f := baseFilter()
	f.BeneficiaryType = benefits.TypeAll

	spec, err := f.Build()
	require.NoError(t, err)

	assert.Empty(t, spec.BeneficiaryType)
}

// =============================================================================
// CLAUSE RENDERING
// =============================================================================

func clauseNames(spec benefits.FilterSpec) []string {
	var names []string
	for _, c := range spec.Clauses() {
		names = append(names, c.Name)
	}
	return names
}

func TestFilterSpecClauses_OptionalFiltersAreNoOps(t *testing.T) {
	// GIVEN: no operators, entities, type, or competencies
	f := baseFilter()
	f.PlanDenylist = nil

	spec, err := f.Build()
	require.NoError(t, err)

	// THEN: only the mandatory predicates render
	assert.Equal(t,
		[]string{"enrollment_started", "enrollment_active", "billable_claim", "competency_range"},
		clauseNames(spec))
}

func TestFilterSpecClauses_AllFiltersRender(t *testing.T) {
	f := baseFilter()
	f.Operators = []string{"VIVA SAUDE", "PLENA"}
	f.Entities = []string{"ACME"}
	f.BeneficiaryType = "titular"
	f.Competencies = []benefits.Month{{Year: 2024, Month: time.March}}

	spec, err := f.Build()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{
			"enrollment_started", "enrollment_active", "billable_claim",
			"competency_in", "operator_in", "entity_in", "beneficiary_type",
			"plan_not_like", "plan_not_like", "plan_not_like",
		},
		clauseNames(spec))
}

func TestFilterSpecClauses_OnlyPlaceholders(t *testing.T) {
	// No bound value may appear in the SQL text itself.
	f := baseFilter()
	f.Operators = []string{"VIVA SAUDE"}
	f.BeneficiaryType = "titular"

	spec, err := f.Build()
	require.NoError(t, err)

	for _, c := range spec.Clauses() {
		assert.NotContains(t, c.SQL, "VIVA", "clause %s leaks a value", c.Name)
		assert.NotContains(t, c.SQL, "titular", "clause %s leaks a value", c.Name)
		assert.NotContains(t, c.SQL, "2024", "clause %s leaks a value", c.Name)
	}
}

// =============================================================================
// IN-MEMORY EVALUATION
// =============================================================================

func TestFilterSpecMatchEnrollment(t *testing.T) {
	f := baseFilter()
	f.Operators = []string{"VIVA SAUDE"}
	spec, err := f.Build()
	require.NoError(t, err)

	e := benefits.Enrollment{
		CPF:           "111",
		Operator:      "VIVA SAUDE",
		Plan:          "SAUDE TOTAL",
		Status:        benefits.StatusActive,
		EffectiveFrom: date(2023, time.January, 1),
	}
	assert.True(t, spec.MatchEnrollment(e))

	e.Operator = "OUTRA"
	assert.False(t, spec.MatchEnrollment(e), "operator filter applies")

	e.Operator = "VIVA SAUDE"
	e.Plan = "PLANO DENTAL"
	assert.False(t, spec.MatchEnrollment(e), "plan denylist applies")

	e.Plan = ""
	assert.True(t, spec.MatchEnrollment(e), "empty plan passes the denylist")
}

func TestFilterSpecMatchClaim_RangeInclusive(t *testing.T) {
	spec, err := baseFilter().Build()
	require.NoError(t, err)

	c := benefits.Claim{CPF: "111", EventCode: strPtr("1"), Value: decimal.NewFromInt(10)}

	c.Competency = date(2024, time.January, 1)
	assert.True(t, spec.MatchClaim(c), "start bound is inclusive")

	c.Competency = date(2024, time.June, 30)
	assert.True(t, spec.MatchClaim(c), "normalized end bound is inclusive")

	c.Competency = date(2024, time.July, 1)
	assert.False(t, spec.MatchClaim(c))

	c.Competency = date(2024, time.March, 15)
	c.EventCode = nil
	assert.False(t, spec.MatchClaim(c), "non-billable claims never match")
}

func TestFilterSpecMatchClaim_ExplicitCompetencies(t *testing.T) {
	f := baseFilter()
	f.Competencies = []benefits.Month{{Year: 2024, Month: time.March}}
	spec, err := f.Build()
	require.NoError(t, err)

	c := benefits.Claim{CPF: "111", EventCode: strPtr("1")}

	c.Competency = date(2024, time.March, 1)
	assert.True(t, spec.MatchClaim(c), "first day of a listed month matches")

	c.Competency = date(2024, time.March, 15)
	assert.False(t, spec.MatchClaim(c), "only the month's first day matches exactly")

	c.Competency = date(2024, time.April, 1)
	assert.False(t, spec.MatchClaim(c), "months outside the list never match")
}
