/*
filter.go - Report filter specification and builder

PURPOSE:
  Assembles the dynamic predicate set of the detailed reports (operator,
  entity, beneficiary type, plan denylist, date range or explicit competency
  months) into a reproducible FilterSpec. Every optional filter that is
  absent is a no-op; only the date range, the plan denylist, and the
  report eligibility rule are always applied.

TWO RENDERINGS:
  A FilterSpec can be consumed two ways, and both must agree:

  - Clauses() produces the named predicate list (SQL fragment + bound args)
    that the sqlite store composes into a WHERE clause. Fragments reference
    the canonical join aliases b (beneficiarios) and p (procedimentos) and
    use ? placeholders only; no value is ever concatenated into SQL.
  - MatchEnrollment/MatchClaim evaluate the same predicates in Go, used by
    the in-memory store and by tests.

NORMALIZATION:
  The end bound is normalized to the last calendar day of its month before
  use; range bounds are inclusive. When explicit competency months are
  given, claim competencies must equal one of those months' first day
  instead of falling in the range.
*/
package benefits

import "time"

// TypeAll is the beneficiary-type sentinel meaning "no type filter".
const TypeAll = "Todos"

const dateLayout = "2006-01-02"

// ReportFilter carries the raw report parameters. Now is the processing
// date used by the report eligibility rule; it is required and must be
// injected by the caller.
type ReportFilter struct {
	Start time.Time
	End   time.Time
	Now   time.Time

	Operators       []string
	Entities        []string
	BeneficiaryType string  // "" or TypeAll = no filter
	Competencies    []Month // exact competency months, overrides the range
	PlanDenylist    []string
}

// Build validates the parameters and produces the filter specification.
// Validation failures happen here, before any data access.
func (f ReportFilter) Build() (FilterSpec, error) {
	if f.Start.IsZero() || f.End.IsZero() {
		return FilterSpec{}, ErrMissingDateRange
	}
	if f.Now.IsZero() {
		return FilterSpec{}, ErrMissingClock
	}
	end := LastDayOfMonth(f.End)
	if end.Before(f.Start) {
		return FilterSpec{}, ErrInvalidPeriod
	}

	spec := FilterSpec{
		Start:     f.Start,
		End:       end,
		Now:       f.Now,
		Operators: f.Operators,
		Entities:  f.Entities,
		Plan:      NewPlanFilter(f.PlanDenylist...),
	}
	if f.BeneficiaryType != "" && f.BeneficiaryType != TypeAll {
		spec.BeneficiaryType = f.BeneficiaryType
	}
	for _, m := range f.Competencies {
		spec.Competencies = append(spec.Competencies, m.FirstDay())
	}
	return spec, nil
}

// FilterSpec is the composed, validated predicate set. Request-scoped and
// immutable once built.
type FilterSpec struct {
	Start time.Time // inclusive
	End   time.Time // inclusive, last day of its month
	Now   time.Time // processing date for the eligibility rule

	Operators       []string
	Entities        []string
	BeneficiaryType string      // "" = no filter
	Competencies    []time.Time // first-day-of-month values; empty = use range
	Plan            PlanFilter
}

// Clause is one named predicate with its bound parameters.
type Clause struct {
	Name string
	SQL  string
	Args []any
}

// Clauses returns the predicate list in a fixed order. Date arguments are
// bound as YYYY-MM-DD strings, matching the store's date encoding, so
// lexicographic comparison is chronological.
func (s FilterSpec) Clauses() []Clause {
	end := s.End.Format(dateLayout)
	now := s.Now.Format(dateLayout)

	clauses := []Clause{
		{
			Name: "enrollment_started",
			SQL:  "b.vigencia_inicio <= ?",
			Args: []any{end},
		},
		{
			// The report eligibility rule: never excluded and flagged ativo,
			// or excluded strictly after now or after the report end.
			Name: "enrollment_active",
			SQL: "((b.exclusao IS NULL AND b.situacao = ?) OR " +
				"(b.exclusao IS NOT NULL AND (b.exclusao > ? OR b.exclusao > ?)))",
			Args: []any{StatusActive, now, end},
		},
		{
			Name: "billable_claim",
			SQL:  "p.codigo_evento IS NOT NULL",
		},
	}

	if len(s.Competencies) > 0 {
		args := make([]any, len(s.Competencies))
		for i, c := range s.Competencies {
			args[i] = c.Format(dateLayout)
		}
		clauses = append(clauses, Clause{
			Name: "competency_in",
			SQL:  "p.competencia IN (" + placeholders(len(args)) + ")",
			Args: args,
		})
	} else {
		clauses = append(clauses, Clause{
			Name: "competency_range",
			SQL:  "p.competencia >= ? AND p.competencia <= ?",
			Args: []any{s.Start.Format(dateLayout), end},
		})
	}

	if len(s.Operators) > 0 {
		clauses = append(clauses, Clause{
			Name: "operator_in",
			SQL:  "b.operadora IN (" + placeholders(len(s.Operators)) + ")",
			Args: toAnySlice(s.Operators),
		})
	}
	if len(s.Entities) > 0 {
		clauses = append(clauses, Clause{
			Name: "entity_in",
			SQL:  "b.entidade IN (" + placeholders(len(s.Entities)) + ")",
			Args: toAnySlice(s.Entities),
		})
	}
	if s.BeneficiaryType != "" {
		clauses = append(clauses, Clause{
			Name: "beneficiary_type",
			SQL:  "b.tipo = ?",
			Args: []any{s.BeneficiaryType},
		})
	}

	for _, term := range s.Plan.Terms() {
		clauses = append(clauses, Clause{
			Name: "plan_not_like",
			SQL:  "(b.plano IS NULL OR UPPER(b.plano) NOT LIKE ?)",
			Args: []any{"%" + term + "%"},
		})
	}

	return clauses
}

// MatchEnrollment evaluates the enrollment-side predicates in Go. It must
// agree with the b.* clauses rendered by Clauses().
func (s FilterSpec) MatchEnrollment(e Enrollment) bool {
	if !ActiveForReport(e, s.End, s.Now) {
		return false
	}
	if len(s.Operators) > 0 && !containsString(s.Operators, e.Operator) {
		return false
	}
	if len(s.Entities) > 0 && !containsString(s.Entities, e.Entity) {
		return false
	}
	if s.BeneficiaryType != "" && e.Type != s.BeneficiaryType {
		return false
	}
	return s.Plan.Include(e.Plan)
}

// MatchClaim evaluates the claim-side predicates in Go. It must agree with
// the p.* clauses rendered by Clauses().
func (s FilterSpec) MatchClaim(c Claim) bool {
	if !c.Billable() {
		return false
	}
	if len(s.Competencies) > 0 {
		for _, m := range s.Competencies {
			if c.Competency.Equal(m) {
				return true
			}
		}
		return false
	}
	return !c.Competency.Before(s.Start) && !c.Competency.After(s.End)
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	out := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
