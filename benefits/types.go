/*
Package benefits provides the beneficiary eligibility and temporal
aggregation engine behind the benefits administration dashboard.

PURPOSE:
  This package contains the domain types and algorithms for reporting on
  insured beneficiaries and their medical claims: point-in-time eligibility,
  rolling 12-month active-lives series, filtered two-phase paginated claim
  reports, and per-beneficiary trailing-spend aggregation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Enrollment: one beneficiary enrollment episode under an operator/plan
  - Claim: one medical/dental event attributed to an accounting competency
  - CPF: the national tax id used as the beneficiary identity (joins between
    enrollments and claims are by CPF value, not a strict foreign key)

DESIGN PRINCIPLES:
  1. Read-only: the engine never creates, updates, or deletes records; it
     only derives reports from what a Store hands it.
  2. Precision: claim values use decimal.Decimal, never float64.
  3. Determinism: every predicate that compares against "now" takes the
     processing date as an explicit parameter.

SEE ALSO:
  - eligibility.go: the two eligibility predicates
  - filter.go: report filter specification
  - report.go: two-phase pagination
  - spend.go: trailing 12-month spend
*/
package benefits

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// CPF is the beneficiary identity. A beneficiary may have several enrollment
// rows (historical episodes) sharing one CPF; aggregate counts are always
// distinct by CPF.
type CPF string

// StatusActive is the enrollment status flag meaning "currently enrolled".
// Any other value means inactive unless the exclusion date says otherwise.
const StatusActive = "ativo"

// =============================================================================
// ENROLLMENT - One beneficiary enrollment episode
// =============================================================================

// Enrollment is one beneficiary enrollment record under an operator/plan.
// EffectiveFrom (vigencia_inicio) is never the zero value; ExcludedAt
// (exclusao) is nil for rows that were never excluded.
type Enrollment struct {
	ID       int64
	CPF      CPF
	Name     string
	Operator string // insurance/benefits provider (operadora)
	Entity   string // employer/group (entidade)
	Plan     string // plan name, may be empty
	Type     string // beneficiary type (titular, dependente, ...)
	Status   string // raw status flag; see StatusActive
	Age      int

	EffectiveFrom time.Time  // vigencia_inicio
	ExcludedAt    *time.Time // exclusao, nil = never excluded
}

// =============================================================================
// CLAIM - One medical/dental event
// =============================================================================

// Claim is one claim record (procedimento). Competency is the accounting
// period the event is attributed to, distinct from the service date.
type Claim struct {
	CPF         CPF
	EventCode   *string // nil = not a billable event, excluded everywhere
	Description string
	Specialty   string
	Value       decimal.Decimal
	Competency  time.Time // accounting period (competencia)
	ServiceDate time.Time // service/attendance date (data_atendimento)
}

// Billable reports whether the claim counts for listings and aggregates.
// Claims without an event code are administrative noise in the source data.
func (c Claim) Billable() bool {
	return c.EventCode != nil
}

// =============================================================================
// PAGE RESULT - Output of the two-phase paginator
// =============================================================================

// BeneficiaryKey is the resolved identity of one beneficiary on a report
// page: the typed intermediate result between pagination phases. Identity
// is the CPF alone; Name is the representative spelling when enrollment
// episodes disagree.
type BeneficiaryKey struct {
	CPF  CPF
	Name string
}

// ReportRow is one enriched claim row in the detailed report: enrollment
// attributes joined with the claim event, plus the derived trailing spend.
type ReportRow struct {
	CPF      CPF    `json:"cpf"`
	Name     string `json:"name"`
	Operator string `json:"operator"`
	Entity   string `json:"entity"`
	Plan     string `json:"plan"`
	Type     string `json:"type"`
	Age      int    `json:"age"`

	EventCode   string          `json:"event_code"`
	Description string          `json:"description"`
	Specialty   string          `json:"specialty"`
	Value       decimal.Decimal `json:"value"`
	Competency  time.Time       `json:"competency"`
	ServiceDate time.Time       `json:"service_date"`

	// Sum of claim values in the 12 months ending at this beneficiary's own
	// most recent competency date. Attached after pagination.
	TrailingSpend decimal.Decimal `json:"trailing_spend"`
}

// PageResult carries one page of report rows plus pagination metadata.
// Total counts distinct beneficiaries, not claim rows, and is computed
// independently of the row fetch.
type PageResult struct {
	Rows       []ReportRow `json:"rows"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// SeriesPoint is one month of the active-lives time series.
type SeriesPoint struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"` // distinct active beneficiaries
}

// FilterOptions holds the distinct values the dashboard offers in its
// filter dropdowns. Derived per request; caching is a collaborator concern.
type FilterOptions struct {
	Operators []string `json:"operators"`
	Entities  []string `json:"entities"`
	Types     []string `json:"types"`
}
