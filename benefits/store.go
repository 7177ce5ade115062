/*
store.go - Data-source interfaces consumed by the engine

PURPOSE:
  The engine reads two tabular sources (beneficiary enrollments and claims)
  through these interfaces; the transport is a store concern. Two
  implementations exist: store/sqlite (production) and benefits/store
  (in-memory, for tests). Both must render a FilterSpec identically.

CONTRACT:
  All methods are read-only. A failure is fatal for the current request:
  no retries, no partial results, no substituted defaults.
*/
package benefits

import "context"

// EnrollmentSource feeds the active-lives series.
type EnrollmentSource interface {
	// EnrollmentsByOperator returns every enrollment row of one operator.
	EnrollmentsByOperator(ctx context.Context, operator string) ([]Enrollment, error)
}

// ReportSource feeds the two-phase paginator. The three methods correspond
// to the three independent queries of the pagination design.
type ReportSource interface {
	// BeneficiaryPage resolves the beneficiary identities matching the spec
	// (enrollment predicates AND at least one matching billable claim),
	// distinct by CPF: episodes spelling the name differently still yield
	// one identity, represented by the smallest spelling. Ordered by name
	// then CPF, skipping offset and taking limit.
	BeneficiaryPage(ctx context.Context, spec FilterSpec, limit, offset int) ([]BeneficiaryKey, error)

	// ClaimRows returns every matching claim row for exactly the given
	// beneficiaries, enriched with enrollment attributes, ordered by name
	// ascending then competency descending. Not re-paginated.
	ClaimRows(ctx context.Context, spec FilterSpec, cpfs []CPF) ([]ReportRow, error)

	// CountBeneficiaries returns the total distinct beneficiary count
	// matching the spec, unbounded by page.
	CountBeneficiaries(ctx context.Context, spec FilterSpec) (int, error)
}

// ClaimSource feeds the trailing-spend aggregator.
type ClaimSource interface {
	// ClaimsByCPF returns all billable claims of the given beneficiaries,
	// NOT restricted to any report range: the trailing window is anchored
	// to each beneficiary's own latest competency.
	ClaimsByCPF(ctx context.Context, cpfs []CPF) ([]Claim, error)
}

// OptionSource feeds the dashboard filter dropdowns.
type OptionSource interface {
	// FilterOptions returns the distinct operator, entity, and beneficiary
	// type values present in the enrollment data, sorted.
	FilterOptions(ctx context.Context) (FilterOptions, error)
}

// Store is the full data-source surface.
type Store interface {
	EnrollmentSource
	ReportSource
	ClaimSource
	OptionSource
}
