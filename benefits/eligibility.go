/*
eligibility.go - The two beneficiary eligibility predicates

PURPOSE:
  Decides whether an enrollment row counts as an "active life". There are
  two deliberately separate rules:

  ActiveAt        point-in-time-in-the-past reading, used by the
                  active-lives time series. An exclusion date strictly
                  after the reference date keeps the row active; a past
                  exclusion wins over a stale "ativo" status flag.

  ActiveForReport currently-still-valid reading, embedded in the report
                  filters. It additionally treats an exclusion date in the
                  real-world future (relative to the processing date) as
                  active even when it precedes the report's end date.

  The two look similar but encode different business semantics. They are
  kept as independent named predicates; do not unify them without product
  sign-off.

DETERMINISM:
  Both are pure functions. The processing date is an explicit parameter,
  never read from an ambient clock.
*/
package benefits

import "time"

// ActiveAt reports whether the enrollment was active on the reference date.
//
// Active iff the enrollment had started (vigencia_inicio <= ref) and either
// the row was never excluded and still carries the "ativo" status, or the
// exclusion happens strictly after ref. An exclusion exactly on ref means
// inactive: the comparison is strict.
func ActiveAt(e Enrollment, ref time.Time) bool {
	if e.EffectiveFrom.After(ref) {
		return false
	}
	if e.ExcludedAt == nil {
		return e.Status == StatusActive
	}
	return e.ExcludedAt.After(ref)
}

// ActiveForReport is the report-scoped eligibility rule: active iff the
// enrollment started on or before the report end date and either the row was
// never excluded and still carries the "ativo" status, or the exclusion date
// is strictly after the processing date OR strictly after the report end.
//
// The extra "after now" branch keeps beneficiaries whose exclusion is already
// scheduled but not yet effective inside reports over past periods.
func ActiveForReport(e Enrollment, end, now time.Time) bool {
	if e.EffectiveFrom.After(end) {
		return false
	}
	if e.ExcludedAt == nil {
		return e.Status == StatusActive
	}
	return e.ExcludedAt.After(now) || e.ExcludedAt.After(end)
}
