/*
plan.go - Plan-name exclusion filter

PURPOSE:
  Classifies a plan name as included/excluded based on a substring denylist.
  The dashboard runs two configured denylists: a narrow one for the entity
  listing report and a broader one for the detailed beneficiary report, so
  the denylist is per call site, never a single hardcoded set.

MATCHING:
  Case-insensitive: the plan name is uppercased and rejected when any
  denylist term is a substring. An empty plan name matches no term and is
  therefore included; call sites that require a non-empty plan filter on
  that explicitly.
*/
package benefits

import "strings"

// PlanFilter rejects plan names containing any of a set of denylist terms.
// The zero value includes everything.
type PlanFilter struct {
	terms []string
}

// NewPlanFilter builds a filter from denylist terms. Terms are matched
// case-insensitively; blank terms are dropped.
func NewPlanFilter(terms ...string) PlanFilter {
	f := PlanFilter{}
	for _, t := range terms {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			f.terms = append(f.terms, t)
		}
	}
	return f
}

// Include reports whether the plan name passes the denylist.
func (f PlanFilter) Include(plan string) bool {
	name := strings.ToUpper(plan)
	for _, t := range f.terms {
		if strings.Contains(name, t) {
			return false
		}
	}
	return true
}

// Terms returns the normalized denylist, in the order given.
func (f PlanFilter) Terms() []string {
	return f.terms
}
