/*
series.go - Active-lives time series builder

PURPOSE:
  Produces the rolling 12-month series of active-member counts for one
  operator: for each month anchor (last day of month, oldest first) it
  counts the distinct beneficiaries whose enrollment satisfies ActiveAt.

DISTINCTNESS:
  A beneficiary may have multiple historical enrollment rows. A CPF with
  more than one row qualifying for the same anchor counts once.
*/
package benefits

import "context"

// activeLivesWindow is the series length in months: the reference month
// plus the eleven before it.
const activeLivesWindow = 12

// ActiveLivesSeries builds the monthly active-count series for one operator
// and a YYYY-MM reference month, ascending by month. A malformed reference
// fails with a validation error before any data access; the operator is a
// required filter.
func ActiveLivesSeries(ctx context.Context, src EnrollmentSource, operator, reference string) ([]SeriesPoint, error) {
	if operator == "" {
		return nil, ErrMissingOperator
	}
	ref, err := ParseMonth(reference)
	if err != nil {
		return nil, err
	}

	enrollments, err := src.EnrollmentsByOperator(ctx, operator)
	if err != nil {
		return nil, err
	}

	series := make([]SeriesPoint, 0, activeLivesWindow)
	for _, m := range MonthWindow(ref, activeLivesWindow) {
		anchor := m.LastDay()
		seen := make(map[CPF]struct{})
		for _, e := range enrollments {
			if _, ok := seen[e.CPF]; ok {
				continue
			}
			if ActiveAt(e, anchor) {
				seen[e.CPF] = struct{}{}
			}
		}
		series = append(series, SeriesPoint{Month: m.String(), Count: len(seen)})
	}
	return series, nil
}
