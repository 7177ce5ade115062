/*
spend.go - Trailing 12-month spend aggregator

PURPOSE:
  For each beneficiary on a report page, sums claim values over the 12
  months ending at that beneficiary's OWN most recent competency date. The
  window is relative to the beneficiary's latest activity, not the report's
  requested range: a beneficiary whose last claim predates the report window
  still gets a trailing sum anchored to their own data.

WINDOW:
  Closed interval [first day of (latest month - 11), latest]. With a latest
  competency of 2024-06-15 the window covers 2023-07-01 through 2024-06-15.
*/
package benefits

import (
	"time"

	"github.com/shopspring/decimal"
)

// trailingWindowMonths is the aggregation window: the latest competency's
// month plus the eleven before it.
const trailingWindowMonths = 12

// TrailingSpend computes, per beneficiary, the sum of billable claim values
// within the trailing window anchored at that beneficiary's latest
// competency date. Beneficiaries with no billable claims are simply absent
// from the result; map lookups for them yield a zero decimal.
func TrailingSpend(claims []Claim) map[CPF]decimal.Decimal {
	latest := make(map[CPF]time.Time)
	for _, c := range claims {
		if !c.Billable() {
			continue
		}
		if c.Competency.After(latest[c.CPF]) {
			latest[c.CPF] = c.Competency
		}
	}

	sums := make(map[CPF]decimal.Decimal, len(latest))
	for _, c := range claims {
		if !c.Billable() {
			continue
		}
		anchor := latest[c.CPF]
		floor := MonthOf(anchor).AddMonths(-(trailingWindowMonths - 1)).FirstDay()
		if c.Competency.Before(floor) || c.Competency.After(anchor) {
			continue
		}
		sums[c.CPF] = sums[c.CPF].Add(c.Value)
	}
	return sums
}
