/*
errors.go - Centralized error types for the reporting engine

PURPOSE:
  All engine error kinds in one place. Two families matter to callers:

  1. Validation errors - missing/malformed required parameters. Surfaced
     before any data access; the API layer maps them to HTTP 400.
  2. Data-source errors - underlying query failures. Never retried and never
     substituted with default data; they bubble up unmodified in kind and
     the request fails as a whole (a complete PageResult or nothing).

  Zero matching beneficiaries is NOT an error; it is a valid short-circuited
  result.

USAGE:
  if benefits.IsClientError(err) {
      writeError(w, http.StatusBadRequest, ...)
  }
*/
package benefits

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingDateRange is returned when a report request lacks the
	// mandatory reference date range.
	ErrMissingDateRange = errors.New("missing reference date range")

	// ErrInvalidPeriod is returned when the reference range ends before it
	// starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidMonth is returned for month tokens not in YYYY-MM form.
	ErrInvalidMonth = errors.New("invalid month: expected YYYY-MM")

	// ErrInvalidPage is returned for non-positive page or page size.
	ErrInvalidPage = errors.New("invalid pagination: page and page size must be positive")

	// ErrMissingClock is returned when a report filter is built without an
	// explicit processing date. The engine never reads an ambient clock.
	ErrMissingClock = errors.New("processing date not set")

	// ErrMissingOperator is returned when the active-lives series is
	// requested without an operator.
	ErrMissingOperator = errors.New("operator not set")
)

// IsClientError reports whether the error is due to invalid caller input,
// as opposed to a data-source failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingDateRange) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidPage) ||
		errors.Is(err, ErrMissingClock) ||
		errors.Is(err, ErrMissingOperator)
}
