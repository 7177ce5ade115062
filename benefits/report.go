/*
report.go - Two-phase paginator and report assembly

PURPOSE:
  Pagination is anchored to distinct beneficiaries, not claim rows: one
  beneficiary may have many claims in range, and a naive row-level
  LIMIT/OFFSET would split a beneficiary across pages and miscount totals.

PHASES (order matters, each depends on the previous):
  1. Resolve one page of distinct beneficiary identities matching the
     filter, ordered by name then CPF.
  2. If the page is empty, skip the row expansion entirely.
  3. Re-run the filtered join restricted to exactly those identities,
     returning every matching claim row (a beneficiary's rows never split
     across pages).
  4. Count the total distinct beneficiaries matching the filter with an
     independent query, so the one-to-many claims join cannot distort it.
  5. totalPages = ceil(total / pageSize).

  When the whole filter matches nobody the result is total 0 / totalPages 0
  with an empty row set; an empty result is never an error.
*/
package benefits

import "context"

// PaginateReport runs the two-phase pagination for one page.
func PaginateReport(ctx context.Context, src ReportSource, spec FilterSpec, page, pageSize int) (PageResult, error) {
	if page < 1 || pageSize < 1 {
		return PageResult{}, ErrInvalidPage
	}

	result := PageResult{
		Rows:     []ReportRow{},
		Page:     page,
		PageSize: pageSize,
	}

	// Phase 1: resolve the page of identities.
	keys, err := src.BeneficiaryPage(ctx, spec, pageSize, (page-1)*pageSize)
	if err != nil {
		return PageResult{}, err
	}

	// Phase 3: expand to claim rows, only when the page has identities.
	if len(keys) > 0 {
		cpfs := make([]CPF, len(keys))
		for i, k := range keys {
			cpfs[i] = k.CPF
		}
		rows, err := src.ClaimRows(ctx, spec, cpfs)
		if err != nil {
			return PageResult{}, err
		}
		result.Rows = rows
	}

	// Phase 4: independent distinct count, unbounded by page.
	total, err := src.CountBeneficiaries(ctx, spec)
	if err != nil {
		return PageResult{}, err
	}
	result.Total = total
	result.TotalPages = (total + pageSize - 1) / pageSize
	return result, nil
}

// BuildReport assembles the full detailed report: builds the filter spec,
// paginates, and attaches each beneficiary's trailing 12-month spend to its
// rows. Either a complete PageResult is returned or an error, never a
// half-built one.
func BuildReport(ctx context.Context, src Store, filter ReportFilter, page, pageSize int) (PageResult, error) {
	spec, err := filter.Build()
	if err != nil {
		return PageResult{}, err
	}

	result, err := PaginateReport(ctx, src, spec, page, pageSize)
	if err != nil {
		return PageResult{}, err
	}
	if len(result.Rows) == 0 {
		return result, nil
	}

	cpfs := distinctCPFs(result.Rows)
	claims, err := src.ClaimsByCPF(ctx, cpfs)
	if err != nil {
		return PageResult{}, err
	}

	spend := TrailingSpend(claims)
	for i := range result.Rows {
		result.Rows[i].TrailingSpend = spend[result.Rows[i].CPF]
	}
	return result, nil
}

func distinctCPFs(rows []ReportRow) []CPF {
	seen := make(map[CPF]struct{}, len(rows))
	var cpfs []CPF
	for _, r := range rows {
		if _, ok := seen[r.CPF]; ok {
			continue
		}
		seen[r.CPF] = struct{}{}
		cpfs = append(cpfs, r.CPF)
	}
	return cpfs
}
