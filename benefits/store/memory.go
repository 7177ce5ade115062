// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ampara/benefits-engine/benefits"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds enrollment and claim rows in slices and evaluates filter
// specs in Go via FilterSpec.MatchEnrollment/MatchClaim. Its results must
// match what the sqlite store produces for the same data and spec.
type Memory struct {
	mu          sync.RWMutex
	enrollments []benefits.Enrollment
	claims      []benefits.Claim
}

func NewMemory() *Memory {
	return &Memory{}
}

// AddEnrollment seeds an enrollment row.
func (m *Memory) AddEnrollment(e benefits.Enrollment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments = append(m.enrollments, e)
}

// AddClaim seeds a claim row.
func (m *Memory) AddClaim(c benefits.Claim) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims = append(m.claims, c)
}

// EnrollmentsByOperator implements benefits.EnrollmentSource.
func (m *Memory) EnrollmentsByOperator(_ context.Context, operator string) ([]benefits.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []benefits.Enrollment
	for _, e := range m.enrollments {
		if e.Operator == operator {
			result = append(result, e)
		}
	}
	return result, nil
}

// BeneficiaryPage implements phase 1: identities distinct by CPF with at
// least one matching billable claim, ordered by name then CPF, offset/limit
// applied.
func (m *Memory) BeneficiaryPage(ctx context.Context, spec benefits.FilterSpec, limit, offset int) ([]benefits.BeneficiaryKey, error) {
	keys, err := m.matchingKeys(ctx, spec)
	if err != nil {
		return nil, err
	}
	if offset >= len(keys) {
		return nil, nil
	}
	keys = keys[offset:]
	if limit < len(keys) {
		keys = keys[:limit]
	}
	return keys, nil
}

// ClaimRows implements phase 3: the full filtered join restricted to the
// given identities, one row per matching (enrollment, claim) pair, ordered
// by name ascending then competency descending.
func (m *Memory) ClaimRows(_ context.Context, spec benefits.FilterSpec, cpfs []benefits.CPF) ([]benefits.ReportRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[benefits.CPF]struct{}, len(cpfs))
	for _, cpf := range cpfs {
		wanted[cpf] = struct{}{}
	}

	var rows []benefits.ReportRow
	for _, e := range m.enrollments {
		if _, ok := wanted[e.CPF]; !ok {
			continue
		}
		if !spec.MatchEnrollment(e) {
			continue
		}
		for _, c := range m.claims {
			if c.CPF != e.CPF || !spec.MatchClaim(c) {
				continue
			}
			rows = append(rows, benefits.ReportRow{
				CPF:         e.CPF,
				Name:        e.Name,
				Operator:    e.Operator,
				Entity:      e.Entity,
				Plan:        e.Plan,
				Type:        e.Type,
				Age:         e.Age,
				EventCode:   *c.EventCode,
				Description: c.Description,
				Specialty:   c.Specialty,
				Value:       c.Value,
				Competency:  c.Competency,
				ServiceDate: c.ServiceDate,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Competency.After(rows[j].Competency)
	})
	return rows, nil
}

// CountBeneficiaries implements phase 4: the distinct count, unbounded.
func (m *Memory) CountBeneficiaries(ctx context.Context, spec benefits.FilterSpec) (int, error) {
	keys, err := m.matchingKeys(ctx, spec)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// ClaimsByCPF implements benefits.ClaimSource: billable claims only, not
// bounded by any report range.
func (m *Memory) ClaimsByCPF(_ context.Context, cpfs []benefits.CPF) ([]benefits.Claim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[benefits.CPF]struct{}, len(cpfs))
	for _, cpf := range cpfs {
		wanted[cpf] = struct{}{}
	}

	var claims []benefits.Claim
	for _, c := range m.claims {
		if _, ok := wanted[c.CPF]; !ok {
			continue
		}
		if !c.Billable() {
			continue
		}
		claims = append(claims, c)
	}
	return claims, nil
}

// FilterOptions implements benefits.OptionSource.
func (m *Memory) FilterOptions(_ context.Context) (benefits.FilterOptions, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	operators := make(map[string]struct{})
	entities := make(map[string]struct{})
	types := make(map[string]struct{})
	for _, e := range m.enrollments {
		if e.Operator != "" {
			operators[e.Operator] = struct{}{}
		}
		if e.Entity != "" {
			entities[e.Entity] = struct{}{}
		}
		if e.Type != "" {
			types[e.Type] = struct{}{}
		}
	}
	return benefits.FilterOptions{
		Operators: sortedKeys(operators),
		Entities:  sortedKeys(entities),
		Types:     sortedKeys(types),
	}, nil
}

// matchingKeys resolves the identities matching the spec, distinct by CPF:
// the enrollment predicates AND at least one matching billable claim. A CPF
// whose episodes spell the name differently still yields one identity; the
// lexicographically smallest spelling represents it, as the sqlite store's
// MIN(nome) does. Sorted by name then CPF for determinism.
func (m *Memory) matchingKeys(_ context.Context, spec benefits.FilterSpec) ([]benefits.BeneficiaryKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make(map[benefits.CPF]string)
	for _, e := range m.enrollments {
		if !spec.MatchEnrollment(e) {
			continue
		}
		if !m.hasMatchingClaim(e.CPF, spec) {
			continue
		}
		if cur, ok := names[e.CPF]; !ok || e.Name < cur {
			names[e.CPF] = e.Name
		}
	}

	keys := make([]benefits.BeneficiaryKey, 0, len(names))
	for cpf, name := range names {
		keys = append(keys, benefits.BeneficiaryKey{CPF: cpf, Name: name})
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].CPF < keys[j].CPF
	})
	return keys, nil
}

func (m *Memory) hasMatchingClaim(cpf benefits.CPF, spec benefits.FilterSpec) bool {
	for _, c := range m.claims {
		if c.CPF == cpf && spec.MatchClaim(c) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
