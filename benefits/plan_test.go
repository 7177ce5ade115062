package benefits_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ampara/benefits-engine/benefits"
)

func TestPlanFilter_CaseInsensitiveSubstring(t *testing.T) {
	f := benefits.NewPlanFilter("DENT", "AESP")

	assert.False(t, f.Include("ODONTO DENTAL PLUS"))
	assert.False(t, f.Include("odonto dental plus"), "matching is case-insensitive")
	assert.False(t, f.Include("plano aesp basico"))
	assert.True(t, f.Include("SAUDE TOTAL"))
	assert.True(t, f.Include("AES"), "partial denylist term does not match")
}

func TestPlanFilter_PerCallSiteDenylists(t *testing.T) {
	// The entity listing runs the narrow denylist, the detailed report the
	// broad one; the same plan can pass one and fail the other.
	narrow := benefits.NewPlanFilter("DENT", "AESP")
	broad := benefits.NewPlanFilter("DENT", "AESP", "STANDARD")

	assert.True(t, narrow.Include("STANDARD NACIONAL"))
	assert.False(t, broad.Include("STANDARD NACIONAL"))
}

func TestPlanFilter_EmptyPlanIncluded(t *testing.T) {
	f := benefits.NewPlanFilter("DENT", "AESP", "STANDARD")

	// An empty name matches no denylist term.
	assert.True(t, f.Include(""))
}

func TestPlanFilter_ZeroValueIncludesEverything(t *testing.T) {
	var f benefits.PlanFilter

	assert.True(t, f.Include("DENTAL"))
	assert.True(t, f.Include(""))
}

func TestNewPlanFilter_NormalizesTerms(t *testing.T) {
	f := benefits.NewPlanFilter(" dent ", "", "aesp")

	assert.Equal(t, []string{"DENT", "AESP"}, f.Terms())
	assert.False(t, f.Include("Plano Dentario"))
}
