package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampara/benefits-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "benefits.db", cfg.DBPath)
	assert.Equal(t, "VIVA SAUDE", cfg.DefaultOperator)
	assert.Equal(t, []string{"DENT", "AESP"}, cfg.EntityDenylist())
	assert.Equal(t, []string{"DENT", "AESP", "STANDARD"}, cfg.ReportDenylist())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Origins())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("PLAN_DENYLIST_REPORT", " DENT , ODONTO ")
	t.Setenv("CORS_ORIGINS", "https://painel.example.com,https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	// List values are trimmed and blanks dropped.
	assert.Equal(t, []string{"DENT", "ODONTO"}, cfg.ReportDenylist())
	assert.Equal(t,
		[]string{"https://painel.example.com", "https://admin.example.com"},
		cfg.Origins())
}
