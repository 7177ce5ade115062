// Package config loads server configuration from the environment (and an
// optional .env file) via viper. Everything the engine treats as "must be
// configurable, not hardcoded" lives here: the default operator for the
// active-lives series and the two plan denylists.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	DBPath string `mapstructure:"DB_PATH"`

	// DefaultOperator is the operator used by the active-lives dashboard
	// panel when the request does not name one.
	DefaultOperator string `mapstructure:"DEFAULT_OPERATOR"`

	// Plan-name denylists, comma-separated. The entity listing uses the
	// narrow list; the detailed beneficiary report uses the broad one.
	PlanDenylistEntity string `mapstructure:"PLAN_DENYLIST_ENTITY"`
	PlanDenylistReport string `mapstructure:"PLAN_DENYLIST_REPORT"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	// A missing .env is fine; the environment still applies.
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PATH", "benefits.db")
	v.SetDefault("DEFAULT_OPERATOR", "VIVA SAUDE")
	v.SetDefault("PLAN_DENYLIST_ENTITY", "DENT,AESP")
	v.SetDefault("PLAN_DENYLIST_REPORT", "DENT,AESP,STANDARD")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")

	// Bind env vars explicitly so Unmarshal picks them up
	keys := []string{
		"PORT", "ENV", "DB_PATH", "DEFAULT_OPERATOR",
		"PLAN_DENYLIST_ENTITY", "PLAN_DENYLIST_REPORT", "CORS_ORIGINS",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EntityDenylist returns the narrow plan denylist as terms.
func (c *Config) EntityDenylist() []string {
	return splitList(c.PlanDenylistEntity)
}

// ReportDenylist returns the broad plan denylist as terms.
func (c *Config) ReportDenylist() []string {
	return splitList(c.PlanDenylistReport)
}

// Origins returns the allowed CORS origins.
func (c *Config) Origins() []string {
	return splitList(c.CORSOrigins)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
