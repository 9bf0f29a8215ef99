package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 100, cfg.Seed.Limit)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "retail.yaml", `
database: shop.db
env: production
log:
  level: warn
seed:
  limit: 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shop.db", cfg.Database)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 25, cfg.Seed.Limit)
	assert.Equal(t, 64, cfg.IDs.MaxAttempts, "unset keys keep defaults")
}

func TestLoad_DotenvAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "retail.yaml", "database: file.db\n")
	writeFile(t, dir, ".env", "RETAIL_DATABASE=dotenv.db\nRETAIL_SEED_LIMIT=7\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dotenv.db", cfg.Database)
	assert.Equal(t, 7, cfg.Seed.Limit)

	t.Setenv("RETAIL_DATABASE", "env.db")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Database, "process environment wins over .env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_BadInteger(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RETAIL_REPORT_MAX_ROWS", "many")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETAIL_REPORT_MAX_ROWS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database", func(c *Config) { c.Database = "" }},
		{"unknown env", func(c *Config) { c.Env = "staging" }},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }},
		{"zero attempts", func(c *Config) { c.IDs.MaxAttempts = 0 }},
		{"zero seed limit", func(c *Config) { c.Seed.Limit = 0 }},
		{"too many rows", func(c *Config) { c.Report.MaxRows = 20000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}

	assert.NoError(t, Validate(Default()))
}
