package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, "postgres", cfg.Database.Postgres.Driver)
	assert.Equal(t, "http://localhost:8080", cfg.App.BaseURL)
	assert.Equal(t, 8, cfg.App.ShortCodeLength)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 50000, cfg.Cache.MaxItems)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, time.Duration(0), cfg.Cache.SweepInterval)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := chdirTemp(t)

	yaml := []byte(`
app:
  base_url: https://wren.example
  short_code_length: 10
cache:
  max_items: 100
  ttl: 30s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("WREN_DATABASE_TYPE", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://wren.example", cfg.App.BaseURL)
	assert.Equal(t, 10, cfg.App.ShortCodeLength)
	assert.Equal(t, 100, cfg.Cache.MaxItems)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "./data/wren.db", cfg.GetDatabaseURL())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Type: "memory"},
			App:      AppConfig{ShortCodeLength: 8},
			Cache:    CacheConfig{Enabled: true, MaxItems: 10, TTL: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero code length", func(c *Config) { c.App.ShortCodeLength = 0 }, "short_code_length"},
		{"code length at column width", func(c *Config) { c.App.ShortCodeLength = MaxShortCodeLength }, ""},
		{"code length wider than column", func(c *Config) { c.App.ShortCodeLength = MaxShortCodeLength + 1 }, "short_code_length"},
		{"zero max items", func(c *Config) { c.Cache.MaxItems = 0 }, "max_items"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"disabled cache skips bounds", func(c *Config) { c.Cache = CacheConfig{} }, ""},
		{"unknown database", func(c *Config) { c.Database.Type = "mysql" }, "unsupported database type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
