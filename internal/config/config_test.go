package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestLoad(t *testing.T) {
	src := `
log:
  level: debug
  format: json
limits:
  max_sieve: 5000
cache:
  path: /tmp/primes
metrics:
  textfile: /tmp/primes.prom
output:
  format: json
`
	cfg, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5000, cfg.Limits.MaxSieve)
	assert.Equal(t, 0, cfg.Limits.MaxCount)
	assert.Equal(t, "/tmp/primes", cfg.Cache.Path)
	assert.Equal(t, "/tmp/primes.prom", cfg.Metrics.Textfile)
	assert.Equal(t, "json", cfg.Output.Format)

	merged := Merge(Defaults(), cfg)
	assert.Equal(t, 5000, merged.Limits.MaxSieve)
	assert.Equal(t, Defaults().Limits.MaxCount, merged.Limits.MaxCount)
	require.NoError(t, Validate(merged))
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadUnknownField(t *testing.T) {
	_, err := Load(strings.NewReader("limits:\n  max_seive: 10\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  max_count: 42\n"), 0o600))
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Limits.MaxCount)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverlay(t *testing.T) {
	over, err := EnvOverlay([]string{
		"HOME=/root",
		"PRIMES_LOG_LEVEL=warn",
		"PRIMES_MAX_SIEVE=1000",
		"PRIMES_CACHE_IN_MEMORY=true",
		"PRIMES_OUTPUT=json",
		"PRIMES_UNKNOWN=1",
	})
	require.NoError(t, err)
	assert.Equal(t, "warn", over.Log.Level)
	assert.Equal(t, 1000, over.Limits.MaxSieve)
	assert.True(t, over.Cache.InMemory)
	assert.Equal(t, "json", over.Output.Format)

	_, err = EnvOverlay([]string{"PRIMES_MAX_COUNT=many"})
	assert.ErrorContains(t, err, "PRIMES_MAX_COUNT")
}

func TestMerge(t *testing.T) {
	base := Defaults()
	got := Merge(base, Config{})
	assert.Equal(t, base, got)

	got = Merge(base, Config{Log: Log{Level: "error"}, Metrics: Metrics{Textfile: "m.prom"}})
	assert.Equal(t, "error", got.Log.Level)
	assert.Equal(t, "text", got.Log.Format)
	assert.Equal(t, "m.prom", got.Metrics.Textfile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		id     int
		mutate func(*Config)
		field  string
	}{
		{1, func(c *Config) { c.Log.Level = "loud" }, "Config.Log.Level"},
		{2, func(c *Config) { c.Log.Format = "xml" }, "Config.Log.Format"},
		{3, func(c *Config) { c.Limits.MaxSieve = 1 }, "Config.Limits.MaxSieve"},
		{4, func(c *Config) { c.Limits.MaxCount = 0 }, "Config.Limits.MaxCount"},
		{5, func(c *Config) { c.Output.Format = "yaml" }, "Config.Output.Format"},
	}
	for _, tt := range tests {
		cfg := Defaults()
		tt.mutate(&cfg)
		err := Validate(cfg)
		require.ErrorIs(t, err, ErrInvalid, "test %d", tt.id)
		assert.Contains(t, err.Error(), tt.field, "test %d", tt.id)
	}
}
