package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geofduf/primes/internal/logging"
	"github.com/geofduf/primes/internal/persist"
	"github.com/geofduf/primes/prime"
)

// runCLI executes args with the given environment and returns stdout,
// stderr and the error returned by the command.
func runCLI(t *testing.T, env []string, args ...string) (string, string, error) {
	t.Helper()
	a := newApp()
	a.environ = func() []string { return env }
	var stdout, stderr bytes.Buffer
	err := execute(a, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitFailure
}

func TestCheck(t *testing.T) {
	out, _, err := runCLI(t, nil, "check", "1", "2", "3", "4", "17", "100")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"1 is not prime",
		"2 is prime",
		"3 is prime",
		"4 is not prime",
		"17 is prime",
		"100 is not prime",
		"",
	}, "\n"), out)
}

func TestCheckExitCode(t *testing.T) {
	_, _, err := runCLI(t, nil, "check", "--exit-code", "7", "11")
	assert.NoError(t, err)
	_, _, err = runCLI(t, nil, "check", "--exit-code", "7", "9")
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestCheckJSON(t *testing.T) {
	out, _, err := runCLI(t, nil, "check", "-o", "json", "29", "20")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"n":29,"prime":true},{"n":20,"prime":false}]`, out)
}

func TestUpTo(t *testing.T) {
	out, stderr, err := runCLI(t, nil, "upto", "50")
	require.NoError(t, err)
	assert.Equal(t, "Primes up to 50: [2 3 5 7 11 13 17 19 23 29 31 37 41 43 47]\nCount: 15\n", out)
	assert.Contains(t, stderr, "sequence ready")
	assert.Contains(t, stderr, "run_id=")
}

func TestUpToLast(t *testing.T) {
	out, _, err := runCLI(t, nil, "upto", "1000", "--last", "10")
	require.NoError(t, err)
	assert.Equal(t, "Primes up to 1000: 168 primes, last 10: [937 941 947 953 967 971 977 983 991 997]\n", out)
}

func TestFirstGaps(t *testing.T) {
	out, _, err := runCLI(t, nil, "first", "5", "--gaps")
	require.NoError(t, err)
	assert.Equal(t, "First 5 primes: [2 3 5 7 11]\nCount: 5\nGaps: [1 2 2 4]\n", out)
}

func TestFirstJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"PRIMES_OUTPUT=json", "PRIMES_LOG_LEVEL=error"}, "first", "15")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":15,"primes":[2,3,5,7,11,13,17,19,23,29,31,37,41,43,47]}`, out)
}

func TestBetween(t *testing.T) {
	out, _, err := runCLI(t, nil, "between", "90", "110", "-o", "json", "--gaps")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":5,"primes":[97,101,103,107,109],"gaps":[4,2,4,2]}`, out)

	_, _, err = runCLI(t, nil, "between", "10", "1")
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		id   int
		env  []string
		args []string
	}{
		{1, nil, []string{"check"}},
		{2, nil, []string{"check", "seven"}},
		{3, nil, []string{"upto", "1.5"}},
		{4, nil, []string{"upto", "1", "2"}},
		{5, []string{"PRIMES_MAX_SIEVE=100"}, []string{"upto", "101"}},
		{6, []string{"PRIMES_MAX_COUNT=10"}, []string{"first", "11"}},
		{7, []string{"PRIMES_MAX_SIEVE=100"}, []string{"between", "0", "1000"}},
		{8, []string{"PRIMES_LOG_LEVEL=loud"}, []string{"check", "2"}},
		{9, nil, []string{"--output", "xml", "check", "2"}},
		{10, []string{"PRIMES_CONFIG=/nonexistent/primes.yaml"}, []string{"check", "2"}},
		{11, nil, []string{"check", "--bogus", "2"}},
		{12, nil, []string{"bogus"}},
		{13, nil, []string{"upto", "100", "--last", "ten"}},
	}
	for _, tt := range tests {
		_, _, err := runCLI(t, tt.env, tt.args...)
		assert.Equal(t, exitUsage, exitCode(err), "test %d: %v", tt.id, err)
	}
}

func TestConfigFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "primes.prom")
	cfgPath := filepath.Join(dir, "primes.yaml")
	cfg := "log:\n  level: debug\n  format: json\nmetrics:\n  textfile: " + metrics + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, stderr, err := runCLI(t, nil, "--config", cfgPath, "upto", "100")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"sequence ready"`)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `primes_store_lookups_total{result="miss",type="upto"} 1`)
}

func TestCachePersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "primes.prom")
	env := []string{"PRIMES_METRICS_TEXTFILE=" + metrics}
	cache := filepath.Join(dir, "cache")

	_, _, err := runCLI(t, env, "--cache", cache, "first", "100")
	require.NoError(t, err)

	out, _, err := runCLI(t, env, "--cache", cache, "first", "100", "--last", "1")
	require.NoError(t, err)
	assert.Equal(t, "First 100 primes: 100 primes, last 1: [541]\n", out)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `primes_store_lookups_total{result="hit",type="first"} 1`)
}

func TestRestoreFailureReleasesCache(t *testing.T) {
	a := newApp()
	a.logger = logging.Discard()
	a.store = prime.NewStore()
	db, err := persist.Open(persist.Config{InMemory: true})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	err = a.restore(db)
	assert.ErrorIs(t, err, badger.ErrDBClosed)
	assert.Nil(t, a.db)
	assert.NoError(t, a.teardown())
}

func TestLookupEnv(t *testing.T) {
	env := []string{"PRIMES_CONFIGX=a", "PRIMES_CONFIG=b", "PRIMES_CONFIG"}
	assert.Equal(t, "b", lookupEnv(env, "PRIMES_CONFIG"))
	assert.Equal(t, "", lookupEnv(env, "HOME"))
}
