// Package config loads the primes command configuration.
//
// Sources are layered, later ones winning: Defaults, a YAML file, PRIMES_*
// environment variables and finally command line flags. Merge only copies
// non-zero fields, so an overlay states just what it overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes the environment variables read by EnvOverlay.
const EnvPrefix = "PRIMES_"

// Config is the complete configuration of the command.
type Config struct {
	Log     Log     `yaml:"log"`
	Limits  Limits  `yaml:"limits"`
	Cache   Cache   `yaml:"cache"`
	Metrics Metrics `yaml:"metrics"`
	Output  Output  `yaml:"output"`
}

// Log configures diagnostics written to stderr.
type Log struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Limits are ceilings enforced on command arguments. The library itself
// accepts any int.
type Limits struct {
	// MaxSieve bounds the limit of upto and the width and upper bound of
	// between, both allocating one flag per integer.
	MaxSieve int `yaml:"max_sieve" validate:"gte=2"`
	// MaxCount bounds the count of first.
	MaxCount int `yaml:"max_count" validate:"gte=1"`
}

// Cache configures persistence of computed sequences across runs.
type Cache struct {
	// Path is a badger directory. Empty disables persistence.
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// Metrics configures Prometheus metrics export.
type Metrics struct {
	// Textfile receives the metrics in text exposition format at exit.
	// Empty disables the export.
	Textfile string `yaml:"textfile"`
}

// Output configures how results are printed on stdout.
type Output struct {
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Defaults returns a Config holding safe defaults.
func Defaults() Config {
	return Config{
		Log:    Log{Level: "info", Format: "text"},
		Limits: Limits{MaxSieve: 100_000_000, MaxCount: 1_000_000},
		Output: Output{Format: "text"},
	}
}

// Load parses YAML from r. Unknown fields are rejected.
func Load(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// LoadFile parses the YAML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Load(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// EnvOverlay builds a Config overlay from environ, a list of KEY=value
// entries as returned by os.Environ. Only PRIMES_* keys are considered.
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		val = strings.TrimSpace(val)
		var err error
		switch strings.TrimPrefix(key, EnvPrefix) {
		case "LOG_LEVEL":
			over.Log.Level = val
		case "LOG_FORMAT":
			over.Log.Format = val
		case "MAX_SIEVE":
			over.Limits.MaxSieve, err = strconv.Atoi(val)
		case "MAX_COUNT":
			over.Limits.MaxCount, err = strconv.Atoi(val)
		case "CACHE_PATH":
			over.Cache.Path = val
		case "CACHE_IN_MEMORY":
			over.Cache.InMemory, err = strconv.ParseBool(val)
		case "METRICS_TEXTFILE":
			over.Metrics.Textfile = val
		case "OUTPUT":
			over.Output.Format = val
		}
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", key, err)
		}
	}
	return over, nil
}

// Merge returns base with every non-zero field of over applied on top.
// Booleans can only be switched on by an overlay.
func Merge(base, over Config) Config {
	out := base
	if over.Log.Level != "" {
		out.Log.Level = over.Log.Level
	}
	if over.Log.Format != "" {
		out.Log.Format = over.Log.Format
	}
	if over.Limits.MaxSieve != 0 {
		out.Limits.MaxSieve = over.Limits.MaxSieve
	}
	if over.Limits.MaxCount != 0 {
		out.Limits.MaxCount = over.Limits.MaxCount
	}
	if over.Cache.Path != "" {
		out.Cache.Path = over.Cache.Path
	}
	if over.Cache.InMemory {
		out.Cache.InMemory = true
	}
	if over.Metrics.Textfile != "" {
		out.Metrics.Textfile = over.Metrics.Textfile
	}
	if over.Output.Format != "" {
		out.Output.Format = over.Output.Format
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, v := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", v.Namespace(), v.Tag(), v.Value())
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
