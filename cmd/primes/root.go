package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/geofduf/primes/internal/config"
	"github.com/geofduf/primes/internal/logging"
	"github.com/geofduf/primes/internal/persist"
	"github.com/geofduf/primes/prime"
)

// app holds the state shared by the commands of a single run.
type app struct {
	environ func() []string

	// flags
	configPath string
	logLevel   string
	output     string
	cachePath  string

	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	store    *prime.Store
	db       *persist.DB
}

func newApp() *app {
	return &app{environ: os.Environ}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "primes",
		Short:         "Test numbers for primality and enumerate primes",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError("%w", err)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%w", err)
	})
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file (default $PRIMES_CONFIG)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "", "output format: text or json")
	root.PersistentFlags().StringVar(&a.cachePath, "cache", "", "badger directory caching computed sequences")

	root.AddCommand(
		newCheckCmd(a),
		newUpToCmd(a),
		newFirstCmd(a),
		newBetweenCmd(a),
	)
	return root
}

// setup resolves the configuration and builds the logger, the store and
// its optional persistence.
func (a *app) setup(stderr io.Writer) error {
	cfg := config.Defaults()
	path := a.configPath
	if path == "" {
		path = lookupEnv(a.environ(), config.EnvPrefix+"CONFIG")
	}
	if path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return usageError("load config: %w", err)
		}
		cfg = config.Merge(cfg, file)
	}
	env, err := config.EnvOverlay(a.environ())
	if err != nil {
		return usageError("environment: %w", err)
	}
	cfg = config.Merge(cfg, env)
	cfg = config.Merge(cfg, config.Config{
		Log:    config.Log{Level: a.logLevel},
		Output: config.Output{Format: a.output},
		Cache:  config.Cache{Path: a.cachePath},
	})
	if err := config.Validate(cfg); err != nil {
		return usageError("%w", err)
	}
	a.cfg = cfg

	a.logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stderr,
	}).With("run_id", uuid.NewString()[:8])

	a.registry = prometheus.NewRegistry()
	a.store = prime.NewStore(prime.WithMetrics(prime.NewMetrics(a.registry)))

	if cfg.Cache.Path != "" || cfg.Cache.InMemory {
		db, err := persist.Open(persist.Config{
			Path:     cfg.Cache.Path,
			InMemory: cfg.Cache.InMemory,
			Logger:   a.logger.With("component", "badger"),
		})
		if err != nil {
			return err
		}
		return a.restore(db)
	}
	return nil
}

// restore loads the content of db into the store. On success a takes
// ownership of db, otherwise db is closed.
func (a *app) restore(db *persist.DB) error {
	n, err := db.Restore(a.store)
	if err != nil {
		return errors.Join(fmt.Errorf("restore cache: %w", err), db.Close())
	}
	a.db = db
	a.logger.Debug("cache restored", "path", a.cfg.Cache.Path, "sequences", n)
	return nil
}

// teardown persists the store and exports metrics. It is a no-op when
// setup did not complete.
func (a *app) teardown() error {
	var errs []error
	if a.db != nil {
		n, err := a.db.Save(a.store)
		if err != nil {
			errs = append(errs, fmt.Errorf("save cache: %w", err))
		} else {
			a.logger.Debug("cache saved", "sequences", n)
		}
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	if path := a.cfg.Metrics.Textfile; path != "" && a.registry != nil {
		if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}

func lookupEnv(environ []string, key string) string {
	for _, kv := range environ {
		if len(kv) > len(key) && kv[len(key)] == '=' && kv[:len(key)] == key {
			return kv[len(key)+1:]
		}
	}
	return ""
}
