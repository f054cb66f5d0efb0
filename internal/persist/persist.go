// Package persist keeps the content of a prime.Store in a BadgerDB
// database so that sequences computed by one run are served from cache by
// the next.
//
// Each sequence is stored under "seq/<statement key>" with the encoding of
// prime.Sequence.Bytes as value.
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/geofduf/primes/prime"
)

var keyPrefix = []byte("seq/")

// Config describes the database to open.
type Config struct {
	// Path is the database directory, created if missing. Ignored when
	// InMemory is true.
	Path string

	// InMemory keeps the database in memory only. Useful for testing.
	InMemory bool

	// Logger receives badger's internal logs. Nil disables them.
	Logger *slog.Logger
}

// DB is a handle on an open snapshot database. It is safe for concurrent use.
type DB struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens the database described by cfg. The caller must Close it.
func Open(cfg Config) (*DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)
	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &DB{db: db, logger: logger}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save writes every sequence of store to the database, replacing entries
// with the same key.
func (d *DB) Save(store *prime.Store) (int, error) {
	wb := d.db.NewWriteBatch()
	defer wb.Cancel()
	n := 0
	for _, k := range store.Keys() {
		s, ok := store.Get(k)
		if !ok {
			continue
		}
		if err := wb.Set(append(bytes.Clone(keyPrefix), k...), s.Bytes()); err != nil {
			return 0, fmt.Errorf("save %s: %w", k, err)
		}
		n++
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	return n, nil
}

// Restore adds every sequence found in the database to store and returns
// how many were added. Entries whose key is not a statement key, that
// cannot be decoded, or whose content does not match their statement are
// skipped.
func (d *DB) Restore(store *prime.Store) (int, error) {
	n := 0
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(bytes.TrimPrefix(item.Key(), keyPrefix))
			statement, err := prime.ParseKey(key)
			if err != nil {
				d.warn("skipping unknown entry", "key", key, "error", err)
				continue
			}
			err = item.Value(func(v []byte) error {
				s, err := prime.NewSequenceFromBytes(v)
				if err != nil {
					return err
				}
				if err := statement.Verify(s); err != nil {
					return err
				}
				store.Add(key, s)
				return nil
			})
			if errors.Is(err, prime.ErrCorrupt) {
				d.warn("skipping corrupt entry", "key", key, "error", err)
				continue
			}
			if err != nil {
				return fmt.Errorf("restore %s: %w", key, err)
			}
			n++
		}
		return nil
	})
	return n, err
}

// Delete removes the entry stored under key, if any.
func (d *DB) Delete(key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(append(bytes.Clone(keyPrefix), key...))
	})
}

func (d *DB) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}

// badgerLogger adapts slog to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
