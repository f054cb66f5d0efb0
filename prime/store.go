package prime

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Statement types.
const (
	StatementUpTo uint8 = iota
	StatementFirstN
	statementUnknown
)

var statementNames = [...]string{
	StatementUpTo:   "upto",
	StatementFirstN: "first",
}

// ErrUnknownStatement is returned when executing a statement whose type is
// not supported.
var ErrUnknownStatement = errors.New("unknown statement type")

// A Statement represents a computation to perform against a store: either
// the primes up to N (StatementUpTo) or the first N primes (StatementFirstN).
type Statement struct {
	Type uint8
	N    int
}

// Key returns the identifier under which the statement result is cached.
func (st Statement) Key() string {
	return st.name() + "/" + strconv.Itoa(st.N)
}

// ParseKey parses a key returned by Statement.Key.
func ParseKey(key string) (Statement, error) {
	name, n, ok := strings.Cut(key, "/")
	if !ok {
		return Statement{}, fmt.Errorf("parse key %q: %w", key, ErrUnknownStatement)
	}
	st := Statement{Type: statementUnknown}
	for i, v := range statementNames {
		if v == name {
			st.Type = uint8(i)
		}
	}
	if st.Type == statementUnknown {
		return Statement{}, fmt.Errorf("parse key %q: %w", key, ErrUnknownStatement)
	}
	var err error
	if st.N, err = strconv.Atoi(n); err != nil {
		return Statement{}, fmt.Errorf("parse key %q: %w", key, err)
	}
	return st, nil
}

func (st Statement) name() string {
	if st.Type >= statementUnknown {
		return "unknown"
	}
	return statementNames[st.Type]
}

// Verify reports whether s is consistent with being the result of the
// statement. It checks the bounds of s rather than recomputing it: the
// first element must be 2, the last one must be prime, and for
// StatementUpTo no prime may lie between the last element and N.
// The returned error wraps ErrCorrupt.
func (st Statement) Verify(s Sequence) error {
	var want string
	switch st.Type {
	case StatementUpTo:
		switch {
		case st.N < 2:
			if len(s) != 0 {
				want = "no primes"
			}
		case len(s) == 0 || s[len(s)-1] > st.N:
			want = fmt.Sprintf("primes up to %d", st.N)
		default:
			for n := s[len(s)-1] + 1; n <= st.N; n++ {
				if IsPrime(n) {
					want = fmt.Sprintf("%d in the sequence", n)
					break
				}
			}
		}
	case StatementFirstN:
		if len(s) != max(st.N, 0) {
			want = fmt.Sprintf("%d primes, got %d", max(st.N, 0), len(s))
		}
	default:
		return ErrUnknownStatement
	}
	if want == "" && len(s) > 0 && (s[0] != 2 || !IsPrime(s[len(s)-1])) {
		want = "a sequence starting at 2 and ending with a prime"
	}
	if want != "" {
		return fmt.Errorf("%w: %s: want %s", ErrCorrupt, st.Key(), want)
	}
	return nil
}

// run computes the statement result.
func (st Statement) run() (Sequence, error) {
	switch st.Type {
	case StatementUpTo:
		return FindPrimesUpTo(st.N), nil
	case StatementFirstN:
		return FindFirstNPrimes(st.N), nil
	}
	return nil, ErrUnknownStatement
}

// A StoreOption configures a Store.
type StoreOption func(*Store)

// WithMetrics makes the store record lookups and computation times in m.
func WithMetrics(m *Metrics) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithWorkers sets the maximum number of statements computed concurrently
// by Warm. Values lower than 1 are ignored.
func WithWorkers(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.workers = n
		}
	}
}

// A Store represents a collection of Sequences. A Store can be used simultaneously
// from multiple goroutines.
type Store struct {
	m       map[string]Sequence
	mu      sync.RWMutex
	metrics *Metrics
	workers int
}

// NewStore creates and initializes a new Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{m: make(map[string]Sequence), workers: 4}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add adds a copy of x to the store using key as its identifier.
// If a Sequence already exists for the identifier it is silently replaced with the new
// Sequence.
func (s *Store) Add(key string, x Sequence) {
	s.mu.Lock()
	s.m[key] = x.clone()
	s.mu.Unlock()
}

// Get returns a copy of the Sequence associated to key. The second return value is
// true if the key exists in the store and false if not.
func (s *Store) Get(key string) (Sequence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	x, ok := s.m[key]
	if !ok {
		return nil, false
	}
	return x.clone(), true
}

// Delete removes the Sequence associated to key, if any.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

// Len returns the number of sequences in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Execute returns a copy of the result of statement, computing and caching
// it if the store does not hold it yet.
func (s *Store) Execute(statement Statement) (Sequence, error) {
	if statement.Type >= statementUnknown {
		return nil, ErrUnknownStatement
	}
	key := statement.Key()
	if x, ok := s.Get(key); ok {
		s.metrics.hit(statement.name())
		return x, nil
	}
	start := time.Now()
	x, err := statement.run()
	if err != nil {
		return nil, err
	}
	s.metrics.miss(statement.name(), time.Since(start))
	s.mu.Lock()
	if _, ok := s.m[key]; !ok {
		s.m[key] = x.clone()
	}
	s.mu.Unlock()
	return x, nil
}

// Batch executes multiple statements against the store. Individual errors are non
// blocking: the result of a failed statement is nil and the returned error joins
// every individual error along with the index of its statement.
func (s *Store) Batch(statements []Statement) ([]Sequence, error) {
	results := make([]Sequence, len(statements))
	var errs []error
	for i, v := range statements {
		x, err := s.Execute(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w, at index %d", err, i))
			continue
		}
		results[i] = x
	}
	return results, errors.Join(errs...)
}

// Warm executes statements concurrently so that later calls to Execute are
// served from the store. It stops at the first error or when ctx is done.
func (s *Store) Warm(ctx context.Context, statements []Statement) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, v := range statements {
		if gctx.Err() != nil {
			break
		}
		v := v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := s.Execute(v)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Keys returns the identifiers known in the store in ascending order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}
