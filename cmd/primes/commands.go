package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/geofduf/primes/prime"
)

// intArgs returns a cobra.PositionalArgs accepting between min and max
// integer arguments. max < 0 means no upper bound.
func intArgs(min, max int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < min || (max >= 0 && len(args) > max) {
			if min == max {
				return usageError("accepts %d arg(s), received %d", min, len(args))
			}
			return usageError("accepts at least %d arg(s), received %d", min, len(args))
		}
		_, err := parseInts(args)
		return err
	}
}

func parseInts(args []string) ([]int, error) {
	v := make([]int, len(args))
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, usageError("invalid integer %q", s)
		}
		v[i] = n
	}
	return v, nil
}

func newCheckCmd(a *app) *cobra.Command {
	var exitCode bool
	cmd := &cobra.Command{
		Use:   "check N...",
		Short: "Report whether each number is prime",
		Args:  intArgs(1, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, _ := parseInts(args)
			results := make([]checkResult, len(numbers))
			composite := false
			for i, n := range numbers {
				results[i] = checkResult{N: n, Prime: prime.IsPrime(n)}
				composite = composite || !results[i].Prime
			}
			if err := a.printChecks(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if exitCode && composite {
				return &exitError{code: exitFailure}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 if any number is not prime")
	return cmd
}

// sequenceFlags are the presentation flags shared by enumeration commands.
type sequenceFlags struct {
	last int
	gaps bool
}

func (f *sequenceFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.last, "last", 0, "only print the last K primes")
	cmd.Flags().BoolVar(&f.gaps, "gaps", false, "also print gaps between consecutive primes")
}

func newUpToCmd(a *app) *cobra.Command {
	var f sequenceFlags
	cmd := &cobra.Command{
		Use:   "upto LIMIT",
		Short: "List primes less than or equal to LIMIT (Sieve of Eratosthenes)",
		Args:  intArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := parseInts(args)
			limit := v[0]
			if limit > a.cfg.Limits.MaxSieve {
				return usageError("limit %d exceeds limits.max_sieve (%d)", limit, a.cfg.Limits.MaxSieve)
			}
			s, err := a.execute(prime.Statement{Type: prime.StatementUpTo, N: limit})
			if err != nil {
				return err
			}
			return a.printSequence(cmd.OutOrStdout(), fmt.Sprintf("Primes up to %d", limit), s, f)
		},
	}
	f.register(cmd)
	return cmd
}

func newFirstCmd(a *app) *cobra.Command {
	var f sequenceFlags
	cmd := &cobra.Command{
		Use:   "first N",
		Short: "List the first N primes (trial division)",
		Args:  intArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := parseInts(args)
			n := v[0]
			if n > a.cfg.Limits.MaxCount {
				return usageError("count %d exceeds limits.max_count (%d)", n, a.cfg.Limits.MaxCount)
			}
			s, err := a.execute(prime.Statement{Type: prime.StatementFirstN, N: n})
			if err != nil {
				return err
			}
			return a.printSequence(cmd.OutOrStdout(), fmt.Sprintf("First %d primes", n), s, f)
		},
	}
	f.register(cmd)
	return cmd
}

func newBetweenCmd(a *app) *cobra.Command {
	var f sequenceFlags
	cmd := &cobra.Command{
		Use:   "between LO HI",
		Short: "List primes in the closed interval [LO, HI] (segmented sieve)",
		Args:  intArgs(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := parseInts(args)
			lo, hi := v[0], v[1]
			if lo > hi {
				return usageError("LO (%d) is greater than HI (%d)", lo, hi)
			}
			limit := a.cfg.Limits.MaxSieve
			if width := hi - max(lo, 0); width >= limit || hi/limit > limit {
				return usageError("interval [%d, %d] exceeds limits.max_sieve (%d)", lo, hi, limit)
			}
			start := time.Now()
			s, err := prime.Between(lo, hi)
			if err != nil {
				return err
			}
			a.logger.Info("segmented sieve", "lo", lo, "hi", hi, "count", len(s), "elapsed", time.Since(start))
			return a.printSequence(cmd.OutOrStdout(), fmt.Sprintf("Primes between %d and %d", lo, hi), s, f)
		},
	}
	f.register(cmd)
	return cmd
}

// execute runs statement through the store, logging how long it took.
func (a *app) execute(statement prime.Statement) (prime.Sequence, error) {
	start := time.Now()
	s, err := a.store.Execute(statement)
	if err != nil {
		return nil, err
	}
	a.logger.Info("sequence ready", "key", statement.Key(), "count", len(s), "elapsed", time.Since(start))
	return s, nil
}

type checkResult struct {
	N     int  `json:"n"`
	Prime bool `json:"prime"`
}
