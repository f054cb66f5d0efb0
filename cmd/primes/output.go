package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/geofduf/primes/prime"
)

func (a *app) jsonOutput() bool {
	return a.cfg.Output.Format == "json"
}

func (a *app) printChecks(w io.Writer, results []checkResult) error {
	if a.jsonOutput() {
		return json.NewEncoder(w).Encode(results)
	}
	for _, r := range results {
		verdict := "prime"
		if !r.Prime {
			verdict = "not prime"
		}
		if _, err := fmt.Fprintf(w, "%d is %s\n", r.N, verdict); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printSequence(w io.Writer, title string, s prime.Sequence, f sequenceFlags) error {
	if a.jsonOutput() {
		flag := prime.SerializeCount
		if f.last > 0 {
			flag |= prime.SerializeLast
		} else {
			flag |= prime.SerializePrimes
		}
		if f.gaps {
			flag |= prime.SerializeGaps
		}
		_, err := fmt.Fprintf(w, "%s\n", s.Serialize(flag, f.last))
		return err
	}
	if f.last > 0 {
		_, err := fmt.Fprintf(w, "%s: %d primes, last %d: %v\n", title, s.Count(), min(f.last, s.Count()), s.Last(f.last))
		if err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "%s: %v\nCount: %d\n", title, s, s.Count()); err != nil {
		return err
	}
	if f.gaps {
		if _, err := fmt.Fprintf(w, "Gaps: %v\n", s.Gaps()); err != nil {
			return err
		}
	}
	return nil
}
