// Command primes tests numbers for primality and enumerates primes.
//
//	primes check 1 2 17 100
//	primes upto 1000 --last 10
//	primes first 20 --gaps
//	primes between 1000000 1000100 --output json
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code associated to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	err := execute(newApp(), args, os.Stdout, os.Stderr)
	if err == nil {
		return exitOK
	}
	code := exitFailure
	var e *exitError
	if errors.As(err, &e) {
		code = e.code
		if e.err == nil {
			return code
		}
	}
	fmt.Fprintf(os.Stderr, "primes: %v\n", err)
	return code
}

// execute runs the command line args against a, writing results to stdout
// and diagnostics to stderr. The store is persisted even if the command
// fails.
func execute(a *app, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	return errors.Join(err, a.teardown())
}
