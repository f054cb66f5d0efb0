package prime

import "math"

// IsPrime reports whether n is a prime number using trial division by odd
// divisors up to the square root of n. Values below 2 are never prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	// d <= n/d is d*d <= n without overflow.
	for d := 3; d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// FindPrimesUpTo returns all primes less than or equal to limit in ascending
// order using the Sieve of Eratosthenes. The result is empty if limit is
// lower than 2.
func FindPrimesUpTo(limit int) Sequence {
	if limit < 2 {
		return Sequence{}
	}
	sieve := newSieve(limit)
	s := make(Sequence, 0, estimateCount(limit))
	for i := 2; i <= limit; i++ {
		if sieve[i] {
			s = append(s, i)
		}
	}
	return s
}

// FindFirstNPrimes returns the first n primes in ascending order, starting
// at 2. The result is empty if n is lower than 1. No upper bound is imposed
// on n.
func FindFirstNPrimes(n int) Sequence {
	if n <= 0 {
		return Sequence{}
	}
	s := make(Sequence, 0, n)
	candidate := 2
	for len(s) < n {
		if IsPrime(candidate) {
			s = append(s, candidate)
		}
		if candidate == 2 {
			candidate++
		} else {
			candidate += 2
		}
	}
	return s
}

// newSieve returns a slice of length limit+1 where index i is true if and
// only if i is prime. limit must be at least 1.
func newSieve(limit int) []bool {
	sieve := make([]bool, limit+1)
	for i := 2; i <= limit; i++ {
		sieve[i] = true
	}
	for i := 2; i <= limit/i; i++ {
		if !sieve[i] {
			continue
		}
		for j := i * i; j <= limit; j += i {
			sieve[j] = false
		}
	}
	return sieve
}

// estimateCount returns a capacity hint for the number of primes up to
// limit, based on the bound pi(x) < 1.26 x / ln x.
func estimateCount(limit int) int {
	if limit < 17 {
		return 7
	}
	x := float64(limit)
	return int(1.26 * x / math.Log(x))
}
