package prime

import (
	"errors"
	"math"
)

// ErrInvalidRange is returned by Between when lo is greater than hi.
var ErrInvalidRange = errors.New("invalid range")

// candidates is the domain in which primes may be found.
var candidates = interval{start: 2, end: math.MaxInt - 1}

// Between returns the primes p such that lo <= p <= hi in ascending order,
// using a segmented sieve: only the primes up to the square root of hi are
// materialized, plus a flag per integer of the requested interval. The
// method returns an error if lo is greater than hi.
func Between(lo, hi int) (Sequence, error) {
	if lo > hi {
		return nil, ErrInvalidRange
	}
	r, ok := candidates.intersect(interval{start: lo, end: hi})
	if !ok {
		return Sequence{}, nil
	}

	composite := make([]bool, r.len())
	for _, p := range FindPrimesUpTo(isqrt(r.end)) {
		first, ok := firstMultiple(r, p)
		if !ok {
			continue
		}
		for j := first; j <= r.end; j += p {
			composite[j-r.start] = true
			if j > r.end-p {
				break
			}
		}
	}

	s := make(Sequence, 0)
	for i, c := range composite {
		if !c {
			s = append(s, r.start+i)
		}
	}
	return s, nil
}

// CountUpTo returns the number of primes less than or equal to limit.
func CountUpTo(limit int) int {
	if limit < 2 {
		return 0
	}
	n := 0
	for _, v := range newSieve(limit) {
		if v {
			n++
		}
	}
	return n
}

// isqrt returns floor(sqrt(x)) for x >= 0.
func isqrt(x int) int {
	r := int(math.Sqrt(float64(x)))
	for r > 0 && r > x/r {
		r--
	}
	for r+1 <= x/(r+1) {
		r++
	}
	return r
}

// firstMultiple returns the smallest multiple of p in r that is not lower
// than p*p, the first composite a sieve by p has to strike. The second
// value is false if r holds no such multiple. p must satisfy p*p <= r.end.
func firstMultiple(r interval, p int) (int, bool) {
	if sq := p * p; sq > r.start {
		r.start = sq
	}
	off := (p - r.start%p) % p
	if off > r.end-r.start {
		return 0, false
	}
	return r.start + off, true
}
