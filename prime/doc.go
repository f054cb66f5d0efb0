/*
Package prime implements prime number routines: trial division primality
testing, Sieve of Eratosthenes enumeration and ordinal prime generation.
It defines the type Sequence, an ascending list of primes with helpers for
gap analysis and compact encoding, and the type Store, a cache of computed
sequences safe to use from multiple goroutines.

The three core functions are pure and reentrant:

	prime.IsPrime(97)          // true
	prime.FindPrimesUpTo(50)   // [2 3 5 7 11 13 17 19 23 29 31 37 41 43 47]
	prime.FindFirstNPrimes(5)  // [2 3 5 7 11]

They are total over int: inputs below the smallest prime yield false or an
empty Sequence rather than an error. FindFirstNPrimes imposes no ceiling on
n, its running time grows with the magnitude of the nth prime.

A Sequence can be exported as []byte, each prime being stored as the
uvarint encoded gap to its predecessor, easing integration with storage
systems.

A Store is essentially a wrapper around a map of sequences keyed by the
statement that produced them. Results are cloned on the way in and out, so
callers never share backing arrays.
*/
package prime
