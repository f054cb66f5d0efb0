package prime

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
)

// ErrCorrupt is returned when decoding a malformed encoded Sequence.
var ErrCorrupt = errors.New("cannot decode the sequence")

// A Sequence is an ascending list of distinct primes. Sequences returned by
// this package are never shared: each call allocates its own backing array.
type Sequence []int

// NewSequenceFromBytes creates a new Sequence using data, an encoded Sequence,
// as its initial content.
func NewSequenceFromBytes(data []byte) (Sequence, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, ErrCorrupt
	}
	i := n
	// Every gap takes at least one byte.
	if count > uint64(len(data)-i) {
		return nil, ErrCorrupt
	}
	s := make(Sequence, 0, int(count))
	// The first element is at least 2, the next ones strictly ascending.
	prev, minGap := 0, uint64(2)
	for j := uint64(0); j < count; j++ {
		gap, n := binary.Uvarint(data[i:])
		if n <= 0 || gap < minGap || gap > uint64(math.MaxInt-prev) {
			return nil, ErrCorrupt
		}
		i += n
		prev += int(gap)
		minGap = 1
		s = append(s, prev)
	}
	if i != len(data) {
		return nil, ErrCorrupt
	}
	return s, nil
}

// Bytes returns the encoded sequence: the number of elements followed by the
// gap between each element and its predecessor, all as uvarints. The first
// gap is relative to zero.
func (s Sequence) Bytes() []byte {
	buf := make([]byte, 0, binary.MaxVarintLen64+len(s)+len(s)/4)
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	prev := 0
	for _, p := range s {
		buf = binary.AppendUvarint(buf, uint64(p-prev))
		prev = p
	}
	return buf
}

// Count returns the number of primes in the sequence.
func (s Sequence) Count() int {
	return len(s)
}

// Contains reports whether p belongs to the sequence.
func (s Sequence) Contains(p int) bool {
	i := sort.SearchInts(s, p)
	return i < len(s) && s[i] == p
}

// Gaps returns the differences between consecutive primes. The result is
// empty if the sequence holds less than 2 elements.
func (s Sequence) Gaps() []int {
	if len(s) < 2 {
		return []int{}
	}
	gaps := make([]int, len(s)-1)
	for i := 1; i < len(s); i++ {
		gaps[i-1] = s[i] - s[i-1]
	}
	return gaps
}

// Last returns a copy of the k trailing elements of the sequence. The whole
// sequence is returned if k is greater than its length.
func (s Sequence) Last(k int) Sequence {
	if k <= 0 {
		return Sequence{}
	}
	if k > len(s) {
		k = len(s)
	}
	return s[len(s)-k:].clone()
}

// clone returns a copy of s.
func (s Sequence) clone() Sequence {
	c := make(Sequence, len(s))
	copy(c, s)
	return c
}
