package prime

import (
	"strconv"
)

// These flags define which values to include in a serialized output.
const (
	SerializeCount  = 1 << iota // number of primes in sequence
	SerializePrimes             // the primes themselves
	SerializeGaps               // differences between consecutive primes
	SerializeLast               // trailing primes of sequence
)

const (
	serializerBasePrefix   = '{'
	serializerCountPrefix  = `"count":`
	serializerPrimesPrefix = `"primes":`
	serializerGapsPrefix   = `"gaps":`
	serializerLastPrefix   = `"last":`
	serializerSeparator    = ','
	serializerBaseSuffix   = '}'
)

// serialize is a convenience function that returns a JSON encoding of the
// sequence using flag to define which values to include in the serialized
// output and n as the number of trailing primes reported by SerializeLast.
func serialize(s Sequence, flag int, n int) []byte {
	approxSize := 2
	if flag&SerializeCount != 0 {
		approxSize += 30
	}
	if flag&SerializePrimes != 0 {
		approxSize += 12 + len(s)*8
	}
	if flag&SerializeGaps != 0 {
		approxSize += 10 + len(s)*4
	}
	if flag&SerializeLast != 0 {
		approxSize += 10 + n*8
	}
	buf := make([]byte, 0, approxSize)
	buf = append(buf, serializerBasePrefix)
	if flag&SerializeCount != 0 {
		buf = append(buf, serializerCountPrefix...)
		buf = strconv.AppendInt(buf, int64(len(s)), 10)
		buf = append(buf, serializerSeparator)
	}
	if flag&SerializePrimes != 0 {
		buf = append(buf, serializerPrimesPrefix...)
		buf = appendInts(buf, s)
		buf = append(buf, serializerSeparator)
	}
	if flag&SerializeGaps != 0 {
		buf = append(buf, serializerGapsPrefix...)
		buf = appendInts(buf, s.Gaps())
		buf = append(buf, serializerSeparator)
	}
	if flag&SerializeLast != 0 {
		buf = append(buf, serializerLastPrefix...)
		buf = appendInts(buf, s.Last(n))
		buf = append(buf, serializerSeparator)
	}
	if buf[len(buf)-1] == serializerSeparator {
		buf[len(buf)-1] = serializerBaseSuffix
	} else {
		buf = append(buf, serializerBaseSuffix)
	}
	return buf
}

// appendInts appends the JSON array encoding of x to buf.
func appendInts(buf []byte, x []int) []byte {
	buf = append(buf, '[')
	for i, v := range x {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	return append(buf, ']')
}

// Serialize is a convenience method that returns a JSON encoding of the
// sequence using flag to define which values to include in the serialized
// output. As a special case, n is only used along with SerializeLast and
// defines the number of trailing primes to include.
func (s Sequence) Serialize(flag int, n int) []byte {
	return serialize(s, flag, n)
}
