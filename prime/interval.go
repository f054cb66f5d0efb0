package prime

// interval is the set of integers n with start <= n <= end.
type interval struct {
	start int
	end   int
}

// intersect returns the integers common to x and y, or false when the two
// intervals are disjoint.
func (x interval) intersect(y interval) (interval, bool) {
	r := interval{start: max(x.start, y.start), end: min(x.end, y.end)}
	if r.start > r.end {
		return interval{}, false
	}
	return r, true
}

func (x interval) len() int {
	return x.end - x.start + 1
}
