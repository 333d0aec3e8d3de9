package timeline

import "github.com/zafarh/dsj-hrms-api/pkg/dateutil"

// Interval is a calendar-day span. A nil Start compares as the beginning of
// time, a nil End as still ongoing. Comparison never mutates the interval.
type Interval struct {
	Start *dateutil.Date `json:"start,omitempty"`
	End   *dateutil.Date `json:"end,omitempty"`
}

// BoundaryMode selects how touching endpoints are treated. Employment
// blocks may be back-to-back (a posting ending the day the next begins is
// contiguous, not overlapping), while leave days cannot be double-booked,
// so leaves within one block must not even touch. Both rules share this one
// detector so the two definitions cannot drift apart.
type BoundaryMode int

const (
	// TouchingAllowed treats shared endpoints as non-overlapping:
	// overlap iff max(start) < min(end), except that a degenerate
	// single-day interval strictly inside a range still overlaps it.
	TouchingAllowed BoundaryMode = iota
	// TouchingOverlaps treats shared endpoints as overlapping:
	// overlap iff max(start) <= min(end).
	TouchingOverlaps
)

// Point returns the degenerate interval [d, d].
func Point(d dateutil.Date) Interval {
	return Interval{Start: &d, End: &d}
}

// Span returns the interval [start, end]; end may be nil for open-ended.
func Span(start dateutil.Date, end *dateutil.Date) Interval {
	return Interval{Start: &start, End: end}
}

// Overlaps reports whether the two intervals overlap under the given
// boundary mode.
func Overlaps(a, b Interval, mode BoundaryMode) bool {
	start := laterStart(a.Start, b.Start)
	end := earlierEnd(a.End, b.End)
	if start == nil || end == nil {
		// Unbounded on the deciding side; the spans cannot miss each other.
		return true
	}
	cmp := dateutil.Compare(*start, *end)
	if mode == TouchingOverlaps {
		return cmp <= 0
	}
	if cmp != 0 {
		return cmp < 0
	}
	// The intersection collapsed to a single day. For two ranges that is
	// the back-to-back case and stays contiguous, but a degenerate
	// interval landing strictly inside the other one is a real collision:
	// an exit status dated mid-posting conflicts with that posting even
	// though the intersection has zero width.
	return insideOther(a, b) || insideOther(b, a)
}

// insideOther reports whether p is a degenerate interval whose single day
// lies strictly between the other interval's endpoints.
func insideOther(p, other Interval) bool {
	if p.Start == nil || p.End == nil || dateutil.Compare(*p.Start, *p.End) != 0 {
		return false
	}
	day := *p.Start
	startsBefore := other.Start == nil || dateutil.Compare(*other.Start, day) < 0
	endsAfter := other.End == nil || dateutil.Compare(*other.End, day) > 0
	return startsBefore && endsAfter
}

// OverlappingPairs scans all pairs and returns every violating index pair
// (i < j), for diagnostic display rather than fail-fast. n is a career's
// worth of postings, so the quadratic scan is fine.
func OverlappingPairs(intervals []Interval, mode BoundaryMode) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			if Overlaps(intervals[i], intervals[j], mode) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// Contains reports whether d lies within iv under the given boundary mode.
func Contains(iv Interval, d dateutil.Date, mode BoundaryMode) bool {
	return Overlaps(iv, Point(d), mode)
}

func laterStart(a, b *dateutil.Date) *dateutil.Date {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if dateutil.Compare(*a, *b) >= 0 {
		return a
	}
	return b
}

func earlierEnd(a, b *dateutil.Date) *dateutil.Date {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if dateutil.Compare(*a, *b) <= 0 {
		return a
	}
	return b
}
