// Package segment implements the append-only run-length interval list
// used throughout genotree: the Ancestor Store Builder's per-site
// allele runs (§4.2) and the Traceback's per-site recombination runs
// (§4.5) are both instances of the same shape — disjoint, gapless intervals over
// an ancestor-id axis, each carrying one value.
//
// Design note §9 calls for "per-site growable vectors of (start, end,
// value) records, preserving the coalescing rule at append" in place
// of the original's intrusive linked lists; List[V] is exactly that.
package segment

import (
	"fmt"
	"sort"

	"github.com/lesfleursdelanuitdev/genotree/generrors"
)

// Run is one (start, end, value) record: value holds for ids in
// [Start, End).
type Run[V comparable] struct {
	Start int
	End   int
	Value V
}

// List is a sorted-by-Start sequence of disjoint runs, append-only
// except for the Merge coalescing pass.
type List[V comparable] struct {
	runs []Run[V]
}

// New returns an empty List.
func New[V comparable]() *List[V] {
	return &List[V]{}
}

// NewCap returns an empty List with its backing array pre-sized to
// capacity runs, the growable-vector analogue of giving an arena a
// block size up front: it avoids the repeated reallocation a freshly
// appended-to List would otherwise pay for during a large build.
func NewCap[V comparable](capacity int) *List[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &List[V]{runs: make([]Run[V], 0, capacity)}
}

// NewFull returns a List with a single run [0, n) carrying value.
func NewFull[V comparable](n int, value V) *List[V] {
	l := &List[V]{}
	if n > 0 {
		l.runs = append(l.runs, Run[V]{0, n, value})
	}
	return l
}

// Append adds [start, end) = value to the end of the list, coalescing
// with the last run when it is contiguous and carries the same value
// (spec §4.2's "if the last segment ... has end == a and value == v,
// extend its end; else append a new segment").
func (l *List[V]) Append(start, end int, value V) {
	if start >= end {
		return
	}
	if n := len(l.runs); n > 0 {
		last := &l.runs[n-1]
		if last.End == start && last.Value == value {
			last.End = end
			return
		}
	}
	l.runs = append(l.runs, Run[V]{start, end, value})
}

// Runs returns the underlying runs. Callers must not mutate the
// returned slice.
func (l *List[V]) Runs() []Run[V] {
	return l.runs
}

// Len returns the number of runs.
func (l *List[V]) Len() int {
	return len(l.runs)
}

// At performs a binary search for the run containing id and returns
// its value, per spec §4.3's get_state: "binary search the segment
// list ... for the run containing the ancestor; return that run's
// value".
func (l *List[V]) At(id int) (V, bool) {
	var zero V
	i := sort.Search(len(l.runs), func(i int) bool { return l.runs[i].End > id })
	if i >= len(l.runs) || l.runs[i].Start > id {
		return zero, false
	}
	return l.runs[i].Value, true
}

// Merge coalesces adjacent runs with equal values, bounding segment
// count. The matcher keeps dense likelihoods and does not call it.
func (l *List[V]) Merge() {
	if len(l.runs) < 2 {
		return
	}
	out := l.runs[:1]
	for _, r := range l.runs[1:] {
		last := &out[len(out)-1]
		if last.End == r.Start && last.Value == r.Value {
			last.End = r.End
			continue
		}
		out = append(out, r)
	}
	l.runs = out
}

// Validate checks the global invariant that runs partition [0, n)
// exactly: no gap, no overlap (spec §8, Invariants). It is the
// deterministic check used by ancestorstore.Store at finalize time,
// and by tests asserting segment-list correctness elsewhere.
func (l *List[V]) Validate(n int) error {
	expect := 0
	for _, r := range l.runs {
		if r.Start != expect {
			return fmt.Errorf("%w: expected run starting at %d, found [%d,%d)", generrors.ErrSegmentOverlap, expect, r.Start, r.End)
		}
		if r.End <= r.Start {
			return fmt.Errorf("%w: empty or inverted run [%d,%d)", generrors.ErrSegmentOverlap, r.Start, r.End)
		}
		expect = r.End
	}
	if expect != n {
		return fmt.Errorf("%w: runs cover [0,%d), expected [0,%d)", generrors.ErrSegmentOverlap, expect, n)
	}
	return nil
}

// Clear empties the list while keeping the underlying array, the
// segment-arena-reuse behavior spec §4.5 asks of Traceback.Reset.
func (l *List[V]) Clear() {
	l.runs = l.runs[:0]
}

// Clone returns a deep copy of the list, for a caller that needs to
// mutate a working copy without perturbing a shared original.
func (l *List[V]) Clone() *List[V] {
	c := &List[V]{runs: make([]Run[V], len(l.runs))}
	copy(c.runs, l.runs)
	return c
}
