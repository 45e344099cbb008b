// Package match implements the Ancestor Matcher (spec §4.4) and its
// Traceback (spec §4.5): a Li-Stephens-style HMM copying model that
// finds the maximum-likelihood parent ancestor for a query haplotype
// at every site, recording recombination transitions for later
// backward reconstruction.
package match

import "github.com/lesfleursdelanuitdev/genotree/segment"

// Traceback is a per-site segment list keyed by site id, recording
// where a recombination moved the copying path from one ancestor
// range to another (spec §4.5).
type Traceback struct {
	numSites int
	perSite  []*segment.List[int]
}

// NewTraceback allocates a Traceback over numSites sites.
func NewTraceback(numSites int) *Traceback {
	return NewTracebackWithBlockSize(numSites, 0)
}

// NewTracebackWithBlockSize allocates a Traceback whose per-site lists
// are pre-sized to blockSize runs (config.SegmentBlockSize), the same
// pre-sizing NewBuilderWithBlockSize applies to the Ancestor Store.
// blockSize <= 0 behaves like NewTraceback.
func NewTracebackWithBlockSize(numSites, blockSize int) *Traceback {
	perSite := make([]*segment.List[int], numSites)
	for i := range perSite {
		if blockSize > 0 {
			perSite[i] = segment.NewCap[int](blockSize)
		} else {
			perSite[i] = segment.New[int]()
		}
	}
	return &Traceback{numSites: numSites, perSite: perSite}
}

// AddRecombination records that, at site x, ancestors in [start, end)
// recombined from their current parent onto ancestor.
func (t *Traceback) AddRecombination(x int, start, end, ancestor int) {
	t.perSite[x].Append(start, end, ancestor)
}

// At looks up the recombination target recorded for parent at site x,
// if any.
func (t *Traceback) At(x, parent int) (int, bool) {
	return t.perSite[x].At(parent)
}

// Reset clears every per-site list, reusing their backing arrays —
// the Go-native reading of spec §4.5's "reset() clears all lists
// (reusing the segment arena)".
func (t *Traceback) Reset() {
	for _, l := range t.perSite {
		l.Clear()
	}
}
