// Package ancestorstore implements the Ancestor Store Builder and the
// finalized, read-only Ancestor Store (spec §4.2, §4.3).
package ancestorstore

import (
	"github.com/lesfleursdelanuitdev/genotree/ancestor"
	"github.com/lesfleursdelanuitdev/genotree/segment"
	"github.com/lesfleursdelanuitdev/genotree/site"
)

// Builder accumulates ancestors into per-site run-length segment
// lists, in emission order, per spec §4.2: "Internally, per site s,
// it maintains a ... run of segments covering [0, next_ancestor_id)
// with allele values."
type Builder struct {
	numSites     int
	perSite      []*segment.List[site.Allele]
	numAncestors int
}

// NewBuilder creates a Builder for a panel of numSites sites.
func NewBuilder(numSites int) *Builder {
	return NewBuilderWithBlockSize(numSites, 0)
}

// NewBuilderWithBlockSize creates a Builder whose per-site segment
// lists are pre-sized to blockSize runs (config.SegmentBlockSize),
// cutting down on reallocation while a large panel's ancestors are
// added one at a time. blockSize <= 0 behaves like NewBuilder.
func NewBuilderWithBlockSize(numSites, blockSize int) *Builder {
	perSite := make([]*segment.List[site.Allele], numSites)
	for i := range perSite {
		if blockSize > 0 {
			perSite[i] = segment.NewCap[site.Allele](blockSize)
		} else {
			perSite[i] = segment.New[site.Allele]()
		}
	}
	return &Builder{numSites: numSites, perSite: perSite}
}

// Add appends one ancestor's allele at every site. Ancestor ids are
// assigned by arrival order, starting at 0, matching the ancestor
// package's own id assignment as long as ancestors are added in the
// same order Builder.Build emitted them.
func (b *Builder) Add(a *ancestor.Ancestor) {
	id := b.numAncestors
	for x := 0; x < b.numSites; x++ {
		v := a.AlleleAt(site.ID(x))
		if v == site.Unknown {
			v = site.Ancestral // undefined sites are emitted as the neutral state
		}
		b.perSite[x].Append(id, id+1, v)
	}
	b.numAncestors++
}

// NumAncestors reports how many ancestors have been added so far.
func (b *Builder) NumAncestors() int {
	return b.numAncestors
}

// Dump flattens the per-site segment lists into parallel (site, start,
// end, state) arrays sorted by (site, start), the shape spec §4.2
// hands to the finalized Store. Segments within a site are already in
// append (hence start) order, so this is a straight flatten.
func (b *Builder) Dump() (siteCol []int, start, end []int, state []site.Allele) {
	for x, list := range b.perSite {
		for _, r := range list.Runs() {
			siteCol = append(siteCol, x)
			start = append(start, r.Start)
			end = append(end, r.End)
			state = append(state, r.Value)
		}
	}
	return
}

// PerSite exposes the per-site segment lists directly, for Finalize
// to consume without re-parsing the flattened dump.
func (b *Builder) PerSite() []*segment.List[site.Allele] {
	return b.perSite
}
