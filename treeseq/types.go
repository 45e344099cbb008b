// Package treeseq implements the Tree Sequence Builder (spec §4.6):
// resolution of many independent copying paths, one per ancestor or
// sample query, into a conflict-free set of edgesets and mutations
// over genomic intervals, plus the live-segment accounting that lets
// younger queries restrict their matching range to where viable
// parents still exist.
package treeseq

import "github.com/lesfleursdelanuitdev/genotree/site"

// Edgeset is one parent's relationship to a sorted, unique set of
// children over the half-open interval [Left, Right). Time is the
// parent's age, carried here so callers can dump nodes/edges without
// a second store lookup.
type Edgeset struct {
	Left, Right site.ID
	Parent      int
	Children    []int
	Time        int
}

// Mutation records that, on the branch leading to Node at Site, the
// allele changed to Derived.
type Mutation struct {
	Site    site.ID
	Node    int
	Derived site.Allele
}

// liveSegment is one interval of a parent's live-segment list: the
// parent is the youngest representative of its lineage over
// [Left, Right) until a younger descendant's edge claims part of it.
type liveSegment struct {
	Left, Right site.ID
}
