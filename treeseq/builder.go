package treeseq

import (
	"sort"

	"github.com/lesfleursdelanuitdev/genotree/ancestorstore"
	"github.com/lesfleursdelanuitdev/genotree/match"
	"github.com/lesfleursdelanuitdev/genotree/site"
)

// LiveInterval is one entry of a parent's live-segment list (spec
// §4.6, "Node mapping / live segment"): the parent is the youngest
// representative of its lineage over [Left, Right) in the tree built
// so far.
type LiveInterval struct {
	Left, Right site.ID
}

// Builder accumulates edgesets and mutations across the epoch-by-
// epoch matching process and resolves each epoch's pending edgesets
// into the finalized set, updating live segments as it goes.
type Builder struct {
	store *ancestorstore.Store

	edgesets  []Edgeset
	mutations []Mutation

	pending map[int][]Edgeset     // parent id -> edgesets submitted this epoch, unresolved
	live    map[int][]liveSegment // ancestor id -> current live-segment list
}

// NewBuilder creates a Builder over a finalized Ancestor Store.
func NewBuilder(store *ancestorstore.Store) *Builder {
	return NewBuilderWithBlockSizes(store, 0, 0, 0)
}

// NewBuilderWithBlockSizes creates a Builder with its finalized
// edgeset/mutation lists and its live-segment/pending maps pre-sized
// per config's edgeset_block_size, mutation_list_node_block_size, and
// node_mapping_block_size, cutting down reallocation on large panels.
// Any size <= 0 falls back to Go's default growth.
func NewBuilderWithBlockSizes(store *ancestorstore.Store, edgesetBlockSize, mutationBlockSize, nodeMappingBlockSize int) *Builder {
	b := &Builder{
		store:   store,
		pending: make(map[int][]Edgeset, max(nodeMappingBlockSize, 0)),
		live:    make(map[int][]liveSegment, max(nodeMappingBlockSize, 0)),
	}
	if edgesetBlockSize > 0 {
		b.edgesets = make([]Edgeset, 0, edgesetBlockSize)
	}
	if mutationBlockSize > 0 {
		b.mutations = make([]Mutation, 0, mutationBlockSize)
	}
	return b
}

// RecordUpdate implements spec §4.6's per-update algorithm: it walks
// the query's traceback into a piecewise-constant parent sequence,
// stages one edgeset per interval for the current epoch's resolve,
// and emits a mutation at every site where the query's haplotype
// disagrees with its chosen parent.
//
// haplotype is local to [startSite, endSite): haplotype[x-startSite]
// is the query's allele at site x.
func (b *Builder) RecordUpdate(childID int, haplotype []site.Allele, startSite, endSite site.ID, endSiteParent int, tb *match.Traceback) {
	path := match.ExtractPath(tb, startSite, endSite, endSiteParent)
	for _, iv := range path {
		b.pending[iv.Parent] = append(b.pending[iv.Parent], Edgeset{
			Left:     iv.Left,
			Right:    iv.Right,
			Parent:   iv.Parent,
			Children: []int{childID},
			Time:     b.store.Age(iv.Parent),
		})
		for x := iv.Left; x < iv.Right; x++ {
			parentAllele := b.store.GetState(x, iv.Parent)
			childAllele := haplotype[int(x-startSite)]
			if parentAllele != childAllele {
				b.mutations = append(b.mutations, Mutation{Site: x, Node: childID, Derived: childAllele})
			}
		}
	}
}

// ResolveEpoch implements spec §4.6's per-epoch resolve: group
// pending edgesets by parent, merge identical [left, right) runs by
// unioning children, append the result to the finalized edgeset list,
// and shrink each parent's live-segment list by the intervals just
// claimed by younger descendants.
func (b *Builder) ResolveEpoch() {
	parents := make([]int, 0, len(b.pending))
	for p := range b.pending {
		parents = append(parents, p)
	}
	sort.Ints(parents)

	for _, parent := range parents {
		merged := mergeEdgesets(b.pending[parent])
		b.edgesets = append(b.edgesets, merged...)

		live := b.getOrInitLive(parent)
		for _, e := range merged {
			live = subtractInterval(live, e.Left, e.Right)
		}
		b.live[parent] = live
	}

	b.pending = make(map[int][]Edgeset)
}

// getOrInitLive returns parent's live-segment list, seeding it with
// the ancestor's full defined interval the first time it is consulted
// (an ancestor starts fully live; nothing has claimed any of it yet).
func (b *Builder) getOrInitLive(ancestorID int) []liveSegment {
	if segs, ok := b.live[ancestorID]; ok {
		return segs
	}
	start, end := b.store.Interval(ancestorID)
	if start >= end {
		return nil
	}
	return []liveSegment{{Left: start, Right: end}}
}

// GetLiveSegments returns the current live-segment list for parent,
// seeding it on first access exactly as ResolveEpoch would. Spec
// §4.6's get_live_segments is described as letting a query's caller
// "restrict the range of a younger query to regions where viable
// parents exist"; see DESIGN.md for why genotree.Infer does not need
// to perform that restriction given how it assigns K (the union of
// live segments across a query's full eligible set [0, K) always
// equals the whole genome). The method is kept and tested directly
// (see builder_test.go) as the query surface spec §4.6 names.
func (b *Builder) GetLiveSegments(ancestorID int) []LiveInterval {
	segs := b.getOrInitLive(ancestorID)
	out := make([]LiveInterval, len(segs))
	for i, s := range segs {
		out[i] = LiveInterval{Left: s.Left, Right: s.Right}
	}
	return out
}

// NodeTime returns the node time for ancestorID: its age, per spec
// §4.6's "time(ancestor) = age(ancestor)".
func (b *Builder) NodeTime(ancestorID int) int {
	return b.store.Age(ancestorID)
}

// Edgesets returns every finalized edgeset in resolve order: epoch by
// epoch, and by increasing parent id within each epoch.
func (b *Builder) Edgesets() []Edgeset {
	return b.edgesets
}

// Mutations returns every emitted mutation, in emission order.
func (b *Builder) Mutations() []Mutation {
	return b.mutations
}

// mergeEdgesets sorts by (Left, Right) and unions children across
// edgesets sharing an identical interval (spec §4.6: "within the same
// interval, merge edgesets with identical [l, r] by unioning children
// into one edgeset with a sorted unique child list").
func mergeEdgesets(runs []Edgeset) []Edgeset {
	sorted := make([]Edgeset, len(runs))
	copy(sorted, runs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Left != sorted[j].Left {
			return sorted[i].Left < sorted[j].Left
		}
		return sorted[i].Right < sorted[j].Right
	})

	var out []Edgeset
	for _, e := range sorted {
		if n := len(out); n > 0 && out[n-1].Left == e.Left && out[n-1].Right == e.Right {
			out[n-1].Children = unionSorted(out[n-1].Children, e.Children)
			continue
		}
		children := make([]int, len(e.Children))
		copy(children, e.Children)
		sort.Ints(children)
		e.Children = children
		out = append(out, e)
	}
	return out
}

// unionSorted merges two sorted slices, removing duplicates.
func unionSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// subtractInterval removes [left, right) from a sorted, disjoint
// live-segment list, splitting segments that straddle the boundary.
func subtractInterval(live []liveSegment, left, right site.ID) []liveSegment {
	if left >= right {
		return live
	}
	var out []liveSegment
	for _, seg := range live {
		if seg.Right <= left || seg.Left >= right {
			out = append(out, seg)
			continue
		}
		if seg.Left < left {
			out = append(out, liveSegment{Left: seg.Left, Right: left})
		}
		if seg.Right > right {
			out = append(out, liveSegment{Left: right, Right: seg.Right})
		}
	}
	return out
}
