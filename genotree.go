// Package genotree reconstructs a tree sequence from a panel of
// aligned binary haplotypes: it synthesizes an ancestral hierarchy
// (ancestor), compresses it into a queryable store (ancestorstore),
// finds each ancestor's and each sample's maximum-likelihood copying
// path through older ancestors (match), and resolves those paths into
// a conflict-free forest of edgesets and mutations (treeseq). See
// SPEC_FULL.md for the full component breakdown.
package genotree

import (
	"fmt"
	"os"
	"sync"

	"github.com/lesfleursdelanuitdev/genotree/ancestor"
	"github.com/lesfleursdelanuitdev/genotree/ancestorstore"
	"github.com/lesfleursdelanuitdev/genotree/config"
	"github.com/lesfleursdelanuitdev/genotree/debug"
	"github.com/lesfleursdelanuitdev/genotree/match"
	"github.com/lesfleursdelanuitdev/genotree/report"
	"github.com/lesfleursdelanuitdev/genotree/site"
	"github.com/lesfleursdelanuitdev/genotree/treeseq"
)

// Nodes is the flattened node dump of spec §6: Flags[i]=1 marks a
// sample, 0 an internal (synthesized) ancestor; Time is its epoch
// cast to float64 (the Node time spec §4.6 assigns).
type Nodes struct {
	Flags []int
	Time  []float64
}

// Edgesets is the flattened edgeset dump of spec §6: Left/Right are
// genomic positions (converted from site ids via Positions), Parent
// is an ancestor/node id, and Children is the flattened, sorted-
// unique child id list with ChildrenLength giving each edgeset's
// share of it.
type Edgesets struct {
	Left, Right    []float64
	Parent         []int
	Children       []int
	ChildrenLength []int
}

// Mutations is the flattened mutation dump of spec §6.
type Mutations struct {
	Site         []int
	Node         []int
	DerivedState []int
}

// Infer runs the full pipeline over an N-sample, L-site panel and
// returns the three output dumps of spec §6's External Interfaces.
// haplotypes is row-major (sample-major): haplotypes[s*L+x].
func Infer(positions []float64, haplotypes []site.Allele, numSamples int, cfg *config.Config) (Nodes, Edgesets, Mutations, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return Nodes{}, Edgesets{}, Mutations{}, err
	}

	panel := &site.Panel{
		Positions:  positions,
		Haplotypes: haplotypes,
		NumSamples: numSamples,
		NumSites:   len(positions),
	}
	if err := panel.Validate(); err != nil {
		return Nodes{}, Edgesets{}, Mutations{}, err
	}

	ancestorBuilder := ancestor.NewBuilder(panel)
	ancestorBuilder.ShowProgress = !cfg.Quiet
	ancestors := ancestorBuilder.Build()

	storeBuilder := ancestorstore.NewBuilderWithBlockSize(panel.NumSites, cfg.SegmentBlockSize)
	for _, a := range ancestors {
		storeBuilder.Add(a)
	}
	store, err := ancestorstore.Finalize(storeBuilder, ancestors)
	if err != nil {
		return Nodes{}, Edgesets{}, Mutations{}, fmt.Errorf("genotree: building ancestor store: %w", err)
	}

	params := match.Params{Rho: cfg.RecombinationRate, Mu: cfg.ErrorRate}
	tsBuilder := treeseq.NewBuilderWithBlockSizes(store, cfg.EdgesetBlockSize, cfg.MutationListNodeBlockSize, cfg.NodeMappingBlockSize)

	epochs := store.Epochs()
	bar := report.New(int64(len(epochs)-1), "matching ancestors", !cfg.Quiet, os.Stderr)
	defer bar.Finish()

	// Epoch 0 holds only the universal ancestor: it is the root and
	// is never itself matched against an older parent.
	for _, age := range epochs {
		if age == 0 {
			continue
		}
		ids := store.GetEpochAncestors(age)
		if err := matchEpoch(store, tsBuilder, ancestors, ids, params, cfg.SegmentBlockSize); err != nil {
			return Nodes{}, Edgesets{}, Mutations{}, err
		}
		tsBuilder.ResolveEpoch()
		bar.Add(1)
	}

	sampleIDs := make([]int, numSamples)
	sampleHaplotype := make([][]site.Allele, numSamples)
	for s := 0; s < numSamples; s++ {
		sampleIDs[s] = len(ancestors) + s
		hap := make([]site.Allele, panel.NumSites)
		for x := 0; x < panel.NumSites; x++ {
			hap[x] = panel.At(s, site.ID(x))
		}
		sampleHaplotype[s] = hap
	}
	if err := matchSamples(store, tsBuilder, sampleIDs, sampleHaplotype, params, cfg.SegmentBlockSize); err != nil {
		return Nodes{}, Edgesets{}, Mutations{}, err
	}
	tsBuilder.ResolveEpoch()

	nodes := assembleNodes(ancestors, numSamples, store)
	edgesets := assembleEdgesets(positions, tsBuilder)
	mutations := assembleMutations(tsBuilder)
	return nodes, edgesets, mutations, nil
}

// matchEpoch runs the Matcher concurrently over every ancestor in one
// epoch (spec §5: "all queries in epoch e may run concurrently because
// none depends on another's output"), then feeds the results into the
// Tree Sequence Builder serially, since it is written to by one
// worker at a time.
//
// Neither matchEpoch nor matchSamples clips a query's range against
// tsBuilder.GetLiveSegments: each query's K is exactly the count of
// ancestors in strictly older, already-resolved epochs (Store.NumOlderAncestors,
// or NumAncestors for the final sample epoch), so by
// ResolveEpoch's live-segment bookkeeping invariant the union of live
// segments over ids [0, K) always equals the full genome — the
// restriction spec §4.6 describes would never narrow the range here.
// See DESIGN.md for the invariant.
func matchEpoch(store *ancestorstore.Store, tsBuilder *treeseq.Builder, ancestors []*ancestor.Ancestor, ids []int, params match.Params, tracebackBlockSize int) error {
	type outcome struct {
		id     int
		result match.Result
		tb     *match.Traceback
		hap    []site.Allele
		start  site.ID
		end    site.ID
	}
	outcomes := make([]outcome, len(ids))

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			a := ancestors[id]
			tb := match.NewTracebackWithBlockSize(store.NumSites(), tracebackBlockSize)
			query := match.Query{
				Haplotype:  a.Haplotype(),
				StartSite:  a.StartSite,
				EndSite:    a.EndSite,
				FocalSites: a.FocalSites,
				K:          store.NumOlderAncestors(id),
			}
			result, err := match.Match(store, query, params, tb)
			if err != nil {
				errs[i] = fmt.Errorf("genotree: matching ancestor %d: %w", id, err)
				return
			}
			outcomes[i] = outcome{id: id, result: result, tb: tb, hap: a.Haplotype(), start: a.StartSite, end: a.EndSite}
		}(i, id)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	for _, o := range outcomes {
		tsBuilder.RecordUpdate(o.id, o.hap, o.start, o.end, o.result.EndSiteParent, o.tb)
	}
	return nil
}

// matchSamples matches the N input haplotypes — the youngest epoch,
// copying from the entire ancestor set — the same way matchEpoch
// handles a synthesized epoch.
func matchSamples(store *ancestorstore.Store, tsBuilder *treeseq.Builder, sampleIDs []int, haplotypes [][]site.Allele, params match.Params, tracebackBlockSize int) error {
	type outcome struct {
		id     int
		result match.Result
		tb     *match.Traceback
	}
	outcomes := make([]outcome, len(sampleIDs))
	errs := make([]error, len(sampleIDs))

	var wg sync.WaitGroup
	for i := range sampleIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tb := match.NewTracebackWithBlockSize(store.NumSites(), tracebackBlockSize)
			query := match.Query{
				Haplotype: haplotypes[i],
				StartSite: 0,
				EndSite:   site.ID(store.NumSites()),
				K:         store.NumAncestors(),
			}
			result, err := match.Match(store, query, params, tb)
			if err != nil {
				errs[i] = fmt.Errorf("genotree: matching sample %d: %w", i, err)
				return
			}
			outcomes[i] = outcome{id: sampleIDs[i], result: result, tb: tb}
		}(i)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	for i, o := range outcomes {
		tsBuilder.RecordUpdate(o.id, haplotypes[i], 0, site.ID(store.NumSites()), o.result.EndSiteParent, o.tb)
	}
	return nil
}

// assembleNodes flattens node flags/times per spec §6: A ancestors
// (flag 0, time = age) followed by N samples (flag 1, time = one past
// the largest age, i.e. the youngest epoch, since every sample is
// younger than every ancestor).
func assembleNodes(ancestors []*ancestor.Ancestor, numSamples int, store *ancestorstore.Store) Nodes {
	numNodes := len(ancestors) + numSamples
	nodes := Nodes{Flags: make([]int, numNodes), Time: make([]float64, numNodes)}
	for i := range ancestors {
		nodes.Time[i] = float64(store.Age(i))
	}
	sampleAge := 0
	for _, a := range store.Epochs() {
		if a > sampleAge {
			sampleAge = a
		}
	}
	sampleAge++
	for s := 0; s < numSamples; s++ {
		id := len(ancestors) + s
		nodes.Flags[id] = 1
		nodes.Time[id] = float64(sampleAge)
	}
	return nodes
}

// assembleEdgesets flattens the Tree Sequence Builder's finalized
// edgesets into the parallel-array, offset-encoded children dump of
// spec §6, converting site ids to positions via positions[].
func assembleEdgesets(positions []float64, tsBuilder *treeseq.Builder) Edgesets {
	edges := tsBuilder.Edgesets()
	out := Edgesets{
		Left:           make([]float64, len(edges)),
		Right:          make([]float64, len(edges)),
		Parent:         make([]int, len(edges)),
		ChildrenLength: make([]int, len(edges)),
	}
	for i, e := range edges {
		out.Left[i] = positions[int(e.Left)]
		out.Right[i] = edgeRightPosition(positions, e.Right)
		out.Parent[i] = e.Parent
		out.ChildrenLength[i] = len(e.Children)
		out.Children = append(out.Children, e.Children...)
	}
	return out
}

// edgeRightPosition converts a half-open site-id bound to a position:
// right is itself a valid site id unless it equals the panel's site
// count, the one case it refers to "just past the last site".
func edgeRightPosition(positions []float64, right site.ID) float64 {
	if int(right) < len(positions) {
		return positions[int(right)]
	}
	return positions[len(positions)-1]
}

// assembleMutations flattens the Tree Sequence Builder's mutations
// into the parallel-array dump of spec §6.
func assembleMutations(tsBuilder *treeseq.Builder) Mutations {
	muts := tsBuilder.Mutations()
	out := Mutations{
		Site:         make([]int, len(muts)),
		Node:         make([]int, len(muts)),
		DerivedState: make([]int, len(muts)),
	}
	for i, m := range muts {
		out.Site[i] = int(m.Site)
		out.Node[i] = m.Node
		out.DerivedState[i] = int(m.Derived)
	}
	return out
}

// ToDebugResult un-flattens an Infer result back into debug.Result,
// the shape debug.Dump renders for development-time inspection.
func ToDebugResult(nodes Nodes, edgesets Edgesets, mutations Mutations) debug.Result {
	r := debug.Result{
		NumAncestors: len(nodes.Flags) - countSamples(nodes.Flags),
		Flags:        nodes.Flags,
		Time:         nodes.Time,
	}

	childOffset := 0
	for i := range edgesets.Left {
		n := edgesets.ChildrenLength[i]
		children := append([]int(nil), edgesets.Children[childOffset:childOffset+n]...)
		childOffset += n
		r.Edges = append(r.Edges, debug.EdgeSummary{
			Left:     edgesets.Left[i],
			Right:    edgesets.Right[i],
			Parent:   edgesets.Parent[i],
			Children: children,
		})
	}

	for i := range mutations.Site {
		r.Mutations = append(r.Mutations, debug.MutSummary{
			Site:    mutations.Site[i],
			Node:    mutations.Node[i],
			Derived: mutations.DerivedState[i],
		})
	}
	return r
}

func countSamples(flags []int) int {
	n := 0
	for _, f := range flags {
		if f == 1 {
			n++
		}
	}
	return n
}
