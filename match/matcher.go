package match

import (
	"fmt"

	"github.com/lesfleursdelanuitdev/genotree/ancestorstore"
	"github.com/lesfleursdelanuitdev/genotree/generrors"
	"github.com/lesfleursdelanuitdev/genotree/site"
)

// Params holds the Li-Stephens model parameters: the recombination
// rate rho and the per-site mismatch probability mu (spec §4.4).
type Params struct {
	Rho float64
	Mu  float64
}

// Query is the haplotype being matched against the store: its allele
// sequence over [StartSite, EndSite), its focal sites (mismatch is
// forbidden there whenever some eligible parent carries the query's
// allele; see emit), and K, the number of eligible parent ancestors —
// those occupying store ids [0, K), i.e. strictly older than the
// query (spec §4.4's num_older_ancestors_of_query).
type Query struct {
	Haplotype  []site.Allele // local, indexed by x-StartSite
	StartSite  site.ID
	EndSite    site.ID
	FocalSites []site.ID
	K          int
}

func (q Query) alleleAt(x site.ID) site.Allele {
	return q.Haplotype[int(x-q.StartSite)]
}

// Result carries the matcher's two outputs: the best parent at the
// last matched site (spec §4.4's end_site_value), and the final
// normalized likelihood of that parent (useful for diagnostics).
type Result struct {
	EndSiteParent     int
	EndSiteLikelihood float64
}

// Match runs the segment-at-a-time Li-Stephens Viterbi recursion of
// spec §4.4 over query against store, writing recombination
// transitions into tb. The per-ancestor likelihood state is kept as a
// dense array rather than literally coalesced segments — the emission
// step must consult the store's allele state for every ancestor
// anyway, so a dense pass gives the same result with much simpler
// code; the Traceback it produces is still the documented
// (start, end, ancestor) run-length structure, because recombination
// decisions are grouped into coalesced runs exactly as spec §4.4 step
// 5 ("Merge") describes.
//
// Every eligible ancestor (ids [0, query.K)) is materialized once via
// store.GetAncestor before the per-site loop, rather than binary
// searched per site through store.GetState: every ancestor in the
// same epoch shares the same eligible set, so concurrent matches
// within an epoch (genotree.matchEpoch) hit the same materialized
// vectors, which is exactly what GetAncestor's LRU cache is for.
func Match(store *ancestorstore.Store, query Query, params Params, tb *Traceback) (Result, error) {
	if query.K <= 0 {
		return Result{}, fmt.Errorf("%w: K=%d", generrors.ErrNoEligibleParents, query.K)
	}
	K := query.K

	focal := make(map[site.ID]bool, len(query.FocalSites))
	for _, f := range query.FocalSites {
		focal[f] = true
	}

	parents := make([][]site.Allele, K)
	for a := 0; a < K; a++ {
		hap, _, _, _, _ := store.GetAncestor(a)
		parents[a] = hap
	}

	L := make([]float64, K)
	for i := range L {
		L[i] = 1
	}

	first := true
	for x := query.StartSite; x < query.EndSite; x++ {
		if !first {
			lMax, argMax := maxOf(L)
			transitioned := make([]float64, K)
			recombinesTo := make([]int, K)
			for i := range recombinesTo {
				recombinesTo[i] = -1
			}
			for i, l := range L {
				stay := l * (1 - params.Rho)
				jump := lMax * params.Rho / float64(K)
				if jump > stay {
					transitioned[i] = jump
					recombinesTo[i] = argMax
				} else {
					transitioned[i] = stay
				}
			}
			recordRecombinations(tb, int(x), recombinesTo)
			L = transitioned
		}
		first = false

		emit(parents, query, x, focal, params.Mu, L)

		lMax, _ := maxOf(L)
		if lMax == 0 {
			return Result{}, fmt.Errorf("%w: site %d", generrors.ErrUnderflow, x)
		}
		for i := range L {
			L[i] /= lMax
		}
	}

	lMax, argMax := maxOf(L)
	return Result{EndSiteParent: argMax, EndSiteLikelihood: lMax}, nil
}

// emit applies spec §4.4's emission step in place on L: match
// probability 1-mu, mismatch probability mu, with focal sites forcing
// the query's declared derived allele by zeroing disagreeing
// ancestors outright. The focal ban applies only when at least one
// ancestor with nonzero likelihood carries the query's allele at x;
// when none does (e.g. an oldest-epoch ancestor whose only eligible
// parent is the all-zero universal ancestor), x is emitted like an
// ordinary site, so the mismatch becomes the focal site's mutation.
// parents[a] is ancestor a's full allele vector, materialized once per
// Match call by store.GetAncestor.
func emit(parents [][]site.Allele, query Query, x site.ID, focal map[site.ID]bool, mu float64, L []float64) {
	q := query.alleleAt(x)
	isFocal := focal[x]
	if isFocal {
		carried := false
		for a := range L {
			if L[a] > 0 && parents[a][int(x)] == q {
				carried = true
				break
			}
		}
		isFocal = carried
	}
	for a := range L {
		p := parents[a][int(x)]
		switch {
		case isFocal && p != q:
			L[a] = 0
		case isFocal:
			// match at a forced focal site: emission probability 1, no scaling
		case p == q:
			L[a] *= 1 - mu
		default:
			L[a] *= mu
		}
	}
}

// maxOf returns the maximum value in L and the smallest index
// achieving it (the "representative ancestor" of spec §4.4 step 1).
func maxOf(L []float64) (float64, int) {
	best := L[0]
	bestIdx := 0
	for i, v := range L {
		if v > best {
			best = v
			bestIdx = i
		}
	}
	return best, bestIdx
}

// recordRecombinations groups contiguous ancestors that recombined to
// the same target into coalesced Traceback runs (spec §4.4 step 5,
// applied to the traceback rather than the likelihood list itself).
func recordRecombinations(tb *Traceback, x int, recombinesTo []int) {
	i := 0
	for i < len(recombinesTo) {
		if recombinesTo[i] < 0 {
			i++
			continue
		}
		j := i + 1
		for j < len(recombinesTo) && recombinesTo[j] == recombinesTo[i] {
			j++
		}
		tb.AddRecombination(x, i, j, recombinesTo[i])
		i = j
	}
}
