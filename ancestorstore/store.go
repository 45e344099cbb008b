package ancestorstore

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lesfleursdelanuitdev/genotree/ancestor"
	"github.com/lesfleursdelanuitdev/genotree/generrors"
	"github.com/lesfleursdelanuitdev/genotree/segment"
	"github.com/lesfleursdelanuitdev/genotree/site"
)

// Store is the immutable, random-access view over a built set of
// ancestors (spec §4.3). It is safe for concurrent readers once
// Finalize has returned, matching spec §5's "Ancestor Store is
// read-only after build and may be shared freely."
type Store struct {
	numSites     int
	numAncestors int
	perSite      []*segment.List[site.Allele]

	ages       []int
	focalSites [][]site.ID
	starts     []site.ID
	ends       []site.ID
	numOlder   []int

	epochFirst map[int]int
	epochCount map[int]int

	// materialized ancestor cache: GetAncestor is an O(L) scan, and
	// the Matcher re-reads the same ancestor's full allele vector
	// repeatedly within an epoch.
	cache *lru.Cache[int, []site.Allele]
}

const defaultCacheSize = 256

// Finalize freezes a Builder plus the ancestors it was fed (in the
// same order) into a queryable Store, validating the global segment
// invariant (spec §8: "For every site, the segment list of the
// finalized store covers [0, A) exactly").
func Finalize(b *Builder, ancestors []*ancestor.Ancestor) (*Store, error) {
	if b.numAncestors != len(ancestors) {
		return nil, fmt.Errorf("ancestorstore: builder has %d ancestors, got %d in ancestor list", b.numAncestors, len(ancestors))
	}
	for x, list := range b.perSite {
		if err := list.Validate(b.numAncestors); err != nil {
			return nil, fmt.Errorf("ancestorstore: site %d: %w", x, err)
		}
	}

	s := &Store{
		numSites:     b.numSites,
		numAncestors: b.numAncestors,
		perSite:      b.perSite,
		ages:         make([]int, len(ancestors)),
		focalSites:   make([][]site.ID, len(ancestors)),
		starts:       make([]site.ID, len(ancestors)),
		ends:         make([]site.ID, len(ancestors)),
		numOlder:     make([]int, len(ancestors)),
		epochFirst:   make(map[int]int),
		epochCount:   make(map[int]int),
	}

	for i, a := range ancestors {
		if a.ID != i {
			return nil, fmt.Errorf("%w: ancestor at position %d has id %d", generrors.ErrNonTopological, i, a.ID)
		}
		if i > 0 && a.Age < ancestors[i-1].Age {
			return nil, fmt.Errorf("%w: ancestor %d (age %d) is older than ancestor %d (age %d) but was assigned a later id", generrors.ErrNonTopological, a.ID, a.Age, i-1, ancestors[i-1].Age)
		}
		s.ages[i] = a.Age
		s.focalSites[i] = a.FocalSites
		s.starts[i] = a.StartSite
		s.ends[i] = a.EndSite
		if _, ok := s.epochFirst[a.Age]; !ok {
			s.epochFirst[a.Age] = i
		}
		s.epochCount[a.Age]++
	}

	for i, age := range s.ages {
		older := 0
		for otherAge := range s.epochCount {
			if otherAge < age {
				older += s.epochCount[otherAge]
			}
		}
		s.numOlder[i] = older
	}

	cache, err := lru.New[int, []site.Allele](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("ancestorstore: building materialization cache: %w", err)
	}
	s.cache = cache

	return s, nil
}

// NumAncestors reports A, the total number of ancestors in the store.
func (s *Store) NumAncestors() int {
	return s.numAncestors
}

// NumSites reports L.
func (s *Store) NumSites() int {
	return s.numSites
}

// GetState binary searches the segment list at site for the run
// containing ancestor, returning its allele (spec §4.3).
func (s *Store) GetState(x site.ID, ancestorID int) site.Allele {
	v, ok := s.perSite[int(x)].At(ancestorID)
	if !ok {
		return site.Ancestral
	}
	return v
}

// Age returns the epoch of ancestorID.
func (s *Store) Age(ancestorID int) int {
	return s.ages[ancestorID]
}

// NumOlderAncestors returns the count of ancestors with strictly
// smaller age than ancestorID — the number of ancestors already built
// (and already matched into the tree) by the time ancestorID's own
// epoch is processed. Age 0 is the universal ancestor's epoch, the
// oldest possible, so NumOlderAncestors(ancestorID) is the count of
// ancestors strictly older than it and is exactly the K used by the
// Matcher's Li-Stephens model.
func (s *Store) NumOlderAncestors(ancestorID int) int {
	return s.numOlder[ancestorID]
}

// Interval returns [start, end) for ancestorID.
func (s *Store) Interval(ancestorID int) (site.ID, site.ID) {
	return s.starts[ancestorID], s.ends[ancestorID]
}

// FocalSites returns the builder-recorded focal sites for ancestorID.
func (s *Store) FocalSites(ancestorID int) []site.ID {
	return s.focalSites[ancestorID]
}

// GetAncestor materializes ancestorID's full allele vector, caching
// the result behind an LRU keyed by ancestor id. Sites outside
// [start, end) are emitted as 0, the neutral state (spec §4.3).
func (s *Store) GetAncestor(ancestorID int) (alleles []site.Allele, start, end site.ID, numOlder int, focal []site.ID) {
	start, end = s.starts[ancestorID], s.ends[ancestorID]
	numOlder = s.numOlder[ancestorID]
	focal = s.focalSites[ancestorID]

	if cached, ok := s.cache.Get(ancestorID); ok {
		return cached, start, end, numOlder, focal
	}

	alleles = make([]site.Allele, s.numSites)
	for x := 0; x < s.numSites; x++ {
		alleles[x] = s.GetState(site.ID(x), ancestorID)
	}
	s.cache.Add(ancestorID, alleles)
	return alleles, start, end, numOlder, focal
}

// GetEpochAncestors returns the contiguous ancestor id range
// [first, first+count) for the given age.
func (s *Store) GetEpochAncestors(age int) []int {
	first, ok := s.epochFirst[age]
	if !ok {
		return nil
	}
	count := s.epochCount[age]
	ids := make([]int, count)
	for i := range ids {
		ids[i] = first + i
	}
	return ids
}

// Epochs returns every distinct age present, oldest (smallest) first.
func (s *Store) Epochs() []int {
	ages := make([]int, 0, len(s.epochCount))
	for a := range s.epochCount {
		ages = append(ages, a)
	}
	sort.Ints(ages)
	return ages
}
