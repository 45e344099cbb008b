// Package ancestor defines the Ancestor type and the Ancestor Builder
// (spec §3 "Ancestor", §4.1 "Ancestor Builder").
package ancestor

import "github.com/lesfleursdelanuitdev/genotree/site"

// Ancestor is a synthetic or sample haplotype placed in the
// genealogical hierarchy: an integer id, an age (smaller is older;
// age 0 is the universal ancestor, the oldest possible), the focal
// sites it was built for, and an allele sequence defined over the
// contiguous interval [StartSite, EndSite).
type Ancestor struct {
	ID         int
	Age        int
	FocalSites []site.ID
	StartSite  site.ID
	EndSite    site.ID
	// haplotype holds one allele per site in [StartSite, EndSite),
	// indexed relative to StartSite.
	haplotype []site.Allele
}

// New constructs an Ancestor from an already-computed local allele
// slice (length EndSite-StartSite).
func New(id, age int, focal []site.ID, start, end site.ID, haplotype []site.Allele) *Ancestor {
	return &Ancestor{
		ID:         id,
		Age:        age,
		FocalSites: focal,
		StartSite:  start,
		EndSite:    end,
		haplotype:  haplotype,
	}
}

// Universal returns ancestor 0: all-zeros over all L sites, the
// oldest possible ancestor (spec §3: "ancestor_id = 0 is the
// universal ultimate ancestor").
func Universal(numSites int) *Ancestor {
	hap := make([]site.Allele, numSites)
	return &Ancestor{
		ID:        0,
		Age:       0,
		StartSite: 0,
		EndSite:   site.ID(numSites),
		haplotype: hap,
	}
}

// AlleleAt returns the ancestor's allele at x, or site.Unknown if x
// falls outside [StartSite, EndSite).
func (a *Ancestor) AlleleAt(x site.ID) site.Allele {
	if x < a.StartSite || x >= a.EndSite {
		return site.Unknown
	}
	return a.haplotype[int(x-a.StartSite)]
}

// IsFocal reports whether x is one of this ancestor's focal sites.
func (a *Ancestor) IsFocal(x site.ID) bool {
	for _, f := range a.FocalSites {
		if f == x {
			return true
		}
		if f > x {
			break
		}
	}
	return false
}

// Haplotype returns the local allele slice (length EndSite-StartSite).
// Callers must not mutate it.
func (a *Ancestor) Haplotype() []site.Allele {
	return a.haplotype
}
