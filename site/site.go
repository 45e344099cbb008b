// Package site defines the basic value types shared across genotree's
// pipeline: sites, alleles, and the haplotype matrix supplied by the
// caller.
package site

import (
	"fmt"

	"github.com/lesfleursdelanuitdev/genotree/generrors"
)

// Allele is the state of a single site on a single haplotype. Values
// outside {0, 1} are invalid input; Unknown marks a site that is
// outside an ancestor's defined interval.
type Allele int8

const (
	Ancestral Allele = 0
	Derived   Allele = 1
	Unknown   Allele = -1
)

// ID identifies a site by its position in the input panel, in
// [0, L).
type ID int

// Site carries a genomic position and the derived-allele frequency
// observed for it in the sample panel.
type Site struct {
	Position  float64
	Frequency int
}

// Panel is the aligned haplotype matrix handed in by the caller:
// Positions has length L, Haplotypes is row-major sample-by-site with
// N*L entries.
type Panel struct {
	Positions  []float64
	Haplotypes []Allele
	NumSamples int
	NumSites   int
}

// At returns the allele of sample s at site x.
func (p *Panel) At(s int, x ID) Allele {
	return p.Haplotypes[s*p.NumSites+int(x)]
}

// Validate checks the structural invariants spec §7 requires before any
// work begins: nonzero dimensions, monotonic positions, and alleles
// restricted to {0, 1}.
func (p *Panel) Validate() error {
	if p.NumSamples == 0 {
		return fmt.Errorf("%w: N=0", generrors.ErrEmptyPanel)
	}
	if p.NumSites == 0 {
		return fmt.Errorf("%w: L=0", generrors.ErrEmptyPanel)
	}
	if len(p.Positions) != p.NumSites {
		return fmt.Errorf("%w: positions has %d entries, want %d", generrors.ErrMalformedPanel, len(p.Positions), p.NumSites)
	}
	if len(p.Haplotypes) != p.NumSamples*p.NumSites {
		return fmt.Errorf("%w: haplotypes has %d entries, want %d", generrors.ErrMalformedPanel, len(p.Haplotypes), p.NumSamples*p.NumSites)
	}
	for i := 1; i < len(p.Positions); i++ {
		if p.Positions[i] < p.Positions[i-1] {
			return fmt.Errorf("%w: position[%d]=%v < position[%d]=%v", generrors.ErrNonMonotonicPosition, i, p.Positions[i], i-1, p.Positions[i-1])
		}
	}
	for i, a := range p.Haplotypes {
		if a != Ancestral && a != Derived {
			return fmt.Errorf("%w: haplotype entry %d has value %d", generrors.ErrInvalidAllele, i, a)
		}
	}
	return nil
}

// Frequencies computes the derived-allele count per site across all
// samples, used by the Ancestor Builder to group sites into frequency
// classes.
func (p *Panel) Frequencies() []int {
	freq := make([]int, p.NumSites)
	for s := 0; s < p.NumSamples; s++ {
		base := s * p.NumSites
		for x := 0; x < p.NumSites; x++ {
			if p.Haplotypes[base+x] == Derived {
				freq[x]++
			}
		}
	}
	return freq
}

// CarrierSet returns, for site x, the set of sample indices carrying
// the derived allele, as a sorted slice.
func (p *Panel) CarrierSet(x ID) []int {
	carriers := make([]int, 0, p.NumSamples)
	for s := 0; s < p.NumSamples; s++ {
		if p.At(s, x) == Derived {
			carriers = append(carriers, s)
		}
	}
	return carriers
}
