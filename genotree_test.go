package genotree

import (
	"testing"

	"github.com/lesfleursdelanuitdev/genotree/config"
	"github.com/lesfleursdelanuitdev/genotree/site"
)

// Scenario 1 (spec §8.1): single-site panel. Expect one non-trivial
// ancestor, one edgeset covering the single site with the three
// derived-allele samples as children, and one mutation marking the
// focal site's origin.
func TestInfer_SingleSitePanel(t *testing.T) {
	positions := []float64{0.5}
	haplotypes := []site.Allele{0, 1, 1, 1}
	cfg := config.Default()
	cfg.RecombinationRate = 1e-6
	cfg.ErrorRate = 1e-3

	nodes, edgesets, mutations, err := Infer(positions, haplotypes, 4, cfg)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	// 2 ancestors (universal + 1 synthetic) + 4 samples = 6 nodes.
	if len(nodes.Flags) != 6 {
		t.Fatalf("len(nodes.Flags) = %d, want 6", len(nodes.Flags))
	}
	for i := 0; i < 2; i++ {
		if nodes.Flags[i] != 0 {
			t.Errorf("nodes.Flags[%d] = %d, want 0 (ancestor)", i, nodes.Flags[i])
		}
	}
	for i := 2; i < 6; i++ {
		if nodes.Flags[i] != 1 {
			t.Errorf("nodes.Flags[%d] = %d, want 1 (sample)", i, nodes.Flags[i])
		}
	}

	// Find the edgeset whose parent is the synthetic ancestor (id 1)
	// and whose children are exactly the three derived-allele samples.
	found := false
	for i := range edgesets.Parent {
		if edgesets.Parent[i] != 1 {
			continue
		}
		if edgesets.ChildrenLength[i] == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("no edgeset with parent=1 and 3 children found in %+v", edgesets)
	}

	if len(mutations.Site) == 0 {
		t.Error("expected at least one mutation (the focal site's origin)")
	}
	for _, s := range mutations.Site {
		if s != 0 {
			t.Errorf("mutation site = %d, want 0 (the only site)", s)
		}
	}
}

// Scenario 2 (spec §8.2): perfect linkage should collapse two focal
// sites into one ancestor, not two, which Infer must reflect in its
// node count.
func TestInfer_PerfectLinkageCollapsesToOneAncestor(t *testing.T) {
	positions := []float64{0.1, 0.2}
	haplotypes := []site.Allele{
		0, 0,
		1, 1,
		1, 1,
		1, 1,
	}
	nodes, _, _, err := Infer(positions, haplotypes, 4, config.Default())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	// 2 ancestors (universal + 1 merged synthetic) + 4 samples = 6.
	if len(nodes.Flags) != 6 {
		t.Fatalf("len(nodes.Flags) = %d, want 6 (perfect linkage must yield one ancestor, not two)", len(nodes.Flags))
	}
}

func TestInfer_RejectsInvalidAllele(t *testing.T) {
	positions := []float64{0.1}
	haplotypes := []site.Allele{0, 2}
	if _, _, _, err := Infer(positions, haplotypes, 2, config.Default()); err == nil {
		t.Error("expected error for allele outside {0,1}")
	}
}

func TestInfer_DefaultConfigWhenNil(t *testing.T) {
	positions := []float64{0.1, 0.2}
	haplotypes := []site.Allele{0, 0, 1, 1}
	if _, _, _, err := Infer(positions, haplotypes, 2, nil); err != nil {
		t.Fatalf("Infer with nil config: %v", err)
	}
}
