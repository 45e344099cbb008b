package site

import (
	"errors"
	"testing"

	"github.com/lesfleursdelanuitdev/genotree/generrors"
)

func validPanel() *Panel {
	return &Panel{
		Positions:  []float64{0.1, 0.2, 0.3},
		Haplotypes: []Allele{0, 1, 0, 1, 0, 1},
		NumSamples: 2,
		NumSites:   3,
	}
}

func TestPanel_Validate_Accepts(t *testing.T) {
	if err := validPanel().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPanel_Validate_RejectsEmpty(t *testing.T) {
	p := validPanel()
	p.NumSamples = 0
	if err := p.Validate(); !errors.Is(err, generrors.ErrEmptyPanel) {
		t.Errorf("Validate = %v, want ErrEmptyPanel", err)
	}
}

func TestPanel_Validate_RejectsNonMonotonicPosition(t *testing.T) {
	p := validPanel()
	p.Positions = []float64{0.1, 0.05, 0.3}
	if err := p.Validate(); !errors.Is(err, generrors.ErrNonMonotonicPosition) {
		t.Errorf("Validate = %v, want ErrNonMonotonicPosition", err)
	}
}

func TestPanel_Validate_RejectsInvalidAllele(t *testing.T) {
	p := validPanel()
	p.Haplotypes[0] = 2
	if err := p.Validate(); !errors.Is(err, generrors.ErrInvalidAllele) {
		t.Errorf("Validate = %v, want ErrInvalidAllele", err)
	}
}

func TestPanel_Validate_RejectsMalformedDimensions(t *testing.T) {
	p := validPanel()
	p.Haplotypes = p.Haplotypes[:5]
	if err := p.Validate(); !errors.Is(err, generrors.ErrMalformedPanel) {
		t.Errorf("Validate = %v, want ErrMalformedPanel", err)
	}
}

func TestPanel_Frequencies(t *testing.T) {
	p := validPanel()
	got := p.Frequencies()
	want := []int{1, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Frequencies()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPanel_CarrierSet(t *testing.T) {
	p := validPanel()
	got := p.CarrierSet(1)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("CarrierSet(1) = %v, want [0]", got)
	}
}
