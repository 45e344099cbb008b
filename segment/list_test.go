package segment

import (
	"errors"
	"testing"

	"github.com/lesfleursdelanuitdev/genotree/generrors"
)

func TestList_AppendCoalesces(t *testing.T) {
	l := New[int]()
	l.Append(0, 1, 5)
	l.Append(1, 2, 5) // contiguous, same value: should coalesce
	l.Append(2, 3, 9) // different value: new run

	runs := l.Runs()
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2: %+v", len(runs), runs)
	}
	if runs[0] != (Run[int]{0, 2, 5}) {
		t.Errorf("runs[0] = %+v, want {0 2 5}", runs[0])
	}
	if runs[1] != (Run[int]{2, 3, 9}) {
		t.Errorf("runs[1] = %+v, want {2 3 9}", runs[1])
	}
}

func TestList_At(t *testing.T) {
	l := New[string]()
	l.Append(0, 3, "a")
	l.Append(3, 5, "b")

	tests := []struct {
		id    int
		want  string
		found bool
	}{
		{0, "a", true},
		{2, "a", true},
		{3, "b", true},
		{4, "b", true},
		{5, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, found := l.At(tt.id)
		if found != tt.found || got != tt.want {
			t.Errorf("At(%d) = (%q, %v), want (%q, %v)", tt.id, got, found, tt.want, tt.found)
		}
	}
}

func TestList_Merge(t *testing.T) {
	l := &List[int]{runs: []Run[int]{
		{0, 2, 1},
		{2, 4, 1},
		{4, 5, 2},
		{5, 7, 2},
	}}
	l.Merge()
	runs := l.Runs()
	if len(runs) != 2 {
		t.Fatalf("len(runs) after Merge = %d, want 2: %+v", len(runs), runs)
	}
	if runs[0] != (Run[int]{0, 4, 1}) || runs[1] != (Run[int]{4, 7, 2}) {
		t.Errorf("Merge produced %+v", runs)
	}
}

func TestList_ValidatePartition(t *testing.T) {
	good := New[int]()
	good.Append(0, 2, 1)
	good.Append(2, 5, 2)
	if err := good.Validate(5); err != nil {
		t.Errorf("Validate on full partition: %v", err)
	}

	gap := &List[int]{runs: []Run[int]{{0, 2, 1}, {3, 5, 2}}}
	if err := gap.Validate(5); !errors.Is(err, generrors.ErrSegmentOverlap) {
		t.Errorf("Validate on gapped list: got %v, want ErrSegmentOverlap", err)
	}

	short := New[int]()
	short.Append(0, 3, 1)
	if err := short.Validate(5); !errors.Is(err, generrors.ErrSegmentOverlap) {
		t.Errorf("Validate on short coverage: got %v, want ErrSegmentOverlap", err)
	}
}

func TestNewCap_StartsEmptyAndUsable(t *testing.T) {
	l := NewCap[int](16)
	if l.Len() != 0 {
		t.Fatalf("NewCap(16).Len() = %d, want 0", l.Len())
	}
	l.Append(0, 3, 1)
	l.Append(3, 5, 2)
	if err := l.Validate(5); err != nil {
		t.Errorf("Validate: %v", err)
	}

	if neg := NewCap[int](-1); neg.Len() != 0 {
		t.Errorf("NewCap(-1).Len() = %d, want 0", neg.Len())
	}
}

func TestNewFull(t *testing.T) {
	l := NewFull(4, "x")
	if l.Len() != 1 {
		t.Fatalf("NewFull produced %d runs, want 1", l.Len())
	}
	if err := l.Validate(4); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
