package match

import "testing"

func TestNewTracebackWithBlockSize_BehavesLikeNewTraceback(t *testing.T) {
	tb := NewTracebackWithBlockSize(4, 32)
	tb.AddRecombination(1, 0, 2, 5)
	if got, ok := tb.At(1, 0); !ok || got != 5 {
		t.Errorf("At(1, 0) = (%d, %v), want (5, true)", got, ok)
	}

	zero := NewTracebackWithBlockSize(4, 0)
	if _, ok := zero.At(0, 0); ok {
		t.Errorf("fresh traceback should have no recorded recombinations")
	}
}

func TestExtractPath_SingleMidRunJump(t *testing.T) {
	tb := NewTraceback(4)
	// at site 2, ancestor 7 recombines from ancestor 3
	tb.AddRecombination(2, 7, 8, 3)

	path := ExtractPath(tb, 0, 4, 7)
	want := []Interval{
		{0, 2, 3},
		{2, 4, 7},
	}
	if len(path) != len(want) {
		t.Fatalf("len(path) = %d, want %d: %+v", len(path), len(want), path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %+v, want %+v", i, path[i], want[i])
		}
	}
}

func TestExtractPath_ChainedJumpsAcrossSites(t *testing.T) {
	tb := NewTraceback(5)
	// walking backward from site 4: parent 9 recombines to 4 at site 3,
	// then parent 4 recombines to 1 at site 1.
	tb.AddRecombination(3, 9, 10, 4)
	tb.AddRecombination(1, 4, 5, 1)

	path := ExtractPath(tb, 0, 5, 9)
	want := []Interval{
		{0, 1, 1},
		{1, 3, 4},
		{3, 5, 9},
	}
	if len(path) != len(want) {
		t.Fatalf("len(path) = %d, want %d: %+v", len(path), len(want), path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %+v, want %+v", i, path[i], want[i])
		}
	}
}

func TestExtractPath_EmptyRangeIsNil(t *testing.T) {
	tb := NewTraceback(3)
	if path := ExtractPath(tb, 2, 2, 0); path != nil {
		t.Errorf("ExtractPath on empty range = %+v, want nil", path)
	}
}

func TestTraceback_ResetClearsAllSites(t *testing.T) {
	tb := NewTraceback(3)
	tb.AddRecombination(0, 0, 1, 2)
	tb.AddRecombination(1, 1, 2, 0)
	tb.Reset()

	for x := 0; x < 3; x++ {
		if _, ok := tb.At(x, 0); ok {
			t.Errorf("site %d: expected no recorded recombination after Reset", x)
		}
	}
}
