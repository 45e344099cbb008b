package debug

import (
	"bytes"
	"strings"
	"testing"
)

func sampleResult() Result {
	return Result{
		NumAncestors: 1,
		Flags:        []int{0, 1},
		Time:         []float64{1, 2},
		Edges: []EdgeSummary{
			{Left: 0, Right: 1, Parent: 0, Children: []int{1}},
		},
		Mutations: []MutSummary{
			{Site: 0, Node: 1, Derived: 1},
		},
	}
}

func TestDump_Text(t *testing.T) {
	InitColor(false)
	var buf bytes.Buffer
	if err := Dump(&buf, sampleResult(), FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"nodes (2)", "edgesets (1)", "mutations (1)", "parent=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("text dump missing %q; got:\n%s", want, out)
		}
	}
}

func TestDump_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, sampleResult(), FormatYAML); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"num_ancestors: 1", "parent: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml dump missing %q; got:\n%s", want, out)
		}
	}
}

func TestDump_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, sampleResult(), Format("bogus")); err == nil {
		t.Error("expected error for unknown format")
	}
}
