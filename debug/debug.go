// Package debug renders a genotree.Infer result as a colorized or
// YAML text dump for development-time inspection, adapted from the
// teacher's cmd/gedcom/internal/color.go (color toggling) and
// output.go (format dispatch). This is terminal-facing diagnostic
// text, not the on-disk tree-sequence serialization spec's Non-goals
// exclude.
package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	nodeColor     = color.New(color.FgCyan, color.Bold)
	edgesetColor  = color.New(color.FgGreen)
	mutationColor = color.New(color.FgYellow)
	headingColor  = color.New(color.FgBlue, color.Bold)
)

// InitColor toggles color output, honoring NO_COLOR the way the
// teacher's InitColor does.
func InitColor(enable bool) {
	if noColor, _ := strconv.ParseBool(os.Getenv("NO_COLOR")); noColor {
		color.NoColor = true
		return
	}
	color.NoColor = !enable
}

// Format selects the Dump rendering.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Result is the subset of genotree's output dumps debug.Dump renders;
// callers pass their genotree.Nodes/Edgesets/Mutations values
// converted to this shape to avoid debug importing the root package.
type Result struct {
	NumAncestors int           `yaml:"num_ancestors"`
	Flags        []int         `yaml:"flags"`
	Time         []float64     `yaml:"time"`
	Edges        []EdgeSummary `yaml:"edges"`
	Mutations    []MutSummary  `yaml:"mutations"`
}

// EdgeSummary is one edgeset, already unflattened for readability.
type EdgeSummary struct {
	Left     float64 `yaml:"left"`
	Right    float64 `yaml:"right"`
	Parent   int     `yaml:"parent"`
	Children []int   `yaml:"children"`
}

// MutSummary is one mutation.
type MutSummary struct {
	Site    int `yaml:"site"`
	Node    int `yaml:"node"`
	Derived int `yaml:"derived_state"`
}

// Dump writes r to w in the requested format.
func Dump(w io.Writer, r Result, format Format) error {
	switch format {
	case FormatYAML:
		return dumpYAML(w, r)
	case FormatText, "":
		dumpText(w, r)
		return nil
	default:
		return fmt.Errorf("debug: unknown format %q", format)
	}
}

func dumpYAML(w io.Writer, r Result) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("debug: marshal yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func dumpText(w io.Writer, r Result) {
	headingColor.Fprintf(w, "nodes (%d)\n", len(r.Flags))
	for i := range r.Flags {
		kind := "ancestor"
		if r.Flags[i] == 1 {
			kind = "sample"
		}
		nodeColor.Fprintf(w, "  %d\t%s\ttime=%v\n", i, kind, r.Time[i])
	}

	headingColor.Fprintf(w, "edgesets (%d)\n", len(r.Edges))
	for _, e := range r.Edges {
		edgesetColor.Fprintf(w, "  [%v,%v) parent=%d children=%v\n", e.Left, e.Right, e.Parent, e.Children)
	}

	headingColor.Fprintf(w, "mutations (%d)\n", len(r.Mutations))
	for _, m := range r.Mutations {
		mutationColor.Fprintf(w, "  site=%d node=%d -> %d\n", m.Site, m.Node, m.Derived)
	}
}
