// Package report narrates long-running phases of the pipeline
// (Ancestor Builder frequency classes, per-epoch match/resolve
// cycles). It is adapted from the teacher's
// cmd/gedcom/internal/progress.go ProgressBar wrapper: nil-safe, and
// a no-op when created with enabled=false.
package report

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar wraps github.com/schollz/progressbar/v3, becoming a no-op when
// disabled so callers never need a nil check.
type Bar struct {
	bar *progressbar.ProgressBar
}

// New creates a Bar with the given total and description. Pass
// enabled=false (e.g. from config.Config.Quiet) to get a no-op bar.
func New(total int64, description string, enabled bool, w io.Writer) *Bar {
	if !enabled {
		return &Bar{}
	}
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100),
		progressbar.OptionSetWidth(10),
		progressbar.OptionOnCompletion(func() {
			io.WriteString(w, "\n")
		}),
	)
	return &Bar{bar: bar}
}

// Add advances the bar by n steps.
func (b *Bar) Add(n int) {
	if b.bar != nil {
		b.bar.Add(n)
	}
}

// Finish completes the bar.
func (b *Bar) Finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}
