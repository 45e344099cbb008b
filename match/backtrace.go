package match

import "github.com/lesfleursdelanuitdev/genotree/site"

// Interval is one run of the piecewise-constant parent sequence
// produced by walking a Traceback backward.
type Interval struct {
	Left   site.ID
	Right  site.ID
	Parent int
}

// ExtractPath implements spec §4.4's "Traceback extraction": starting
// at endSite-1 with endSiteParent, walk backward to startSite. At
// each site, if a traceback segment contains the current parent, jump
// to its recorded ancestor; otherwise retain the current parent. The
// result is returned oldest-site-first (Left increasing), coalescing
// consecutive sites that share a parent into one Interval, which is
// exactly the input spec §4.6 step 1 needs for edgeset emission.
func ExtractPath(tb *Traceback, startSite, endSite site.ID, endSiteParent int) []Interval {
	if endSite <= startSite {
		return nil
	}
	parent := make([]int, int(endSite-startSite))
	current := endSiteParent
	for x := int(endSite) - 1; x >= int(startSite); x-- {
		parent[x-int(startSite)] = current
		if next, ok := tb.At(x, current); ok {
			current = next
		}
	}

	var out []Interval
	runStart := startSite
	for i := 1; i <= len(parent); i++ {
		atEnd := i == len(parent)
		changed := !atEnd && parent[i] != parent[i-1]
		if atEnd || changed {
			out = append(out, Interval{
				Left:   runStart,
				Right:  startSite + site.ID(i),
				Parent: parent[i-1],
			})
			if !atEnd {
				runStart = startSite + site.ID(i)
			}
		}
	}
	return out
}
