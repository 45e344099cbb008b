package ancestor

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lesfleursdelanuitdev/genotree/report"
	"github.com/lesfleursdelanuitdev/genotree/site"
)

// Builder synthesizes ancestral haplotypes from a sample panel
// (spec §4.1). It groups sites into frequency classes, collapses
// perfectly-linked focal sites into single ancestors (Focal
// Grouping), and emits ancestors oldest-first.
type Builder struct {
	panel        *site.Panel
	ShowProgress bool
}

// NewBuilder creates a Builder over panel. Validate panel before
// calling Build; Build assumes a validated panel.
func NewBuilder(panel *site.Panel) *Builder {
	return &Builder{panel: panel}
}

// focalGroup is one set of perfectly-linked focal sites awaiting
// ancestor synthesis.
type focalGroup struct {
	sites    []site.ID
	carriers []int
}

// Build runs the full Ancestor Builder pipeline and returns ancestors
// in emission order: ancestor 0 (the universal ancestor) followed by
// synthesized ancestors oldest-first, one per focal group.
func (b *Builder) Build() []*Ancestor {
	freq := b.panel.Frequencies()
	classes := b.frequencyClasses(freq)

	ancestors := []*Ancestor{Universal(b.panel.NumSites)}

	bar := report.New(int64(len(classes)), "building ancestors", b.ShowProgress, os.Stderr)
	defer bar.Finish()

	nextID := 1
	for _, class := range classes {
		groups := b.groupByLinkage(class.sites)
		sort.Slice(groups, func(i, j int) bool {
			return groups[i].sites[0] < groups[j].sites[0]
		})
		for _, g := range groups {
			a := b.makeAncestor(nextID, class.age, g)
			ancestors = append(ancestors, a)
			nextID++
		}
		bar.Add(1)
	}
	return ancestors
}

type frequencyClass struct {
	frequency int
	age       int
	sites     []site.ID
}

// frequencyClasses groups sites by identical derived-allele frequency,
// skips the empty (frequency zero) class, and assigns ages so that
// the highest frequency gets age 1 (oldest) and age increases as
// frequency decreases, per spec §4.1 "Ordering".
func (b *Builder) frequencyClasses(freq []int) []frequencyClass {
	bySites := make(map[int][]site.ID)
	for x, f := range freq {
		if f == 0 {
			continue // empty frequency class: skipped
		}
		bySites[f] = append(bySites[f], site.ID(x))
	}

	distinct := make([]int, 0, len(bySites))
	for f := range bySites {
		distinct = append(distinct, f)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(distinct)))

	classes := make([]frequencyClass, 0, len(distinct))
	for i, f := range distinct {
		sites := bySites[f]
		sort.Slice(sites, func(i, j int) bool { return sites[i] < sites[j] })
		classes = append(classes, frequencyClass{frequency: f, age: i + 1, sites: sites})
	}
	return classes
}

// groupByLinkage collapses sites whose carrier sample sets are
// identical into one focalGroup each (spec §4.1 "Focal grouping" and
// §9's Open Question, resolved here using the strictest rule: full
// carrier-set equality across the group, not just pairwise).
func (b *Builder) groupByLinkage(sites []site.ID) []*focalGroup {
	byKey := make(map[string]*focalGroup)
	order := make([]string, 0, len(sites))
	for _, x := range sites {
		carriers := b.panel.CarrierSet(x)
		key := carrierKey(carriers)
		g, ok := byKey[key]
		if !ok {
			g = &focalGroup{carriers: carriers}
			byKey[key] = g
			order = append(order, key)
		}
		g.sites = append(g.sites, x)
	}
	groups := make([]*focalGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, byKey[key])
	}
	return groups
}

func carrierKey(carriers []int) string {
	var sb strings.Builder
	for i, c := range carriers {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

// makeAncestor implements make_ancestor(focal_sites[], out_haplotype[])
// from spec §4.1: majority vote across the focal span, then leftward
// and rightward extension while a decisive consensus subset survives.
func (b *Builder) makeAncestor(id, age int, g *focalGroup) *Ancestor {
	minF, maxF := g.sites[0], g.sites[0]
	for _, x := range g.sites {
		if x < minF {
			minF = x
		}
		if x > maxF {
			maxF = x
		}
	}

	start, end := minF, maxF+1
	state := make(map[site.ID]site.Allele, int(end-start))

	for x := minF; x < end; x++ {
		state[x] = majority(b.panel, g.carriers, x)
	}

	// Leftward extension: shrink the live subset to samples that
	// agree with the running consensus; stop when no sample agrees.
	live := append([]int(nil), g.carriers...)
	for x := minF - 1; x >= 0; x-- {
		v, newLive := extend(b.panel, live, x)
		if len(newLive) == 0 {
			break
		}
		state[x] = v
		start = x
		live = newLive
	}

	// Rightward extension, starting fresh from the focal carrier set.
	live = append([]int(nil), g.carriers...)
	for x := maxF + 1; x < site.ID(b.panel.NumSites); x++ {
		v, newLive := extend(b.panel, live, x)
		if len(newLive) == 0 {
			break
		}
		state[x] = v
		end = x + 1
		live = newLive
	}

	hap := make([]site.Allele, int(end-start))
	for x := start; x < end; x++ {
		hap[int(x-start)] = state[x]
	}

	focal := append([]site.ID(nil), g.sites...)
	sort.Slice(focal, func(i, j int) bool { return focal[i] < focal[j] })

	return New(id, age, focal, start, end, hap)
}

// majority returns the majority allele among carriers at site x,
// ties broken toward 0 (spec §4.1 step 2).
func majority(p *site.Panel, carriers []int, x site.ID) site.Allele {
	ones := 0
	for _, s := range carriers {
		if p.At(s, x) == site.Derived {
			ones++
		}
	}
	if ones*2 > len(carriers) {
		return site.Derived
	}
	return site.Ancestral
}

// extend computes one step of consensus extension: the majority
// allele among the current live subset at x, then the subset of live
// that agrees with it (spec §4.1 step 3).
func extend(p *site.Panel, live []int, x site.ID) (site.Allele, []int) {
	v := majority(p, live, x)
	next := make([]int, 0, len(live))
	for _, s := range live {
		if p.At(s, x) == v {
			next = append(next, s)
		}
	}
	return v, next
}
