package chimera

import "github.com/biogo/store/interval"

// Mask is an optional set of query coordinate ranges (e.g. primer sites
// trimmed before denoising) that the crossover scan should ignore when
// counting diffs. It wraps the same interval-tree containment structure
// kortschak/ins uses for BLAST hit culling.
type Mask struct {
	tree interval.IntTree
}

type maskRange struct {
	id         uintptr
	start, end int
}

func (r maskRange) Overlap(b interval.IntRange) bool {
	return b.Start < r.end && r.start < b.End
}
func (r maskRange) ID() uintptr                { return r.id }
func (r maskRange) Range() interval.IntRange   { return interval.IntRange{Start: r.start, End: r.end} }

// NewMask builds a Mask from a set of half-open [start,end) coordinate
// ranges, 0-based on the query.
func NewMask(ranges [][2]int) *Mask {
	m := &Mask{}
	for i, r := range ranges {
		_ = m.tree.Insert(maskRange{id: uintptr(i), start: r[0], end: r[1]}, true)
	}
	m.tree.AdjustRanges()
	return m
}

// contains reports whether pos (a 0-based query coordinate) falls inside
// any masked range.
func (m *Mask) contains(pos int) bool {
	if m == nil {
		return false
	}
	hits := m.tree.Get(maskRange{start: pos, end: pos + 1})
	return len(hits) > 0
}
