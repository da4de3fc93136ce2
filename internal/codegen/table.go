package codegen

import (
	"slices"
	"sort"
)

// DefaultPriority is the priority used by AddDefault.
const DefaultPriority = 1000

// Fragment is a unit of generated code registered at an insertion point.
// Lower priorities are emitted first.
type Fragment struct {
	Text     string
	Priority int
}

// Table maps insertion point names to their fragments.
//
// Fragments of a point are kept sorted by ascending priority. Fragments with
// equal priority keep the order in which they were added, so generated output
// depends only on priorities and insertion order. Ties are not broken by
// text, so fragments sharing a priority appear in generator order.
type Table struct {
	points map[string][]Fragment
	seen   map[string]map[Fragment]struct{}
}

// NewTable creates an empty insertion table.
func NewTable() *Table {
	return &Table{
		points: make(map[string][]Fragment),
		seen:   make(map[string]map[Fragment]struct{}),
	}
}

// Add registers text at point with the given priority.
// Adding an identical (priority, text) pair twice is a no-op.
func (t *Table) Add(point, text string, priority int) {
	frag := Fragment{Text: text, Priority: priority}

	seen, ok := t.seen[point]
	if !ok {
		seen = make(map[Fragment]struct{})
		t.seen[point] = seen
	}
	if _, dup := seen[frag]; dup {
		return
	}
	seen[frag] = struct{}{}

	frags := t.points[point]
	// Upper bound: insert after every fragment with priority <= frag.Priority.
	idx := sort.Search(len(frags), func(i int) bool {
		return frags[i].Priority > priority
	})
	t.points[point] = slices.Insert(frags, idx, frag)
}

// AddDefault registers text at point with DefaultPriority.
func (t *Table) AddDefault(point, text string) {
	t.Add(point, text, DefaultPriority)
}

// Get returns the fragments registered at point in emission order.
// The second result is false if nothing was ever added to point.
// The returned slice is a copy.
func (t *Table) Get(point string) ([]Fragment, bool) {
	frags, ok := t.points[point]
	if !ok {
		return nil, false
	}
	return slices.Clone(frags), true
}

// Points returns the names of all populated insertion points, sorted.
func (t *Table) Points() []string {
	names := make([]string, 0, len(t.points))
	for name := range t.points {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of fragments across all points.
func (t *Table) Len() int {
	n := 0
	for _, frags := range t.points {
		n += len(frags)
	}
	return n
}
