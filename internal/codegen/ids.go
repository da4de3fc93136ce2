package codegen

import "strconv"

// IDs hands out collision-free symbol names.
//
// The first request for a prefix returns the prefix itself; later requests
// return prefix_1, prefix_2 and so on. Counters are independent per prefix.
type IDs struct {
	counters map[string]int
}

// NewIDs creates an identifier generator with no allocated names.
func NewIDs() *IDs {
	return &IDs{counters: make(map[string]int)}
}

// Next returns the next unused name for prefix.
func (g *IDs) Next(prefix string) string {
	n, ok := g.counters[prefix]
	if !ok {
		g.counters[prefix] = 0
		return prefix
	}
	n++
	g.counters[prefix] = n
	return prefix + "_" + strconv.Itoa(n)
}
