package hierarchy

// Stats summarizes a forest.
type Stats struct {
	Nodes        int         `json:"nodes" yaml:"nodes"`
	Roots        int         `json:"roots" yaml:"roots"`
	Synthesized  int         `json:"synthesized" yaml:"synthesized"`
	Placeholders int         `json:"placeholders" yaml:"placeholders"`
	MaxDepth     int         `json:"max_depth" yaml:"max_depth"`
	ByLevel      map[int]int `json:"by_level" yaml:"by_level"`
}

// Stats counts nodes, roots and levels. MaxDepth is 1 for a forest of roots.
func (f *Forest) Stats() Stats {
	s := Stats{Roots: len(f.Roots()), ByLevel: make(map[int]int)}
	f.Walk(func(id NodeID, depth int) bool {
		n := f.nodes[id]
		s.Nodes++
		s.ByLevel[n.Level]++
		if n.Synthesized {
			s.Synthesized++
		}
		if n.Placeholder {
			s.Placeholders++
		}
		if depth+1 > s.MaxDepth {
			s.MaxDepth = depth + 1
		}
		return true
	})
	return s
}
