package hierarchy

// NodeID addresses a node inside a Forest.
type NodeID int

// NoNode is the parent of a root.
const NoNode NodeID = -1

// Node is one code in the forest.
type Node struct {
	Code  string
	Name  string
	Level int
	// Synthesized is set for ancestors created on behalf of another code
	// rather than taken from the input list.
	Synthesized bool
	// Placeholder is set when Name is the generated placeholder text.
	Placeholder bool

	parent   NodeID
	children []NodeID
}

// Forest is an arena of nodes plus the ordered list of roots.
// A Forest is read-only once returned by a builder.
type Forest struct {
	nodes []Node
	index map[string]NodeID
	roots []NodeID
}

// Edge is a parent/child code pair.
type Edge struct {
	Parent string
	Child  string
}

// Len returns the number of nodes.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

// Roots returns the root IDs in order.
func (f *Forest) Roots() []NodeID {
	if f == nil {
		return nil
	}
	return append([]NodeID(nil), f.roots...)
}

// Node returns a copy of the node's attributes.
func (f *Forest) Node(id NodeID) Node {
	n := f.nodes[id]
	n.children = nil
	return n
}

// Children returns the child IDs of id in attach order.
func (f *Forest) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), f.nodes[id].children...)
}

// Parent returns the parent of id, or NoNode and false for a root.
func (f *Forest) Parent(id NodeID) (NodeID, bool) {
	p := f.nodes[id].parent
	return p, p != NoNode
}

// Lookup finds the node for a code.
func (f *Forest) Lookup(code string) (NodeID, bool) {
	if f == nil {
		return NoNode, false
	}
	id, ok := f.index[code]
	return id, ok
}

// Walk visits every node in pre-order, roots first, children in attach order.
// Returning false from fn skips the node's subtree.
func (f *Forest) Walk(fn func(id NodeID, depth int) bool) {
	if f == nil {
		return
	}
	for _, root := range f.roots {
		f.walk(root, 0, fn)
	}
}

func (f *Forest) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, child := range f.nodes[id].children {
		f.walk(child, depth+1, fn)
	}
}

// Edges returns every parent/child pair in pre-order.
func (f *Forest) Edges() []Edge {
	var edges []Edge
	f.Walk(func(id NodeID, _ int) bool {
		for _, child := range f.nodes[id].children {
			edges = append(edges, Edge{Parent: f.nodes[id].Code, Child: f.nodes[child].Code})
		}
		return true
	})
	return edges
}

// Codes returns every code in pre-order.
func (f *Forest) Codes() []string {
	codes := make([]string, 0, f.Len())
	f.Walk(func(id NodeID, _ int) bool {
		codes = append(codes, f.nodes[id].Code)
		return true
	})
	return codes
}

// Assembler builds a Forest node by node. It is used by the code builder and
// by readers whose source already carries the nesting.
type Assembler struct {
	forest *Forest
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{forest: &Forest{index: make(map[string]NodeID)}}
}

// Add creates a detached node. The first node added for a code is the one
// Lookup returns.
func (a *Assembler) Add(n Node) NodeID {
	id := NodeID(len(a.forest.nodes))
	n.parent = NoNode
	n.children = nil
	a.forest.nodes = append(a.forest.nodes, n)
	if _, exists := a.forest.index[n.Code]; !exists {
		a.forest.index[n.Code] = id
	}
	return id
}

// Lookup finds an already added node by code.
func (a *Assembler) Lookup(code string) (NodeID, bool) {
	id, ok := a.forest.index[code]
	return id, ok
}

// Attach makes child the last child of parent.
func (a *Assembler) Attach(parent, child NodeID) {
	a.forest.nodes[child].parent = parent
	a.forest.nodes[parent].children = append(a.forest.nodes[parent].children, child)
}

// AddRoot appends id to the root list.
func (a *Assembler) AddRoot(id NodeID) {
	a.forest.roots = append(a.forest.roots, id)
}

// Forest returns the assembled forest. The Assembler must not be used after.
func (a *Assembler) Forest() *Forest {
	f := a.forest
	a.forest = nil
	return f
}
