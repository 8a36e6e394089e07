package hierarchy

import (
	"fmt"
	"sort"
)

// Catalog maps a code to its description. It may know codes that are not in
// the input list; those can be synthesized as ancestors. An empty description
// means the code is known but undescribed.
type Catalog map[string]string

// Placeholder is the name given to codes without a description.
func Placeholder(code string) string {
	return fmt.Sprintf("ICD-10-CM Code %s", code)
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	normalize bool
}

// WithNormalizedCodes rewrites input codes and catalog keys to their dotted
// form before building, so A000 and A00.0 name the same node.
func WithNormalizedCodes() Option {
	return func(o *buildOptions) {
		o.normalize = true
	}
}

// plannedNode is the pass-one record for a code: everything needed to place
// it, computed from string rules alone.
type plannedNode struct {
	code        string
	level       int
	parent      string
	synthesized bool
}

// Build assembles a forest from an ordered list of codes.
//
// Pass one resolves every input code's parent against the full input set and
// synthesizes ancestors that the catalog knows but the input lacks. Pass two
// creates the nodes in (dot-free length, lexicographic) order and links every
// edge, so an ancestor listed after its descendant still ends up as its
// parent. Duplicate codes keep their first occurrence.
func Build(codes []string, known Catalog, opts ...Option) *Forest {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.normalize {
		codes, known = normalizeInput(codes, known)
	}

	input := dedupe(codes)
	available := NewCodeSet(input)

	planned := make(map[string]*plannedNode, len(input))
	for _, code := range input {
		planned[code] = &plannedNode{code: code, level: Level(code)}
	}
	for _, code := range input {
		linkAncestors(code, available, known, planned)
	}

	order := make([]string, 0, len(planned))
	for code := range planned {
		order = append(order, code)
	}
	SortCodes(order)

	asm := NewAssembler()
	for _, code := range order {
		p := planned[code]
		name, described := known[code]
		node := Node{
			Code:        code,
			Name:        name,
			Level:       p.level,
			Synthesized: p.synthesized,
		}
		if !described || name == "" {
			node.Name = Placeholder(code)
			node.Placeholder = true
		}
		asm.Add(node)
	}

	for _, code := range order {
		id, _ := asm.Lookup(code)
		parent := planned[code].parent
		if parent == "" {
			asm.AddRoot(id)
			continue
		}
		parentID, _ := asm.Lookup(parent)
		asm.Attach(parentID, id)
	}

	return asm.Forest()
}

// linkAncestors records code's parent, synthesizing catalog-only ancestors
// until it reaches a planned code, a category, or an unknown code.
func linkAncestors(code string, available CodeSet, known Catalog, planned map[string]*plannedNode) {
	current := planned[code]
	for {
		parent, ok := ResolveParent(current.code, available)
		if !ok {
			return
		}
		if _, exists := planned[parent]; exists {
			current.parent = parent
			return
		}
		if _, inCatalog := known[parent]; !inCatalog {
			return
		}
		synthetic := &plannedNode{code: parent, level: Level(parent), synthesized: true}
		planned[parent] = synthetic
		current.parent = parent
		current = synthetic
	}
}

// SortCodes orders codes by dot-free length, then lexicographically.
func SortCodes(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool {
		li, lj := cleanLength(codes[i]), cleanLength(codes[j])
		if li != lj {
			return li < lj
		}
		return codes[i] < codes[j]
	})
}

func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func normalizeInput(codes []string, known Catalog) ([]string, Catalog) {
	normalized := make([]string, len(codes))
	for i, code := range codes {
		normalized[i] = Normalize(code)
	}
	keys := make([]string, 0, len(known))
	for code := range known {
		keys = append(keys, code)
	}
	sort.Strings(keys)

	catalog := make(Catalog, len(known))
	for _, code := range keys {
		key := Normalize(code)
		// Two spellings of one code: keep a description over an empty one.
		if existing, ok := catalog[key]; ok && existing != "" {
			continue
		}
		catalog[key] = known[code]
	}
	return normalized, catalog
}
