package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// WriteText renders f as an indented bullet tree. maxDepth limits how many
// levels are printed; 0 prints everything.
func WriteText(w io.Writer, f *hierarchy.Forest, maxDepth int) error {
	var sb strings.Builder
	f.Walk(func(id hierarchy.NodeID, depth int) bool {
		if maxDepth > 0 && depth >= maxDepth {
			return false
		}
		n := f.Node(id)
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(n.Code)
		if n.Name != "" && !n.Placeholder {
			sb.WriteString("  ")
			sb.WriteString(n.Name)
		}
		if n.Synthesized {
			sb.WriteString(" (synthesized)")
		}
		sb.WriteString("\n")
		return true
	})
	_, err := fmt.Fprint(w, sb.String())
	return err
}
