package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/salmonumbrella/icdtree/internal/catalog"
	"github.com/salmonumbrella/icdtree/internal/hierarchy"
	"github.com/salmonumbrella/icdtree/internal/output"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// summary is the result of a build or convert run.
type summary struct {
	Input      string          `json:"input" yaml:"input"`
	Codes      int             `json:"codes" yaml:"codes"`
	Duplicates int             `json:"duplicates" yaml:"duplicates"`
	Source     string          `json:"source,omitempty" yaml:"source,omitempty"`
	Lookups    *catalog.Report `json:"lookups,omitempty" yaml:"lookups,omitempty"`
	Stats      hierarchy.Stats `json:"stats" yaml:"stats"`
	Files      []writtenFile   `json:"files" yaml:"files"`
}

// status writes styled progress lines to stderr for interactive runs.
type status struct {
	w       io.Writer
	enabled bool
}

func newStatus(ctx context.Context) *status {
	w := stderrFromContext(ctx)
	return &status{w: w, enabled: !output.QuietFromContext(ctx) && isTerminal(w)}
}

func (s *status) step(msg string) {
	if !s.enabled {
		return
	}
	fmt.Fprintf(s.w, "%s %s\n", dimStyle.Render("=>"), msg)
}

func (s *status) progress(done, total int) {
	if !s.enabled || total == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s %d/%d", dimStyle.Render("   lookups"), done, total)
}

func (s *status) done() {
	if s.enabled {
		fmt.Fprintln(s.w)
	}
}

func (s *status) summary(sum *summary) {
	if !s.enabled {
		return
	}
	fmt.Fprintln(s.w, renderSummary(sum))
}

// renderSummary draws the boxed build summary.
func renderSummary(sum *summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ICD-10-CM hierarchy"))
	fmt.Fprintf(&b, "\n%s %s  %s %d  %s %d",
		dimStyle.Render("Input:"), sum.Input,
		dimStyle.Render("Codes:"), sum.Codes,
		dimStyle.Render("Duplicates:"), sum.Duplicates,
	)
	fmt.Fprintf(&b, "\n%s %d  %s %d  %s %d  %s %d",
		dimStyle.Render("Nodes:"), sum.Stats.Nodes,
		dimStyle.Render("Roots:"), sum.Stats.Roots,
		dimStyle.Render("Synthesized:"), sum.Stats.Synthesized,
		dimStyle.Render("Depth:"), sum.Stats.MaxDepth,
	)
	if len(sum.Stats.ByLevel) > 0 {
		levels := make([]int, 0, len(sum.Stats.ByLevel))
		for level := range sum.Stats.ByLevel {
			levels = append(levels, level)
		}
		sort.Ints(levels)
		parts := make([]string, 0, len(levels))
		for _, level := range levels {
			parts = append(parts, fmt.Sprintf("L%d=%d", level, sum.Stats.ByLevel[level]))
		}
		fmt.Fprintf(&b, "\n%s %s", dimStyle.Render("Levels:"), strings.Join(parts, " "))
	}
	if r := sum.Lookups; r != nil {
		failed := fmt.Sprintf("%d failed", r.Failed)
		if r.Failed > 0 {
			failed = warnStyle.Render(failed)
		}
		fmt.Fprintf(&b, "\n%s %s  %d found  %d not found  %s  %d inline",
			dimStyle.Render("Source:"), sum.Source, r.Found, r.NotFound, failed, r.Inline)
	}
	for _, f := range sum.Files {
		fmt.Fprintf(&b, "\n%s %s", successStyle.Render("OK"), f.Location)
	}
	return boxStyle.Render(b.String())
}
