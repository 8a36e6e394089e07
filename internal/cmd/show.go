package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
	"github.com/salmonumbrella/icdtree/internal/output"
	"github.com/salmonumbrella/icdtree/internal/render"
)

var showFlags struct {
	codes    codeFlags
	document string
	depth    int
	stats    bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the hierarchy",
	Long: `Build the hierarchy and print it instead of writing documents. With
--document, an existing icd10cm_hierarchy.json or .xml is read instead.

Text output is an indented tree. Structured output (--output json|yaml)
prints the document shape and can be filtered with --query.

Examples:
  icdtree show --sample --source none --depth 1
  icdtree show --codes-file codes.txt -o json --query '.icd10cm.codes[].code'
  icdtree show --document icd10cm_hierarchy.xml --stats`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showFlags.codes.register(showCmd)
	showCmd.Flags().StringVar(&showFlags.document, "document", "", "Read a rendered .json or .xml document instead of building")
	showCmd.Flags().IntVar(&showFlags.depth, "depth", 0, "Limit text output to this many levels (0 = all)")
	showCmd.Flags().BoolVar(&showFlags.stats, "stats", false, "Print forest statistics instead of the tree")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	forest, err := showForest(cmd)
	if err != nil {
		return err
	}

	if showFlags.stats {
		return printStructured(forest.Stats())
	}

	switch GetOutputFormat() {
	case output.FormatJSON, output.FormatNDJSON, output.FormatYAML:
		return printStructured(render.NewDocument(forest))
	case output.FormatTable:
		return printStructured(forestTable(forest))
	default:
		return render.WriteText(stdoutFromContext(cmd.Context()), forest, showFlags.depth)
	}
}

func showForest(cmd *cobra.Command) (*hierarchy.Forest, error) {
	path := strings.TrimSpace(showFlags.document)
	if path == "" {
		res, err := showFlags.codes.buildForest(cmd, activeConfig, newStatus(cmd.Context()))
		if err != nil {
			return nil, err
		}
		return res.Forest, nil
	}

	if flagChanged(cmd, "codes-file") || flagChanged(cmd, "sample") {
		return nil, usageError{msg: "--document cannot be combined with --codes-file or --sample"}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer file.Close()
	return render.Read(file, path)
}

// forestTable flattens the forest in pre-order, one row per node.
func forestTable(f *hierarchy.Forest) output.Table {
	t := output.Table{Headers: []string{"code", "level", "parent", "name"}}
	f.Walk(func(id hierarchy.NodeID, depth int) bool {
		if showFlags.depth > 0 && depth >= showFlags.depth {
			return false
		}
		n := f.Node(id)
		parent := ""
		if pid, ok := f.Parent(id); ok {
			parent = f.Node(pid).Code
		}
		t.Rows = append(t.Rows, []string{n.Code, fmt.Sprint(n.Level), parent, n.Name})
		return true
	})
	return t
}
