package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/icdtree/internal/tabular"
)

var convertFlags struct {
	docs documentFlags
}

var convertCmd = &cobra.Command{
	Use:   "convert <tabular.xml>",
	Short: "Convert the ICD-10-CM tabular XML into hierarchy documents",
	Long: `Convert the CMS ICD-10-CM tabular XML, where codes are already nested, into
the same JSON and XML documents that build writes. Parents come from the
document's nesting, not from code shape.

Examples:
  icdtree convert icd10cm-tabular-2026.xml
  icdtree convert icd10cm-tabular-2026.xml --format json -d out/`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertFlags.docs.register(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	st := newStatus(cmd.Context())
	st.step("Reading " + args[0])

	forest, read, err := tabular.ReadFile(args[0])
	if err != nil {
		return err
	}
	logger.Debug("tabular document read", "sections", read.Sections, "codes", read.Codes, "duplicates", read.Duplicates, "skipped", read.Skipped)

	sum := &summary{
		Input:      args[0],
		Codes:      read.Codes + read.Duplicates,
		Duplicates: read.Duplicates,
	}
	return emitDocuments(cmd, &convertFlags.docs, activeConfig, st, sum, forest)
}
