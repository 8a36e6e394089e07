package cmd

import (
	"github.com/spf13/cobra"
)

var buildFlags struct {
	codes codeFlags
	docs  documentFlags
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the hierarchy from a code list and write documents",
	Long: `Build the ICD-10-CM hierarchy from a flat code list and write it as
icd10cm_hierarchy.json and icd10cm_hierarchy.xml.

Parents are inferred from code shape: A00.0 belongs under A00, M25.511 under
M25.51 or M25.5 when those codes are listed. Descriptions come from the code
data source; codes without one get the placeholder "ICD-10-CM Code <code>".

Examples:
  icdtree build --sample
  icdtree build --codes-file codes.txt --source tsv --tsv-file names.tsv
  icdtree build --codes-file - --format all -d out/ < codes.txt
  icdtree build --codes-file codes.txt -d s3://exports/icd10cm --source none`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildFlags.codes.register(buildCmd)
	buildFlags.docs.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	st := newStatus(cmd.Context())

	res, err := buildFlags.codes.buildForest(cmd, activeConfig, st)
	if err != nil {
		return err
	}

	sum := &summary{
		Input:      res.Input,
		Codes:      res.Codes,
		Duplicates: res.Dups,
		Source:     res.Source,
		Lookups:    &res.Report,
	}
	return emitDocuments(cmd, &buildFlags.docs, activeConfig, st, sum, res.Forest)
}
