package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/icdtree/internal/catalog"
	"github.com/salmonumbrella/icdtree/internal/output"
)

var lookupFlags struct {
	source sourceFlags
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <code>...",
	Short: "Look up code descriptions in the configured data source",
	Long: `Query the code data source for each code and print what it returns.
Only an exact code match counts as found. The command fails when any lookup
fails outright; "not found" is not a failure.

Examples:
  icdtree lookup A00 A00.0
  icdtree lookup M25.511 --source tsv --tsv-file names.tsv -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupFlags.source.register(lookupCmd)
	rootCmd.AddCommand(lookupCmd)
}

// lookupRow is one printed lookup result.
type lookupRow struct {
	Code    string `json:"code" yaml:"code"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Outcome string `json:"outcome" yaml:"outcome"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, timeout, err := lookupFlags.source.resolve(cmd, activeConfig)
	if err != nil {
		return err
	}
	src, err := openSourceFunc(ctx, settings)
	if err != nil {
		return fmt.Errorf("open %s source: %w", settings.Kind, err)
	}
	defer func() { _ = catalog.CloseSource(src) }()

	rows := make([]lookupRow, 0, len(args))
	var firstErr error
	failed := 0
	for _, code := range args {
		res := catalog.Describe(ctx, src, code, timeout)
		row := lookupRow{Code: res.Code, Name: res.Entry.Name, Outcome: res.Outcome.String()}
		if res.Outcome == catalog.Failed {
			failed++
			row.Error = res.Err.Error()
			if firstErr == nil {
				firstErr = res.Err
			}
		}
		rows = append(rows, row)
	}

	if err := printLookupRows(cmd, rows); err != nil {
		return err
	}
	if firstErr != nil {
		return fmt.Errorf("%d of %d lookups failed: %w", failed, len(args), firstErr)
	}
	return nil
}

func printLookupRows(cmd *cobra.Command, rows []lookupRow) error {
	if GetOutputFormat() != output.FormatText {
		return printStructured(rows)
	}

	t := output.Table{Headers: []string{"CODE", "OUTCOME", "NAME"}}
	for _, row := range rows {
		name := row.Name
		if row.Error != "" {
			name = row.Error
		}
		t.Rows = append(t.Rows, []string{row.Code, row.Outcome, name})
	}
	printer := output.NewPrinter(stdoutFromContext(cmd.Context()), output.FormatTable)
	return printer.Print(cmd.Context(), t)
}
