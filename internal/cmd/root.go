package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/icdtree/internal/config"
	"github.com/salmonumbrella/icdtree/internal/logging"
	"github.com/salmonumbrella/icdtree/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionTemplate())
}

// Global flags
var (
	outputFmt  string
	outputType output.Format
	debugFlag  bool
	configFile string
	queryExpr  string
	queryFile  string
	errorFmt   string
	quietFlag  bool
)

// logger is configured per invocation in PersistentPreRunE.
var logger = logging.Discard()

// activeConfig is the config loaded for the running command.
var activeConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "icdtree",
	Short: "Rebuild the ICD-10-CM code hierarchy from flat code lists",
	Long: `icdtree reconstructs the ICD-10-CM category tree from a flat list of codes
and writes it as JSON and XML documents.

Descriptions come from a code data source: the NLM Clinical Tables API
(default), a tab-separated file, a PostgreSQL table, or none.

Environment Variables:
  ICDTREE_SOURCE          Code data source (nlm|tsv|postgres|none)
  ICDTREE_LOOKUP_TIMEOUT  Per-lookup timeout (e.g. 10s)
  ICDTREE_POSTGRES_DSN    PostgreSQL connection string
  ICDTREE_LOG_LEVEL       Log level (debug|info|warn|error)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Errors raised before the full context is ready still go to the
		// command's writers. Subcommands keep the context of an earlier
		// Execute, so start from the root's.
		ioCtx := withIO(cmd.Root().Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		cmd.SetContext(ioCtx)
		cmd.Root().SetContext(ioCtx)

		loadEnvFunc()

		activeConfig = &config.Config{}
		if !isConfigCommand(cmd) {
			cfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			activeConfig = cfg
		}

		// Output format selection: --output > config > default
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && strings.TrimSpace(activeConfig.OutputFormat) != "" {
			formatStr = strings.TrimSpace(activeConfig.OutputFormat)
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}

		// Default quiet mode for non-interactive structured output
		if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		ctx := output.WithFormat(ioCtx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)
		cmd.Root().SetContext(ctx)

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}

		logger = logging.New(cmd.ErrOrStderr(), debugFlag)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(rootCmd.Context(), err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate())

	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter structured output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress progress and summary output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/icdtree/config.yaml)")
}

func versionTemplate() string {
	return fmt.Sprintf("icdtree version %s (commit: %s, built: %s)\n", version, commit, date)
}

func isConfigCommand(cmd *cobra.Command) bool {
	return cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
