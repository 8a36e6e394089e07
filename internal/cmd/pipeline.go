package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/icdtree/internal/catalog"
	"github.com/salmonumbrella/icdtree/internal/codelist"
	"github.com/salmonumbrella/icdtree/internal/config"
	"github.com/salmonumbrella/icdtree/internal/hierarchy"
	"github.com/salmonumbrella/icdtree/internal/render"
	"github.com/salmonumbrella/icdtree/internal/store"
)

// codeFlags select the code list and how it is turned into a forest.
type codeFlags struct {
	codesFile            string
	sample               bool
	normalize            bool
	synthesizeCategories bool
	source               sourceFlags
}

func (f *codeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.codesFile, "codes-file", "", "Code list, one code per line with optional <TAB>description (use - for stdin)")
	cmd.Flags().BoolVar(&f.sample, "sample", false, "Use the built-in sample code list")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "Rewrite codes to dotted form (A000 -> A00.0)")
	cmd.Flags().BoolVar(&f.synthesizeCategories, "synthesize-categories", false, "Look up missing category codes so they can be added as parents")
	f.source.register(cmd)
}

// loadCodes reads the code list. Without --codes-file the sample list is
// used, unless codes are piped on stdin. Piped stdin without any codes falls
// back to the sample list too.
func (f *codeFlags) loadCodes(ctx context.Context) (*codelist.List, string, error) {
	path := strings.TrimSpace(f.codesFile)
	if f.sample && path != "" {
		return nil, "", usageError{msg: "use only one of --sample or --codes-file"}
	}
	stdin := stdinFromContext(ctx)

	if path != "" {
		list, err := codelist.ReadFile(path, stdin)
		if err != nil {
			return nil, "", err
		}
		if path == "-" {
			path = "stdin"
		}
		return list, path, nil
	}

	if !f.sample {
		list, ok, err := pipedCodes(stdin)
		if err != nil {
			return nil, "", err
		}
		if ok {
			return list, "stdin", nil
		}
		logger.Debug("no codes on stdin, using the sample list")
	}
	return codelist.Sample(), "sample", nil
}

// forestResult is a built forest and how it was obtained.
type forestResult struct {
	Forest *hierarchy.Forest
	Input  string
	Codes  int
	Dups   int
	Source string
	Report catalog.Report
}

// buildForest loads codes, resolves their descriptions and assembles the
// forest.
func (f *codeFlags) buildForest(cmd *cobra.Command, cfg *config.Config, st *status) (*forestResult, error) {
	ctx := cmd.Context()

	list, origin, err := f.loadCodes(ctx)
	if err != nil {
		return nil, err
	}
	if f.normalize {
		list = list.Normalized()
	}

	settings, timeout, err := f.source.resolve(cmd, cfg)
	if err != nil {
		return nil, err
	}
	src, err := openSourceFunc(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", settings.Kind, err)
	}
	defer func() {
		if err := catalog.CloseSource(src); err != nil {
			logger.Warn("closing code source failed", "error", err)
		}
	}()

	st.step(fmt.Sprintf("Resolving %d codes via %s", len(list.Codes), settings.Kind))
	collector := &catalog.Collector{
		Source:               src,
		Timeout:              timeout,
		Logger:               logger,
		SynthesizeCategories: f.synthesizeCategories,
		Progress:             st.progress,
	}
	known, report, err := collector.Collect(ctx, list.Codes, list.Descriptions)
	st.done()
	if err != nil {
		return nil, err
	}

	var opts []hierarchy.Option
	if f.normalize {
		opts = append(opts, hierarchy.WithNormalizedCodes())
	}
	forest := hierarchy.Build(list.Codes, known, opts...)
	logger.Debug("forest built", "input", origin, "codes", len(list.Codes), "nodes", forest.Len(), "roots", len(forest.Roots()))

	return &forestResult{
		Forest: forest,
		Input:  origin,
		Codes:  len(list.Codes),
		Dups:   list.Duplicates,
		Source: settings.Kind,
		Report: report,
	}, nil
}

// writtenFile records one written document.
type writtenFile struct {
	Format   string `json:"format" yaml:"format"`
	Location string `json:"location" yaml:"location"`
	Bytes    int    `json:"bytes" yaml:"bytes"`
}

// writeDocuments renders f in every format and hands the bytes to sink.
func writeDocuments(ctx context.Context, sink store.Sink, formats []render.Format, f *hierarchy.Forest) ([]writtenFile, error) {
	files := make([]writtenFile, 0, len(formats))
	for _, format := range formats {
		var buf bytes.Buffer
		if err := render.Write(&buf, format, f); err != nil {
			return files, fmt.Errorf("render %s: %w", format, err)
		}
		name := format.FileName()
		if err := sink.Put(ctx, name, format.ContentType(), buf.Bytes()); err != nil {
			return files, err
		}
		files = append(files, writtenFile{Format: string(format), Location: sink.Location(name), Bytes: buf.Len()})
	}
	return files, nil
}

// documentFlags select the written formats and their destination.
type documentFlags struct {
	format    string
	outputDir string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "Document formats (json|xml|yaml|both|all, comma-separated; default both)")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "d", "", "Output directory or s3://bucket/prefix (default .)")
}

func (f *documentFlags) resolve(cmd *cobra.Command, cfg *config.Config) ([]render.Format, string, error) {
	formats, err := render.ParseFormats(setting(cmd, "format", f.format, "format", cfg.Format, "both"))
	if err != nil {
		return nil, "", usageError{msg: err.Error()}
	}
	dest := setting(cmd, "output-dir", f.outputDir, "output_dir", cfg.OutputDir, ".")
	return formats, dest, nil
}

// emitDocuments writes the forest and reports the result.
func emitDocuments(cmd *cobra.Command, docs *documentFlags, cfg *config.Config, st *status, sum *summary, f *hierarchy.Forest) error {
	ctx := cmd.Context()
	formats, dest, err := docs.resolve(cmd, cfg)
	if err != nil {
		return err
	}
	sink, err := openSink(dest, cfg)
	if err != nil {
		return err
	}

	files, err := writeDocuments(ctx, sink, formats, f)
	sum.Files = files
	if err != nil {
		return err
	}
	sum.Stats = f.Stats()

	if structuredOutputRequested() {
		return printStructured(sum)
	}
	out := stdoutFromContext(ctx)
	for _, file := range files {
		fmt.Fprintf(out, "Wrote %s (%d bytes)\n", file.Location, file.Bytes)
	}
	st.summary(sum)
	return nil
}
