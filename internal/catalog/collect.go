package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// Report counts lookup outcomes.
type Report struct {
	Lookups    int `json:"lookups" yaml:"lookups"`
	Found      int `json:"found" yaml:"found"`
	NotFound   int `json:"not_found" yaml:"not_found"`
	Failed     int `json:"failed" yaml:"failed"`
	Inline     int `json:"inline" yaml:"inline"`
	Categories int `json:"categories" yaml:"categories"`
}

// Collector resolves descriptions for a code list, one lookup at a time.
type Collector struct {
	Source  Source
	Timeout time.Duration
	Logger  *slog.Logger
	// SynthesizeCategories also looks up the category a code falls back to
	// when that category is not in the input, so the builder can create it.
	SynthesizeCategories bool
	// Progress, when set, is called after every lookup.
	Progress func(done, total int)
}

// Collect returns a catalog for codes. Descriptions already present in
// inline are used without a lookup. Every input code is present in the
// result; codes without data map to an empty description. The returned
// error is only ever the context's.
func (c *Collector) Collect(ctx context.Context, codes []string, inline hierarchy.Catalog) (hierarchy.Catalog, Report, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var report Report
	known := make(hierarchy.Catalog, len(codes))
	unique := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, seen := known[code]; seen {
			continue
		}
		known[code] = ""
		unique = append(unique, code)
	}

	var pending []string
	for _, code := range unique {
		if name := inline[code]; name != "" {
			known[code] = name
			report.Inline++
			continue
		}
		pending = append(pending, code)
	}

	var categories []string
	if c.SynthesizeCategories {
		available := hierarchy.NewCodeSet(unique)
		queued := make(map[string]bool)
		for _, code := range unique {
			parent, ok := hierarchy.ResolveParent(code, available)
			if !ok || available.Has(parent) || queued[parent] {
				continue
			}
			queued[parent] = true
			categories = append(categories, parent)
		}
	}

	total := len(pending) + len(categories)
	done := 0
	lookup := func(code string) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		result := Describe(ctx, c.Source, code, c.Timeout)
		report.Lookups++
		switch result.Outcome {
		case Found:
			report.Found++
		case NotFound:
			report.NotFound++
			logger.Debug("no description for code", "code", code)
		case Failed:
			report.Failed++
			logger.Warn("code lookup failed; using placeholder", "code", code, "error", result.Err)
		}
		done++
		if c.Progress != nil {
			c.Progress(done, total)
		}
		return result, nil
	}

	for _, code := range pending {
		result, err := lookup(code)
		if err != nil {
			return known, report, err
		}
		if result.Outcome == Found {
			known[code] = result.Entry.Name
		}
	}

	for _, code := range categories {
		result, err := lookup(code)
		if err != nil {
			return known, report, err
		}
		if result.Outcome == Found {
			known[code] = result.Entry.Name
			report.Categories++
		}
	}

	return known, report, nil
}
