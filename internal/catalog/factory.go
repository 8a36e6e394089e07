package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Source kinds accepted by Open.
const (
	KindNLM      = "nlm"
	KindTSV      = "tsv"
	KindPostgres = "postgres"
	KindNone     = "none"
)

// Settings selects and configures a Source.
type Settings struct {
	Kind          string
	NLMBaseURL    string
	HTTPTimeout   time.Duration
	TSVPath       string
	PostgresDSN   string
	PostgresTable string
	// CacheSize wraps the source in an LRU cache. Zero disables caching.
	CacheSize int
}

// Kinds lists the supported source kinds.
func Kinds() []string {
	return []string{KindNLM, KindTSV, KindPostgres, KindNone}
}

// Open creates the Source described by s. Close it with CloseSource.
func Open(ctx context.Context, s Settings) (Source, error) {
	var src Source
	switch strings.ToLower(strings.TrimSpace(s.Kind)) {
	case KindNLM, "":
		src = NewNLMClient(WithBaseURL(s.NLMBaseURL), WithHTTPTimeout(s.HTTPTimeout))
	case KindTSV:
		if strings.TrimSpace(s.TSVPath) == "" {
			return nil, fmt.Errorf("tsv source requires a file path (--tsv-file or tsv_path)")
		}
		tsv, err := LoadTSV(s.TSVPath)
		if err != nil {
			return nil, err
		}
		src = tsv
	case KindPostgres:
		pg, err := OpenPostgres(ctx, s.PostgresDSN, s.PostgresTable)
		if err != nil {
			return nil, err
		}
		src = pg
	case KindNone:
		src = NewMemorySource(nil)
	default:
		return nil, fmt.Errorf("unknown source %q (expected %s)", s.Kind, strings.Join(Kinds(), "|"))
	}

	if s.CacheSize <= 0 {
		return src, nil
	}
	cached, err := NewCachedSource(src, s.CacheSize)
	if err != nil {
		_ = closeSource(src)
		return nil, err
	}
	return cached, nil
}

// CloseSource releases a source that holds resources.
func CloseSource(src Source) error {
	return closeSource(src)
}

func closeSource(src Source) error {
	if closer, ok := src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
