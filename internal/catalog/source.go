// Package catalog looks up code descriptions from pluggable data sources.
package catalog

import (
	"context"
	"errors"
	"time"
)

// DefaultLookupTimeout bounds a single lookup.
const DefaultLookupTimeout = 10 * time.Second

// ErrNotFound is returned by a Source that has no data for a code.
var ErrNotFound = errors.New("code not found")

// Entry is a described code.
type Entry struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Source looks up a single code. Implementations return ErrNotFound (possibly
// wrapped) when they have no data and any other error when the lookup itself
// failed.
type Source interface {
	Lookup(ctx context.Context, code string) (Entry, error)
}

// Outcome classifies a lookup.
type Outcome int

const (
	// Found means the source described the code.
	Found Outcome = iota
	// NotFound means the source answered but has no data for the code.
	NotFound
	// Failed means the source could not answer (timeout, network, bad response).
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one lookup.
type Result struct {
	Code    string  `json:"code" yaml:"code"`
	Entry   Entry   `json:"entry" yaml:"entry"`
	Outcome Outcome `json:"-" yaml:"-"`
	Err     error   `json:"-" yaml:"-"`
}

// Describe runs one lookup under timeout and classifies the answer.
// A non-positive timeout uses DefaultLookupTimeout.
func Describe(ctx context.Context, src Source, code string, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entry, err := src.Lookup(ctx, code)
	switch {
	case err == nil:
		return Result{Code: code, Entry: entry, Outcome: Found}
	case errors.Is(err, ErrNotFound):
		return Result{Code: code, Outcome: NotFound}
	default:
		return Result{Code: code, Outcome: Failed, Err: err}
	}
}
