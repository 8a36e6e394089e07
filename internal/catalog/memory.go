package catalog

import (
	"context"
	"fmt"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// MemorySource answers lookups from an in-memory catalog. A nil catalog
// answers every lookup with ErrNotFound.
type MemorySource struct {
	entries hierarchy.Catalog
}

// NewMemorySource wraps entries.
func NewMemorySource(entries hierarchy.Catalog) *MemorySource {
	return &MemorySource{entries: entries}
}

// Lookup returns the stored description.
func (s *MemorySource) Lookup(_ context.Context, code string) (Entry, error) {
	name, ok := s.entries[code]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", code, ErrNotFound)
	}
	return Entry{Code: code, Name: name}, nil
}

// Len returns the number of stored codes.
func (s *MemorySource) Len() int {
	return len(s.entries)
}
