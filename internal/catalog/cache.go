package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of answers kept by CachedSource.
const DefaultCacheSize = 4096

type cachedAnswer struct {
	entry Entry
	found bool
}

// CachedSource remembers found and not-found answers from another Source.
// Failures are not cached so a later lookup can still succeed.
type CachedSource struct {
	next  Source
	cache *lru.Cache[string, cachedAnswer]
}

// NewCachedSource wraps next with an LRU cache of size entries.
func NewCachedSource(next Source, size int) (*CachedSource, error) {
	if next == nil {
		return nil, errors.New("cached source requires a source")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedAnswer](size)
	if err != nil {
		return nil, fmt.Errorf("init lookup cache: %w", err)
	}
	return &CachedSource{next: next, cache: cache}, nil
}

// Lookup answers from the cache or asks the wrapped source.
func (c *CachedSource) Lookup(ctx context.Context, code string) (Entry, error) {
	if answer, ok := c.cache.Get(code); ok {
		if !answer.found {
			return Entry{}, fmt.Errorf("%s: %w", code, ErrNotFound)
		}
		return answer.entry, nil
	}

	entry, err := c.next.Lookup(ctx, code)
	switch {
	case err == nil:
		c.cache.Add(code, cachedAnswer{entry: entry, found: true})
	case errors.Is(err, ErrNotFound):
		c.cache.Add(code, cachedAnswer{})
	}
	return entry, err
}

// Len returns the number of cached answers.
func (c *CachedSource) Len() int {
	return c.cache.Len()
}

// Close closes the wrapped source when it holds resources.
func (c *CachedSource) Close() error {
	return closeSource(c.next)
}
