package emotext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache memoises analysis results by document content. A cached
// result is only served while every chart it references is still on disk;
// otherwise it is dropped and the caller regenerates it.
type ResultCache struct {
	entries *lru.Cache[string, *Result]
}

// NewResultCache creates a cache holding at most size results.
func NewResultCache(size int) (*ResultCache, error) {
	entries, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &ResultCache{entries: entries}, nil
}

// ContentKey returns the cache key of a document: the SHA-256 of its
// normalised text.
func ContentKey(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached result for text if all of its charts exist.
func (c *ResultCache) Lookup(text string) (*Result, bool) {
	key := ContentKey(text)
	r, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	for _, path := range r.ChartPaths() {
		if _, err := os.Stat(path); err != nil {
			c.entries.Remove(key)
			return nil, false
		}
	}
	return r, true
}

// Store records r as the result for text.
func (c *ResultCache) Store(text string, r *Result) {
	c.entries.Add(ContentKey(text), r)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	return c.entries.Len()
}

// Analyze serves text from the cache or runs a and caches the result. The
// boolean reports a cache hit.
func (c *ResultCache) Analyze(ctx context.Context, a *Analyzer, text string) (*Result, bool, error) {
	if r, ok := c.Lookup(text); ok {
		return r, true, nil
	}
	r, err := a.Execute(ctx, text)
	if err != nil {
		return nil, false, err
	}
	c.Store(text, r)
	return r, false, nil
}
