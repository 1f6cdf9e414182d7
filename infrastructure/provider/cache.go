package provider

import (
	"context"
	"sync"
)

// VectorCache memoizes embedding vectors by exact input text. The backing
// store is injectable so tests can substitute a fresh instance per run and
// eviction (e.g. LRU) can be added later without touching call sites.
type VectorCache interface {
	// Get returns the cached vector for text. The returned slice is the
	// stored instance, not a copy: repeated hits return the identical vector.
	Get(text string) ([]float64, bool)

	// Set stores a vector under the exact input text.
	Set(text string, vector []float64)

	// Len returns the number of cached entries.
	Len() int
}

// MemoryCache is an in-process VectorCache. Entries are never evicted;
// growth is bounded only by process lifetime.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]float64
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]float64)}
}

// Get returns the cached vector for text.
func (c *MemoryCache) Get(text string) ([]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.entries[text]
	return vec, ok
}

// Set stores a vector under the exact input text.
func (c *MemoryCache) Set(text string, vector []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[text] = vector
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CachingEmbedder wraps an Embedder with exact-text memoization. Only texts
// missing from the cache reach the inner embedder; failures propagate to
// the caller and are never cached.
type CachingEmbedder struct {
	inner Embedder
	cache VectorCache
}

// NewCachingEmbedder wraps inner with the given cache. A nil cache gets a
// fresh MemoryCache.
func NewCachingEmbedder(inner Embedder, cache VectorCache) *CachingEmbedder {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &CachingEmbedder{inner: inner, cache: cache}
}

// Embed returns one vector per text, serving cache hits locally and
// batching the misses into a single inner call.
func (e *CachingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	result := make([][]float64, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := e.cache.Get(text); ok {
			result[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return result, nil
	}

	vectors, err := e.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	for i, vec := range vectors {
		e.cache.Set(missing[i], vec)
		result[missingIdx[i]] = vec
	}
	return result, nil
}

var _ Embedder = (*CachingEmbedder)(nil)
