// Package providers - cache.go memoizes backend responses within one process.
package providers

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache sizing constants.
const (
	// DefaultHitCacheSize is the number of distinct provider/term hit lists
	// kept in memory.
	DefaultHitCacheSize = 128
	// DefaultPageCacheSize is the number of fetched search pages kept by the
	// native adapter. Pages are an order of magnitude larger than hit lists.
	DefaultPageCacheSize = 16
)

// HitCache keeps raw hit lists keyed by provider name and rendered term, so
// repeating a search in the same process does not re-issue the backend call.
type HitCache struct {
	cache *lru.Cache[string, []RawHit]
}

// NewHitCache creates a hit cache holding up to size entries.
func NewHitCache(size int) *HitCache {
	if size <= 0 {
		size = DefaultHitCacheSize
	}
	cache, _ := lru.New[string, []RawHit](size)
	return &HitCache{cache: cache}
}

// Get returns the cached hits for a provider/term pair.
func (hc *HitCache) Get(provider, term string) ([]RawHit, bool) {
	return hc.cache.Get(provider + "|" + term)
}

// Add stores the hits for a provider/term pair.
func (hc *HitCache) Add(provider, term string, hits []RawHit) {
	hc.cache.Add(provider+"|"+term, hits)
}

// PageCache keeps fetched search pages keyed by rendered term. One instance
// belongs to one adapter, so the provider name is not part of the key.
type PageCache struct {
	cache *lru.Cache[string, string]
}

// NewPageCache creates a page cache holding up to size entries.
func NewPageCache(size int) *PageCache {
	if size <= 0 {
		size = DefaultPageCacheSize
	}
	cache, _ := lru.New[string, string](size)
	return &PageCache{cache: cache}
}

// Get returns the cached page for a term.
func (pc *PageCache) Get(term string) (string, bool) {
	return pc.cache.Get(term)
}

// Add stores the fetched page for a term.
func (pc *PageCache) Add(term, page string) {
	pc.cache.Add(term, page)
}
