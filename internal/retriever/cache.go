package retriever

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/askdocs/kbretrieve/pkg/types"
)

const (
	// DefaultCacheSize is the query cache capacity.
	DefaultCacheSize = 1000

	// DefaultCacheTTL bounds how long a cached response stays valid.
	DefaultCacheTTL = 1 * time.Hour
)

// cacheEntry pairs a cached response with its expiry time.
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// queryCache is an LRU cache of search responses keyed by query hash.
// The index itself is immutable, so entries only go stale relative to
// the embedding provider; the TTL is a hedge against provider model
// updates during long-lived processes.
type queryCache struct {
	mu    sync.RWMutex
	cache *lru.Cache[[32]byte, *cacheEntry]
}

func newQueryCache(size int) *queryCache {
	cache, err := lru.New[[32]byte, *cacheEntry](size)
	if err != nil {
		// Only reachable with a non-positive size, which callers
		// normalize before getting here.
		panic(fmt.Sprintf("creating query cache: %v", err))
	}
	return &queryCache{cache: cache}
}

func cacheKey(query string, k int) [32]byte {
	return sha256.Sum256(fmt.Appendf(nil, "%s|%d", query, k))
}

// get returns a deep copy of the cached response for (query, k), if any.
func (c *queryCache) get(query string, k int) (*SearchResponse, bool) {
	key := cacheKey(query, k)

	c.mu.RLock()
	entry, found := c.cache.Get(key)
	if !found {
		c.mu.RUnlock()
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.RUnlock()
		c.mu.Lock()
		c.cache.Remove(key)
		c.mu.Unlock()
		return nil, false
	}
	response := copyResponse(entry.response)
	c.mu.RUnlock()

	return response, true
}

// put stores a deep copy of response under (query, k).
func (c *queryCache) put(query string, k int, ttl time.Duration, response *SearchResponse) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	entry := &cacheEntry{
		response:  copyResponse(response),
		expiresAt: time.Now().Add(ttl),
	}

	c.mu.Lock()
	c.cache.Add(cacheKey(query, k), entry)
	c.mu.Unlock()
}

// purge empties the cache.
func (c *queryCache) purge() {
	c.mu.Lock()
	c.cache.Purge()
	c.mu.Unlock()
}

// copyResponse clones a response so cached entries cannot be mutated by
// callers. ScoredDocument holds only value fields, so copying the slice
// is sufficient.
func copyResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}
	dst := &SearchResponse{
		Duration: src.Duration,
		CacheHit: src.CacheHit,
		Fallback: src.Fallback,
		Results:  make([]types.ScoredDocument, len(src.Results)),
	}
	copy(dst.Results, src.Results)
	return dst
}
