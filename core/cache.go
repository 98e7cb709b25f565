package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// ListCache keeps previously fetched list results so dashboards don't
// refetch on every render. Writes to a resource invalidate every cached
// list for that resource; this is a cache-consistency contract, not a
// transactional one - concurrent readers may see stale data until their
// next refresh.
type ListCache struct {
	cache   map[string]map[string]*cachedList // resource -> query key -> entry
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// counters
	hits        int64
	misses      int64
	sets        int64
	invalidates int64
	evictions   int64
}

type cachedList struct {
	value    any
	cachedAt time.Time
}

// CacheConfig configures list cache behavior.
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type CacheStats struct {
	Hits        int64         `json:"hits"`
	Misses      int64         `json:"misses"`
	Sets        int64         `json:"sets"`
	Invalidates int64         `json:"invalidates"`
	Evictions   int64         `json:"evictions"`
	Size        int           `json:"size"`
	TTL         time.Duration `json:"ttl"`
}

func NewListCache(c CacheConfig) *ListCache {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &ListCache{
		cache:   make(map[string]map[string]*cachedList),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

func (c *ListCache) Get(resource, key string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lists, exists := c.cache[resource]
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrCacheMiss
	}
	record, exists := lists[key]
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrCacheMiss
	}

	if time.Since(record.cachedAt) > c.ttl {
		delete(lists, key)
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrCacheMiss
	}

	atomic.AddInt64(&c.hits, 1)
	return record.value, nil
}

func (c *ListCache) Set(resource, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if c.sizeLocked() >= c.maxSize {
		for res := range c.cache {
			delete(c.cache, res)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	lists, exists := c.cache[resource]
	if !exists {
		lists = make(map[string]*cachedList)
		c.cache[resource] = lists
	}
	lists[key] = &cachedList{value: value, cachedAt: time.Now()}
	atomic.AddInt64(&c.sets, 1)
}

// Invalidate marks every cached list for the resource stale so the next
// read reflects a completed create/update/delete.
func (c *ListCache) Invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, existed := c.cache[resource]; existed {
		delete(c.cache, resource)
		atomic.AddInt64(&c.invalidates, 1)
	}
}

func (c *ListCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]map[string]*cachedList)
}

func (c *ListCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sizeLocked()
}

func (c *ListCache) sizeLocked() int {
	total := 0
	for _, lists := range c.cache {
		total += len(lists)
	}
	return total
}

func (c *ListCache) Stats() CacheStats {
	return CacheStats{
		Hits:        atomic.LoadInt64(&c.hits),
		Misses:      atomic.LoadInt64(&c.misses),
		Sets:        atomic.LoadInt64(&c.sets),
		Invalidates: atomic.LoadInt64(&c.invalidates),
		Evictions:   atomic.LoadInt64(&c.evictions),
		Size:        c.Len(),
		TTL:         c.ttl,
	}
}
