package core

import (
	"errors"
	"testing"
	"time"
)

// Requirement: Set then Get round-trips a list under its resource and
// query key.
func TestListCache_SetGet(t *testing.T) {
	cache := NewListCache(CacheConfig{TTL: time.Minute, MaxSize: 10})

	cache.Set("donations", "page=1", []string{"a", "b"})

	got, err := cache.Get("donations", "page=1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	items, ok := got.([]string)
	if !ok || len(items) != 2 {
		t.Errorf("Get() = %#v, want the cached slice", got)
	}
}

// Requirement: a miss returns ErrCacheMiss.
func TestListCache_Miss(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		key      string
	}{
		{name: "unknown resource", resource: "organizations", key: "all"},
		{name: "unknown key", resource: "donations", key: "page=2"},
	}

	cache := NewListCache(CacheConfig{TTL: time.Minute, MaxSize: 10})
	cache.Set("donations", "page=1", "cached")

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := cache.Get(test.resource, test.key); !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Get() error = %v, want ErrCacheMiss", err)
			}
		})
	}
}

// Requirement: entries expire after the TTL.
func TestListCache_TTLExpiry(t *testing.T) {
	cache := NewListCache(CacheConfig{TTL: time.Nanosecond, MaxSize: 10})
	cache.Set("donations", "page=1", "cached")

	time.Sleep(time.Millisecond)

	if _, err := cache.Get("donations", "page=1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after TTL error = %v, want ErrCacheMiss", err)
	}
}

// Requirement: invalidating a resource drops every list cached for it
// and leaves other resources alone.
func TestListCache_Invalidate(t *testing.T) {
	cache := NewListCache(CacheConfig{TTL: time.Minute, MaxSize: 10})
	cache.Set("donations", "page=1", "a")
	cache.Set("donations", "page=2", "b")
	cache.Set("organizations", "all", "c")

	cache.Invalidate("donations")

	if _, err := cache.Get("donations", "page=1"); !errors.Is(err, ErrCacheMiss) {
		t.Error("invalidated list still cached")
	}
	if _, err := cache.Get("donations", "page=2"); !errors.Is(err, ErrCacheMiss) {
		t.Error("invalidated sibling list still cached")
	}
	if _, err := cache.Get("organizations", "all"); err != nil {
		t.Error("unrelated resource was invalidated")
	}
}

// Requirement: the cache evicts when full instead of growing without bound.
func TestListCache_EvictsWhenFull(t *testing.T) {
	cache := NewListCache(CacheConfig{TTL: time.Minute, MaxSize: 2})
	cache.Set("donations", "page=1", "a")
	cache.Set("donations", "page=2", "b")
	cache.Set("organizations", "all", "c")

	if cache.Len() > 2 {
		t.Errorf("Len() = %d, want <= 2 after eviction", cache.Len())
	}
	if cache.Stats().Evictions == 0 {
		t.Error("expected at least one eviction")
	}
}

// Requirement: stats counters track hits, misses, sets, and invalidations.
func TestListCache_Stats(t *testing.T) {
	cache := NewListCache(CacheConfig{TTL: time.Minute, MaxSize: 10})

	cache.Set("donations", "page=1", "a")
	cache.Get("donations", "page=1")
	cache.Get("donations", "page=9")
	cache.Invalidate("donations")

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 || stats.Invalidates != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, 1 set, 1 invalidate", stats)
	}
}
