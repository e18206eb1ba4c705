package scraper

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCacheSize = 32
	DefaultCacheTTL  = 10 * time.Minute
)

// Cache holds parsed rows per target for a bounded time so repeated runs in
// one process do not refetch every source. It is safe for concurrent use.
type Cache struct {
	lru *expirable.LRU[string, []Row]
}

// NewCache creates a cache holding at most size targets, each for ttl.
// Non-positive arguments fall back to the defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		lru: expirable.NewLRU[string, []Row](size, nil, ttl),
	}
}

// Get returns the cached rows for key if present and not expired.
func (c *Cache) Get(key string) ([]Row, bool) {
	return c.lru.Get(key)
}

// Add stores rows under key, evicting the least recently used entry when full.
func (c *Cache) Add(key string, rows []Row) {
	c.lru.Add(key, rows)
}

// Purge removes every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Size returns the number of cached targets.
func (c *Cache) Size() int {
	return c.lru.Len()
}
