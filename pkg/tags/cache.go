package tags

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

const cacheShards = 32

type cacheKey struct {
	name   string
	detail string
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[cacheKey]Status
}

// Cache memoizes validation results keyed by (name, detail). It only grows:
// validation is a pure function of its inputs so entries never go stale.
// A Cache is safe for concurrent use.
type Cache struct {
	shards [cacheShards]cacheShard

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache returns an empty validation cache.
func NewCache() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i].entries = make(map[cacheKey]Status)
	}
	return c
}

func (c *Cache) shard(k cacheKey) *cacheShard {
	d := xxhash.New()
	_, _ = d.WriteString(k.name)
	// Only picks the shard, the map key still holds both fields.
	_, _ = d.Write([]byte{0x1f})
	_, _ = d.WriteString(k.detail)
	return &c.shards[d.Sum64()%cacheShards]
}

// Get returns the cached status for the pair, if any.
func (c *Cache) Get(name, detail string) (Status, bool) {
	k := cacheKey{name: name, detail: detail}
	s := c.shard(k)
	s.mu.RLock()
	st, ok := s.entries[k]
	s.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return st, ok
}

// Put stores a status. An existing entry is kept as is.
func (c *Cache) Put(name, detail string, st Status) {
	k := cacheKey{name: name, detail: detail}
	s := c.shard(k)
	s.mu.Lock()
	if _, ok := s.entries[k]; !ok {
		s.entries[k] = st
	}
	s.mu.Unlock()
}

// Len returns the number of memoized pairs.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Hits returns how many lookups were served from the cache.
func (c *Cache) Hits() uint64 { return c.hits.Load() }

// Misses returns how many lookups had to run the checks.
func (c *Cache) Misses() uint64 { return c.misses.Load() }
