package cache

import (
	"context"
	"sync"

	"github.com/hytale-tools/modlate"
)

// MemoryCache is a thread-safe in-memory translation cache. It is the
// fallback backend when a persistent one degrades, and the default for
// one-off runs.
type MemoryCache struct {
	mu      sync.RWMutex
	records map[modlate.Key]modlate.Record
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{records: make(map[modlate.Key]modlate.Record)}
}

// Lookup retrieves a record by key.
func (c *MemoryCache) Lookup(_ context.Context, key modlate.Key) (modlate.Record, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[key]
	return rec, ok, nil
}

// Store saves a record. Storing the same key again overwrites the previous
// record, so re-imports act as corrections.
func (c *MemoryCache) Store(_ context.Context, rec modlate.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[rec.Key] = rec
	return nil
}

// Flush is a no-op; the cache has no persistence.
func (c *MemoryCache) Flush(context.Context) error { return nil }

// Records returns a snapshot of all stored records.
func (c *MemoryCache) Records(context.Context) ([]modlate.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]modlate.Record, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec)
	}
	return out, nil
}

// Len returns the number of stored records.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Clear removes all records.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[modlate.Key]modlate.Record)
}

var _ Enumerable = (*MemoryCache)(nil)
