package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

type memoryItem struct {
	snap       *model.MarketSnapshot
	expiration time.Time
}

// Memory is a thread-safe in-process TTL cache. Expired entries are evicted
// lazily on lookup; StartCleaner adds a periodic sweep for long-lived keys
// nobody asks about again.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryItem
	ttl  time.Duration
}

// NewMemory creates a new TTL-based in-memory snapshot cache.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		data: make(map[string]memoryItem),
		ttl:  ttl,
	}
}

// Get returns a copy of the cached snapshot if present and not expired.
func (c *Memory) Get(_ context.Context, key Key) (*model.MarketSnapshot, bool) {
	k := key.String()

	c.mu.RLock()
	item, ok := c.data[k]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiration) {
		// Expired — remove and miss
		c.mu.Lock()
		delete(c.data, k)
		c.mu.Unlock()
		return nil, false
	}
	return item.snap.Clone(), true
}

// Put inserts or overwrites a cache entry with a fresh TTL.
func (c *Memory) Put(_ context.Context, key Key, snap *model.MarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key.String()] = memoryItem{
		snap:       snap.Clone(),
		expiration: time.Now().Add(c.ttl),
	}
}

// StartCleaner periodically removes expired cache entries.
func (c *Memory) StartCleaner(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-stop:
			return
		}
	}
}

func (c *Memory) cleanupExpired() {
	now := time.Now()
	c.mu.Lock()
	for k, v := range c.data {
		if now.After(v.expiration) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}
