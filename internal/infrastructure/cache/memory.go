package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache. It does not share state across
// instances.
type MemoryCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryCache creates a cache that sweeps expired entries every interval
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	c := &MemoryCache{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop(sweepInterval)
	return c
}

// Get returns a copy of the cached value; ok is false on a miss or expiry
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a copy of value. A non-positive ttl removes the key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.entries, key)
		return nil
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries[key] = entry{value: stored, expiresAt: c.now().Add(ttl)}
	return nil
}

// Ping always succeeds
func (c *MemoryCache) Ping(context.Context) error { return nil }

// Close stops the sweeper. Safe to call multiple times.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of stored entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
