package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"ev-charge-planner/internal/model"
)

// Cache stores fetched price series by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.PriceSlot, bool)
	Set(ctx context.Context, key string, slots []model.PriceSlot) error
}

type cacheEntry struct {
	slots     []model.PriceSlot
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries are swept by a
// janitor goroutine until Close is called.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &MemoryCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get retrieves a cached series if available and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]model.PriceSlot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return append([]model.PriceSlot(nil), entry.slots...), true
}

func (c *MemoryCache) Set(_ context.Context, key string, slots []model.PriceSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = cacheEntry{
		slots:     append([]model.PriceSlot(nil), slots...),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
}

// Close stops the janitor goroutine.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// CacheKey derives a key from the fetch window, truncated to the hour so
// requests within the same hour share an entry.
func CacheKey(start, end time.Time) string {
	keyStr := fmt.Sprintf("awattar:%d:%d",
		start.Truncate(time.Hour).UnixMilli(),
		end.Truncate(time.Hour).UnixMilli(),
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
