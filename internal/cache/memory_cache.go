package cache

import (
	"context"
	"sync"
	"time"
)

// memoryCache is an in-process Cache used in tests and as a fallback when no
// Valkey instance is configured. Expired entries are dropped lazily on read.
type memoryCache struct {
	items    map[string]memoryItem
	maxItems int
	mu       sync.RWMutex
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache holding at most maxItems entries.
func NewMemoryCache(maxItems int) Cache {
	if maxItems <= 0 {
		maxItems = 1000
	}
	return &memoryCache{
		items:    make(map[string]memoryItem),
		maxItems: maxItems,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have replaced
		// the entry since the read.
		if cur, ok := c.items[key]; ok && !cur.expiresAt.IsZero() && time.Now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, nil
	}

	return item.data, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxItems {
		c.evictOldestLocked()
	}

	c.items[key] = memoryItem{data: value, expiresAt: expiresAt}
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	data, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	c.items = make(map[string]memoryItem)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Health(_ context.Context) error {
	return nil
}

// evictOldestLocked removes the entry closest to expiry. Callers hold the
// write lock.
func (c *memoryCache) evictOldestLocked() {
	oldestKey := ""
	var oldestTime time.Time

	for k, item := range c.items {
		if oldestKey == "" || item.expiresAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = item.expiresAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
