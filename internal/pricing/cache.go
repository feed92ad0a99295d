package pricing

import (
	"context"
	"sync"
	"time"

	"holdings-engine/internal/interfaces"
)

// CachedSource decorates a PriceSource with a TTL cache so back-to-back
// refreshes do not re-hit the quote API. Failures are never cached: a
// pending row should recover on the next refresh if the source does.
type CachedSource struct {
	src interfaces.PriceSource

	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	price     float64
	timestamp time.Time
}

func NewCachedSource(src interfaces.PriceSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		src:  src,
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
}

func (c *CachedSource) Quote(ctx context.Context, instrumentKey string) (float64, error) {
	if price, ok := c.get(instrumentKey); ok {
		return price, nil
	}

	price, err := c.src.Quote(ctx, instrumentKey)
	if err != nil {
		return 0, err
	}
	c.set(instrumentKey, price)
	return price, nil
}

func (c *CachedSource) get(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return 0, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return 0, false
	}
	return entry.price, true
}

func (c *CachedSource) set(key string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = &cacheEntry{price: price, timestamp: time.Now()}
}

// Invalidate drops one instrument's cached quote.
func (c *CachedSource) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}
