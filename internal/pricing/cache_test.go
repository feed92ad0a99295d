package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"holdings-engine/internal/types"
)

// countingSource fails on demand and counts upstream hits.
type countingSource struct {
	price float64
	fail  bool
	calls int
}

func (c *countingSource) Quote(ctx context.Context, key string) (float64, error) {
	c.calls++
	if c.fail {
		return 0, types.ErrPricingUnavailable
	}
	return c.price, nil
}

func TestCachedSourceServesFromCache(t *testing.T) {
	upstream := &countingSource{price: 3000}
	cache := NewCachedSource(upstream, 1*time.Second)
	ctx := context.Background()

	price, err := cache.Quote(ctx, "RELIANCE")
	if err != nil {
		t.Fatal(err)
	}
	if price != 3000 {
		t.Errorf("Expected 3000, got %f", price)
	}

	// Second lookup inside the TTL must not hit upstream.
	if _, err := cache.Quote(ctx, "RELIANCE"); err != nil {
		t.Fatal(err)
	}
	if upstream.calls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", upstream.calls)
	}
}

func TestCachedSourceExpiry(t *testing.T) {
	upstream := &countingSource{price: 3000}
	cache := NewCachedSource(upstream, 50*time.Millisecond)
	ctx := context.Background()

	if _, err := cache.Quote(ctx, "RELIANCE"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if _, err := cache.Quote(ctx, "RELIANCE"); err != nil {
		t.Fatal(err)
	}
	if upstream.calls != 2 {
		t.Errorf("Expected expired entry to refetch, got %d calls", upstream.calls)
	}
}

func TestCachedSourceNeverCachesFailures(t *testing.T) {
	upstream := &countingSource{price: 3000, fail: true}
	cache := NewCachedSource(upstream, 1*time.Second)
	ctx := context.Background()

	if _, err := cache.Quote(ctx, "RELIANCE"); !errors.Is(err, types.ErrPricingUnavailable) {
		t.Fatalf("Expected pricing error, got %v", err)
	}

	// The source recovers; the next lookup must reach it.
	upstream.fail = false
	price, err := cache.Quote(ctx, "RELIANCE")
	if err != nil {
		t.Fatal(err)
	}
	if price != 3000 {
		t.Errorf("Expected recovered quote, got %f", price)
	}
	if upstream.calls != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", upstream.calls)
	}
}

func TestCachedSourceInvalidate(t *testing.T) {
	upstream := &countingSource{price: 3000}
	cache := NewCachedSource(upstream, 1*time.Minute)
	ctx := context.Background()

	if _, err := cache.Quote(ctx, "RELIANCE"); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate("RELIANCE")
	if _, err := cache.Quote(ctx, "RELIANCE"); err != nil {
		t.Fatal(err)
	}
	if upstream.calls != 2 {
		t.Errorf("Expected invalidation to force a refetch, got %d calls", upstream.calls)
	}
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(map[string]float64{"RELIANCE": 2950.75})
	ctx := context.Background()

	price, err := src.Quote(ctx, "RELIANCE")
	if err != nil {
		t.Fatal(err)
	}
	if price != 2950.75 {
		t.Errorf("Expected 2950.75, got %f", price)
	}

	if _, err := src.Quote(ctx, "UNKNOWN"); !errors.Is(err, types.ErrPricingUnavailable) {
		t.Errorf("Expected ErrPricingUnavailable, got %v", err)
	}
}
