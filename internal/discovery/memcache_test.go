package discovery

import (
	"context"
	"fmt"
	"testing"
	"time"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

func resultWithItems(n int) *types.Result {
	items := make([]types.Item, n)
	return &types.Result{Items: items}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryResultCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "k", resultWithItems(3)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := cache.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}

	if _, hit, _ := cache.Get(ctx, "missing"); hit {
		t.Fatalf("unexpected hit for missing key")
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	cache := NewMemoryResultCache()
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Set(ctx, "k", resultWithItems(1))

	now = now.Add(CacheTTL + time.Second)
	if _, hit, _ := cache.Get(ctx, "k"); hit {
		t.Fatalf("entry past TTL should read as a miss")
	}
}

func TestMemoryCacheEntryBound(t *testing.T) {
	cache := NewMemoryResultCache()
	ctx := context.Background()

	for i := 0; i < MaxCacheEntries+5; i++ {
		cache.Set(ctx, fmt.Sprintf("k%d", i), resultWithItems(1))
	}
	if cache.order.Len() > MaxCacheEntries {
		t.Fatalf("entry bound violated: %d entries", cache.order.Len())
	}
	if _, hit, _ := cache.Get(ctx, "k0"); hit {
		t.Fatalf("oldest entry should have been evicted")
	}
}

func TestMemoryCacheItemBound(t *testing.T) {
	cache := NewMemoryResultCache()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		cache.Set(ctx, fmt.Sprintf("k%d", i), resultWithItems(80))
	}
	if cache.itemTotal > MaxCacheItems {
		t.Fatalf("item bound violated: %d items", cache.itemTotal)
	}
	if _, hit, _ := cache.Get(ctx, "k4"); !hit {
		t.Fatalf("newest entry should survive item-bound eviction")
	}
}
