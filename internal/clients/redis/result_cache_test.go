package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

func TestSetSweepsExpiredIndexEntries(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("REDIS_ADDR not set")
	}

	cache, err := NewResultCache(logger.NewNop())
	if err != nil {
		t.Fatalf("NewResultCache: %v", err)
	}
	defer cache.Close()
	cache.ttl = 50 * time.Millisecond
	ctx := context.Background()

	key := fmt.Sprintf("sweep-%d", time.Now().UnixNano())
	if err := cache.Set(ctx, key, &types.Result{Items: []types.Item{{ID: "a1"}}}); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	// The next write must drop the expired entry's index and item-count
	// bookkeeping, not just let the value key lapse.
	if err := cache.Set(ctx, key+"-b", &types.Result{}); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	if _, err := cache.rdb.ZScore(ctx, indexKey, key).Result(); err != goredis.Nil {
		t.Fatalf("expired entry should be gone from the index, err=%v", err)
	}
	if _, err := cache.rdb.HGet(ctx, itemCountKey, key).Result(); err != goredis.Nil {
		t.Fatalf("expired entry should be gone from the item counts, err=%v", err)
	}

	cache.rdb.ZRem(ctx, indexKey, key+"-b")
	cache.rdb.HDel(ctx, itemCountKey, key+"-b")
	cache.rdb.Del(ctx, resultKeyPrefix+key+"-b")
}
