package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dowhat/dowhat-backend/internal/discovery"
	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

const (
	resultKeyPrefix = "discovery:result:"
	indexKey        = "discovery:result:index"
	itemCountKey    = "discovery:result:items"
)

// ResultCache is the Redis-backed discovery.ResultCache shared across
// service instances. TTL rides on the value key; the entry and item bounds
// are enforced through a zset index ordered by write time, so eviction is
// oldest-first. Index and item-count entries whose value key has expired are
// swept on write so the bounds never count phantom entries.
type ResultCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewResultCache(log *logger.Logger) (*ResultCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ResultCache{
		log: log.With("service", "RedisResultCache"),
		rdb: rdb,
		ttl: discovery.CacheTTL,
	}, nil
}

func (c *ResultCache) Get(ctx context.Context, key string) (*types.Result, bool, error) {
	raw, err := c.rdb.Get(ctx, resultKeyPrefix+key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result types.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	return &result, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result *types.Result) error {
	if result == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, resultKeyPrefix+key, raw, c.ttl)
	pipe.ZAdd(ctx, indexKey, goredis.Z{Score: float64(time.Now().UnixNano()), Member: key})
	pipe.HSet(ctx, itemCountKey, key, len(result.Items))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return c.enforceBounds(ctx)
}

// sweepExpired drops index and item-count entries whose value key has
// already expired, so enforceBounds only ever counts live entries.
func (c *ResultCache) sweepExpired(ctx context.Context) error {
	cutoff := strconv.FormatInt(time.Now().Add(-c.ttl).UnixNano(), 10)
	stale, err := c.rdb.ZRangeByScore(ctx, indexKey, &goredis.ZRangeBy{Min: "-inf", Max: cutoff}).Result()
	if err != nil || len(stale) == 0 {
		return err
	}

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, indexKey, "-inf", cutoff)
	pipe.HDel(ctx, itemCountKey, stale...)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *ResultCache) enforceBounds(ctx context.Context) error {
	if err := c.sweepExpired(ctx); err != nil {
		return err
	}

	entries, err := c.rdb.ZCard(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	for entries > discovery.MaxCacheEntries {
		if err := c.evictOldest(ctx); err != nil {
			return err
		}
		entries--
	}

	total, err := c.totalItems(ctx)
	if err != nil {
		return err
	}
	for total > discovery.MaxCacheItems && entries > 1 {
		evicted, err := c.evictOldestCounted(ctx)
		if err != nil {
			return err
		}
		total -= evicted
		entries--
	}
	return nil
}

func (c *ResultCache) totalItems(ctx context.Context) (int, error) {
	vals, err := c.rdb.HVals(ctx, itemCountKey).Result()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, v := range vals {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		total += n
	}
	return total, nil
}

func (c *ResultCache) evictOldest(ctx context.Context) error {
	_, err := c.evictOldestCounted(ctx)
	return err
}

// evictOldestCounted removes the oldest indexed entry and returns how many
// cached items it held.
func (c *ResultCache) evictOldestCounted(ctx context.Context) (int, error) {
	popped, err := c.rdb.ZPopMin(ctx, indexKey, 1).Result()
	if err != nil {
		return 0, err
	}
	if len(popped) == 0 {
		return 0, nil
	}
	key, _ := popped[0].Member.(string)

	count := 0
	if raw, err := c.rdb.HGet(ctx, itemCountKey, key).Result(); err == nil {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			count = n
		}
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, resultKeyPrefix+key)
	pipe.HDel(ctx, itemCountKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return count, err
	}
	return count, nil
}

func (c *ResultCache) Close() error {
	return c.rdb.Close()
}
