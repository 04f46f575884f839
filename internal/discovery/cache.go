package discovery

import (
	"context"
	"time"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

const (
	// CacheTTL bounds staleness of a cached discovery result.
	CacheTTL = 5 * time.Minute
	// MaxCacheEntries bounds the number of cached results.
	MaxCacheEntries = 30
	// MaxCacheItems bounds the total items held across all cached results.
	MaxCacheItems = 200
)

// ResultCache is the injected discovery-result cache. Implementations must
// enforce CacheTTL and both capacity bounds; a stale or evicted key reads as
// a miss. Cache failures are surfaced as errors so the engine can degrade to
// a miss instead of failing the request.
type ResultCache interface {
	Get(ctx context.Context, key string) (*types.Result, bool, error)
	Set(ctx context.Context, key string, result *types.Result) error
}
