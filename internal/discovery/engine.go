package discovery

import (
	"context"
	"fmt"
	"sort"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

const (
	// SourcePostGIS marks candidates served by the geospatial RPC.
	SourcePostGIS = "postgis"
	// SourceClientFilter marks candidates from the bbox superset fetch with
	// Haversine distances computed engine-side.
	SourceClientFilter = "client-filter"

	// fallbackMinRows caps the superset fetch when the RPC is unavailable.
	fallbackMinRows = 200
	fallbackFactor  = 4

	cacheKind = "discovery"
)

// CandidateSource supplies raw candidates from the primary store. Nearby is
// the server-side geospatial path and may fail (missing function, permission
// error); WithinBounds is the plain bounding-box path and must return the
// rows nearest to center first, so a row limit keeps the closest candidates.
type CandidateSource interface {
	Nearby(ctx context.Context, center types.LatLng, radiusMeters, limitRows int, activityTypes, tags []string) ([]types.Item, error)
	WithinBounds(ctx context.Context, center types.LatLng, bounds types.Bounds, limitRows int) ([]types.Item, error)
}

// Engine runs the discovery pipeline: normalize, resolve bounds, consult the
// result cache, fetch and rank candidates, aggregate facets.
type Engine struct {
	log    *logger.Logger
	source CandidateSource
	cache  ResultCache
}

func NewEngine(log *logger.Logger, source CandidateSource, cache ResultCache) *Engine {
	return &Engine{
		log:    log.With("service", "DiscoveryEngine"),
		source: source,
		cache:  cache,
	}
}

// Discover resolves a discovery query into a ranked, cacheable result. Cache
// failures degrade to misses; the geospatial RPC failing degrades to the
// bbox path. Only a failure of both fetch paths is surfaced.
func (e *Engine) Discover(ctx context.Context, q types.Query) (*types.Result, error) {
	q = NormalizeQuery(q)
	bounds := ResolveBounds(q)
	key := BuildCacheKey(cacheKind, q)

	if e.cache != nil && !q.Refresh {
		cached, hit, err := e.cache.Get(ctx, key)
		if err != nil {
			e.log.Warn("Result cache read failed, treating as miss", "error", err)
		} else if hit {
			// The cached value may be shared with concurrent readers (the
			// in-memory cache hands out the stored entry); stamp CacheInfo on
			// a copy, never on the shared result.
			result := *cached
			result.Cache = &types.CacheInfo{Key: key, Hit: true}
			return &result, nil
		}
	}

	candidates, source, err := e.fetchCandidates(ctx, q, bounds)
	if err != nil {
		return nil, err
	}

	filtered := FilterCandidates(candidates, q.Filters)

	// Explicit bounds define the region; the radius cut only applies to
	// center+radius queries.
	rankRadius := q.RadiusMeters
	if q.Bounds != nil {
		rankRadius = 0
	}
	ranked := RankCandidates(filtered, rankRadius, q.Limit)

	result := &types.Result{
		Center:          q.Center,
		RadiusMeters:    q.RadiusMeters,
		Items:           ranked,
		FilterSupport:   ComputeFilterSupport(candidates),
		Facets:          ComputeFacets(filtered),
		SourceBreakdown: ComputeSourceBreakdown(ranked),
		Cache:           &types.CacheInfo{Key: key, Hit: false},
		Source:          source,
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, result); err != nil {
			e.log.Warn("Result cache write failed", "error", err, "key", key)
		}
	}
	return result, nil
}

// fetchCandidates resolves the region to rows. Explicit bounds take
// precedence over the radius, so viewport queries fetch the whole box rather
// than a radius disc around its midpoint. Center+radius queries try the
// geospatial RPC first, then the bbox superset fetch. An empty region
// triggers one widened fetch so the product can fall back to the nearest
// candidates regardless of radius.
func (e *Engine) fetchCandidates(ctx context.Context, q types.Query, bounds types.Bounds) ([]types.Item, string, error) {
	supersetRows := q.Limit * fallbackFactor
	if supersetRows < fallbackMinRows {
		supersetRows = fallbackMinRows
	}

	var items []types.Item
	var err error
	source := SourcePostGIS
	if q.Bounds != nil {
		items, err = e.source.WithinBounds(ctx, q.Center, bounds, supersetRows)
		if err != nil {
			return nil, "", fmt.Errorf("fetch bounded candidates: %w", err)
		}
		source = SourceClientFilter
	} else {
		items, err = e.source.Nearby(ctx, q.Center, q.RadiusMeters, supersetRows, q.Filters.ActivityTypes, q.Filters.Tags)
		if err != nil {
			e.log.Warn("Geospatial RPC unavailable, falling back to bbox fetch", "error", err)
			items, err = e.source.WithinBounds(ctx, q.Center, bounds, supersetRows)
			if err != nil {
				return nil, "", fmt.Errorf("fetch candidates: %w", err)
			}
			source = SourceClientFilter
		}
	}

	if len(items) == 0 {
		// Nothing in the strict region; widen to the whole valid range. The
		// source returns nearest-first, so the row cap keeps the closest.
		world := types.Bounds{
			SW: types.LatLng{Lat: -90, Lng: -180},
			NE: types.LatLng{Lat: 90, Lng: 180},
		}
		items, err = e.source.WithinBounds(ctx, q.Center, world, supersetRows)
		if err != nil {
			return nil, "", fmt.Errorf("fetch nearest candidates: %w", err)
		}
		source = SourceClientFilter
	}

	e.finalizeCandidates(items, q.Center, source)
	if source == SourceClientFilter {
		sort.SliceStable(items, func(i, j int) bool {
			di, dj := items[i].DistanceM, items[j].DistanceM
			if di == nil || dj == nil {
				return dj == nil && di != nil
			}
			return *di < *dj
		})
	}
	return items, source, nil
}

// finalizeCandidates fills in distances, provenance and display labels.
func (e *Engine) finalizeCandidates(items []types.Item, center types.LatLng, source string) {
	for i := range items {
		if items[i].DistanceM == nil {
			d := HaversineMeters(center.Lat, center.Lng, items[i].Lat, items[i].Lng)
			items[i].DistanceM = &d
		}
		if items[i].Source == "" {
			items[i].Source = source
		}
		items[i].PlaceLabel = PlaceLabel(items[i].Name, items[i].Venue, items[i].Address)
	}
}
