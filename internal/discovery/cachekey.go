package discovery

import (
	"encoding/json"

	"github.com/mmcloughlin/geohash"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

// TileKeyPrecision is the geohash character length used to group nearby
// query centers into one tile for coalesced provider fetches. Precision 6 is
// roughly a 1.2km x 0.6km cell.
const TileKeyPrecision = 6

// cacheKeyPayload is the canonical serialized form of a query. Field order is
// fixed by struct declaration, so logically identical queries always
// stringify identically. Coordinates are rounded to 5 decimals, coarser than
// bounds precision, so near-identical viewports collapse to one entry.
type cacheKeyPayload struct {
	Kind         string        `json:"kind"`
	Center       types.LatLng  `json:"center"`
	RadiusMeters int           `json:"radiusMeters"`
	Limit        int           `json:"limit"`
	Bounds       *types.Bounds `json:"bounds"`
	Filters      types.Filters `json:"filters"`
}

// BuildCacheKey produces the deterministic result-cache key for a query. The
// query is normalized first, so raw and canonical inputs key identically.
func BuildCacheKey(kind string, q types.Query) string {
	q = NormalizeQuery(q)

	payload := cacheKeyPayload{
		Kind: kind,
		Center: types.LatLng{
			Lat: roundTo(q.Center.Lat, 5),
			Lng: roundTo(q.Center.Lng, 5),
		},
		RadiusMeters: q.RadiusMeters,
		Limit:        q.Limit,
		Filters:      q.Filters,
	}
	if q.Bounds != nil {
		payload.Bounds = &types.Bounds{
			SW: types.LatLng{Lat: roundTo(q.Bounds.SW.Lat, 5), Lng: roundTo(q.Bounds.SW.Lng, 5)},
			NE: types.LatLng{Lat: roundTo(q.Bounds.NE.Lat, 5), Lng: roundTo(q.Bounds.NE.Lng, 5)},
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		// Marshal of a plain struct cannot fail at runtime; keep the key
		// deterministic anyway.
		return kind
	}
	return string(raw)
}

// ComputeTileKey returns the precision-6 geohash of a query center. Distinct
// purpose from the cache key: tiles partition space coarsely so nearby
// requests can share batched provider fetches.
func ComputeTileKey(center types.LatLng) string {
	return geohash.EncodeWithPrecision(center.Lat, center.Lng, TileKeyPrecision)
}
