package discovery

import (
	"math"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

const (
	// metersPerDegreeLat is the flat-earth approximation used to turn a
	// radius into a latitude delta.
	metersPerDegreeLat = 111320.0

	// minAbsCosLat floors the longitude-delta denominator so a center at or
	// near the poles degrades to a clamped box instead of dividing by zero.
	minAbsCosLat = 0.0001

	earthRadiusMeters = 6371000.0
)

func clampLat(v float64) float64 {
	return math.Min(90, math.Max(-90, v))
}

func clampLng(v float64) float64 {
	return math.Min(180, math.Max(-180, v))
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// normalizeBounds clamps each coordinate into valid ranges, orders the
// corners so SW <= NE per axis and rounds to 6 decimal places.
func normalizeBounds(b types.Bounds) types.Bounds {
	swLat := clampLat(b.SW.Lat)
	neLat := clampLat(b.NE.Lat)
	swLng := clampLng(b.SW.Lng)
	neLng := clampLng(b.NE.Lng)
	return types.Bounds{
		SW: types.LatLng{
			Lat: roundTo(math.Min(swLat, neLat), 6),
			Lng: roundTo(math.Min(swLng, neLng), 6),
		},
		NE: types.LatLng{
			Lat: roundTo(math.Max(swLat, neLat), 6),
			Lng: roundTo(math.Max(swLng, neLng), 6),
		},
	}
}

// ResolveBounds derives the bounding box for a query. Explicit bounds win;
// otherwise a box is built around the center from the clamped radius.
func ResolveBounds(q types.Query) types.Bounds {
	if q.Bounds != nil {
		return normalizeBounds(*q.Bounds)
	}

	radius := float64(q.RadiusMeters)
	latDelta := radius / metersPerDegreeLat

	cosLat := math.Abs(math.Cos(q.Center.Lat * math.Pi / 180))
	if cosLat < minAbsCosLat {
		cosLat = minAbsCosLat
	}
	lngDelta := radius / (metersPerDegreeLat * cosLat)

	return normalizeBounds(types.Bounds{
		SW: types.LatLng{Lat: q.Center.Lat - latDelta, Lng: q.Center.Lng - lngDelta},
		NE: types.LatLng{Lat: q.Center.Lat + latDelta, Lng: q.Center.Lng + lngDelta},
	})
}

// HaversineMeters returns the great-circle distance between two coordinates.
func HaversineMeters(aLat, aLng, bLat, bLng float64) float64 {
	toRad := math.Pi / 180
	dLat := (bLat - aLat) * toRad
	dLng := (bLng - aLng) * toRad
	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(aLat*toRad)*math.Cos(bLat*toRad)*sinLng*sinLng
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
