package discovery

import (
	"math"
	"sort"
	"strings"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

const (
	DefaultRadiusMeters = 2000
	MinRadiusMeters     = 100
	MaxRadiusMeters     = 100000

	DefaultLimit = 20
	MaxLimit     = 100

	MinPriceLevel = 1
	MaxPriceLevel = 4

	// FacetAny is the neutral value for the capacity and time-window enums.
	FacetAny = "any"
)

var capacityKeys = map[string]bool{
	"any":    true,
	"solo":   true,
	"small":  true,
	"medium": true,
	"large":  true,
}

var timeWindows = map[string]bool{
	"any":       true,
	"morning":   true,
	"afternoon": true,
	"evening":   true,
	"late":      true,
}

// NormalizeRadius maps an optional raw radius to a clamped integer meter
// count. Absent or non-finite values fall back to the default.
func NormalizeRadius(value *float64) int {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return DefaultRadiusMeters
	}
	r := int(math.Round(*value))
	if r < MinRadiusMeters {
		return MinRadiusMeters
	}
	if r > MaxRadiusMeters {
		return MaxRadiusMeters
	}
	return r
}

// NormalizeLimit clamps the page size, defaulting when unset.
func NormalizeLimit(value int) int {
	if value <= 0 {
		return DefaultLimit
	}
	if value > MaxLimit {
		return MaxLimit
	}
	return value
}

// NormalizeList trims, lowercases, drops empties, deduplicates and sorts a
// facet value list. Output is independent of input order and stable under
// re-normalization.
func NormalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// NormalizePriceLevels rounds raw values to integers, keeps only the valid
// [1,4] range, deduplicates and sorts ascending.
func NormalizePriceLevels(values []float64) []int {
	out := make([]int, 0, len(values))
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		p := int(math.Round(v))
		if p < MinPriceLevel || p > MaxPriceLevel || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// NormalizeCapacityKey validates against the fixed allow-list. Unrecognized
// values silently map to the neutral default; leniency is deliberate.
func NormalizeCapacityKey(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if !capacityKeys[v] {
		return FacetAny
	}
	return v
}

// NormalizeTimeWindow validates against the fixed allow-list, mapping
// anything unrecognized to the neutral default.
func NormalizeTimeWindow(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if !timeWindows[v] {
		return FacetAny
	}
	return v
}

// NormalizeFilters produces the canonical filter set. It is idempotent and
// order-independent.
func NormalizeFilters(f types.Filters) types.Filters {
	priced := make([]float64, 0, len(f.PriceLevels))
	for _, p := range f.PriceLevels {
		priced = append(priced, float64(p))
	}
	return types.Filters{
		ActivityTypes:      NormalizeList(f.ActivityTypes),
		Tags:               NormalizeList(f.Tags),
		Traits:             NormalizeList(f.Traits),
		TaxonomyCategories: NormalizeList(f.TaxonomyCategories),
		PriceLevels:        NormalizePriceLevels(priced),
		CapacityKey:        NormalizeCapacityKey(f.CapacityKey),
		TimeWindow:         NormalizeTimeWindow(f.TimeWindow),
	}
}

// NormalizeQuery returns the cache-stable canonical form of a raw query.
func NormalizeQuery(q types.Query) types.Query {
	radius := float64(q.RadiusMeters)
	var radiusPtr *float64
	if q.RadiusMeters != 0 {
		radiusPtr = &radius
	}
	q.RadiusMeters = NormalizeRadius(radiusPtr)
	q.Limit = NormalizeLimit(q.Limit)
	q.Filters = NormalizeFilters(q.Filters)
	if q.Bounds != nil {
		b := normalizeBounds(*q.Bounds)
		q.Bounds = &b
	}
	return q
}
