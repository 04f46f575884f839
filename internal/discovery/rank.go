package discovery

import (
	"sort"
	"strconv"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

// UnnamedPlaceLabel is the fixed sentinel used when a candidate has no name,
// venue or address. A place label is never empty.
const UnnamedPlaceLabel = "Unnamed spot"

// PlaceLabel resolves the display label for a candidate: explicit name, then
// venue, then address, then the sentinel.
func PlaceLabel(name, venue, address string) string {
	switch {
	case name != "":
		return name
	case venue != "":
		return venue
	case address != "":
		return address
	default:
		return UnnamedPlaceLabel
	}
}

// MatchesFilters applies conjunctive facet filtering: every dimension the
// caller constrained must intersect (list dimensions) or match exactly
// (enums). Unconstrained dimensions always pass.
func MatchesFilters(item types.Item, f types.Filters) bool {
	if len(f.ActivityTypes) > 0 && !intersects(f.ActivityTypes, item.ActivityTypes) {
		return false
	}
	if len(f.Tags) > 0 && !intersects(f.Tags, item.Tags) {
		return false
	}
	if len(f.Traits) > 0 && !intersects(f.Traits, item.Traits) {
		return false
	}
	if len(f.TaxonomyCategories) > 0 && !intersects(f.TaxonomyCategories, item.TaxonomyCategories) {
		return false
	}
	if len(f.PriceLevels) > 0 && !intersectsInts(f.PriceLevels, item.PriceLevels) {
		return false
	}
	if f.CapacityKey != "" && f.CapacityKey != FacetAny && item.CapacityKey != f.CapacityKey {
		return false
	}
	if f.TimeWindow != "" && f.TimeWindow != FacetAny && item.TimeWindow != f.TimeWindow {
		return false
	}
	return true
}

func intersects(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

func intersectsInts(want, have []int) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

// FilterCandidates returns the subset of items passing the normalized facet
// filters, preserving input order.
func FilterCandidates(items []types.Item, f types.Filters) []types.Item {
	out := make([]types.Item, 0, len(items))
	for _, item := range items {
		if MatchesFilters(item, f) {
			out = append(out, item)
		}
	}
	return out
}

// RankCandidates orders filtered candidates by ascending distance with
// ascending next-session time as the stable tiebreak, applies the radius cut
// and truncates to the page limit. When the strict radius cut would empty a
// non-empty candidate set, the nearest candidates are returned regardless of
// radius; the product never shows an artificially empty list.
func RankCandidates(items []types.Item, radiusMeters, limit int) []types.Item {
	ranked := make([]types.Item, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := ranked[i].DistanceM, ranked[j].DistanceM
		switch {
		case di == nil && dj == nil:
			// fall through to session tiebreak
		case di == nil:
			return false
		case dj == nil:
			return true
		case *di != *dj:
			return *di < *dj
		}
		si, sj := ranked[i].NextSessionAt, ranked[j].NextSessionAt
		switch {
		case si == nil || sj == nil:
			return si != nil && sj == nil
		default:
			return si.Before(*sj)
		}
	})

	if radiusMeters > 0 {
		within := ranked[:0:0]
		for _, item := range ranked {
			if item.DistanceM == nil || *item.DistanceM <= float64(radiusMeters) {
				within = append(within, item)
			}
		}
		if len(within) > 0 {
			ranked = within
		}
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ComputeFacets counts distinct values per facet dimension across the
// filtered candidate set, sorted by descending count with value as the
// deterministic tiebreak. Slices are always non-nil so clients see [] rather
// than null for empty dimensions.
func ComputeFacets(items []types.Item) types.Facets {
	activityTypes := map[string]int{}
	tags := map[string]int{}
	traits := map[string]int{}
	taxonomies := map[string]int{}
	priceLevels := map[string]int{}
	capacities := map[string]int{}
	windows := map[string]int{}

	for _, item := range items {
		countAll(activityTypes, item.ActivityTypes)
		countAll(tags, item.Tags)
		countAll(traits, item.Traits)
		countAll(taxonomies, item.TaxonomyCategories)
		for _, p := range item.PriceLevels {
			priceLevels[priceLevelLabel(p)]++
		}
		if item.CapacityKey != "" {
			capacities[item.CapacityKey]++
		}
		if item.TimeWindow != "" {
			windows[item.TimeWindow]++
		}
	}

	return types.Facets{
		ActivityTypes:      facetCounts(activityTypes),
		Tags:               facetCounts(tags),
		Traits:             facetCounts(traits),
		TaxonomyCategories: facetCounts(taxonomies),
		PriceLevels:        facetCounts(priceLevels),
		CapacityKeys:       facetCounts(capacities),
		TimeWindows:        facetCounts(windows),
	}
}

func countAll(counts map[string]int, values []string) {
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
}

func priceLevelLabel(p int) string {
	return strconv.Itoa(p)
}

func facetCounts(counts map[string]int) []types.FacetCount {
	out := make([]types.FacetCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, types.FacetCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// ComputeFilterSupport reports which facet dimensions the fetched candidates
// actually carry data for.
func ComputeFilterSupport(items []types.Item) types.FilterSupport {
	var support types.FilterSupport
	for _, item := range items {
		if len(item.ActivityTypes) > 0 {
			support.ActivityTypes = true
		}
		if len(item.Tags) > 0 {
			support.Tags = true
		}
		if len(item.Traits) > 0 {
			support.Traits = true
		}
		if len(item.TaxonomyCategories) > 0 {
			support.TaxonomyCategories = true
		}
		if len(item.PriceLevels) > 0 {
			support.PriceLevels = true
		}
		if item.CapacityKey != "" {
			support.CapacityKey = true
		}
		if item.TimeWindow != "" {
			support.TimeWindow = true
		}
	}
	return support
}

// ComputeSourceBreakdown counts items per provenance source.
func ComputeSourceBreakdown(items []types.Item) map[string]int {
	breakdown := map[string]int{}
	for _, item := range items {
		if item.Source != "" {
			breakdown[item.Source]++
		}
	}
	return breakdown
}
