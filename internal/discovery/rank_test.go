package discovery

import (
	"testing"
	"time"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

func itemAt(id string, distance float64) types.Item {
	d := distance
	return types.Item{ID: id, DistanceM: &d}
}

func TestPlaceLabelFallback(t *testing.T) {
	if got := PlaceLabel("", "", ""); got != UnnamedPlaceLabel {
		t.Fatalf("expected sentinel label, got %q", got)
	}
	if got := PlaceLabel("Morning Run", "Lumpini Park", ""); got != "Morning Run" {
		t.Fatalf("name should win, got %q", got)
	}
	if got := PlaceLabel("", "Lumpini Park", "Rama IV Rd"); got != "Lumpini Park" {
		t.Fatalf("venue should beat address, got %q", got)
	}
	if got := PlaceLabel("", "", "Rama IV Rd"); got != "Rama IV Rd" {
		t.Fatalf("address should beat sentinel, got %q", got)
	}
}

func TestMatchesFiltersConjunctive(t *testing.T) {
	item := types.Item{
		ActivityTypes: []string{"run"},
		Tags:          []string{"outdoor", "social"},
		CapacityKey:   "small",
		TimeWindow:    "morning",
		PriceLevels:   []int{1},
	}

	pass := types.Filters{ActivityTypes: []string{"run"}, Tags: []string{"social"}, CapacityKey: "small"}
	if !MatchesFilters(item, pass) {
		t.Fatalf("item should pass matching filters")
	}

	failType := types.Filters{ActivityTypes: []string{"swim"}, Tags: []string{"social"}}
	if MatchesFilters(item, failType) {
		t.Fatalf("one failing dimension should reject the item")
	}

	anyCapacity := types.Filters{CapacityKey: FacetAny, TimeWindow: FacetAny}
	if !MatchesFilters(item, anyCapacity) {
		t.Fatalf("neutral enum values should not constrain")
	}

	failPrice := types.Filters{PriceLevels: []int{4}}
	if MatchesFilters(item, failPrice) {
		t.Fatalf("non-intersecting price levels should reject the item")
	}
}

func TestRankCandidatesOrdering(t *testing.T) {
	soon := time.Now().Add(time.Hour)
	later := time.Now().Add(3 * time.Hour)

	near := itemAt("near", 100)
	far := itemAt("far", 900)
	tieSoon := itemAt("tie-soon", 500)
	tieSoon.NextSessionAt = &soon
	tieLater := itemAt("tie-later", 500)
	tieLater.NextSessionAt = &later

	ranked := RankCandidates([]types.Item{far, tieLater, near, tieSoon}, 2000, 10)
	wantOrder := []string{"near", "tie-soon", "tie-later", "far"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, ranked[i].ID)
		}
	}
}

func TestRankCandidatesRadiusFallback(t *testing.T) {
	lone := itemAt("lone", 5000)
	ranked := RankCandidates([]types.Item{lone}, 100, 10)
	if len(ranked) != 1 || ranked[0].ID != "lone" {
		t.Fatalf("nearest-regardless-of-radius fallback should fire, got %+v", ranked)
	}
}

func TestRankCandidatesRadiusCut(t *testing.T) {
	ranked := RankCandidates([]types.Item{itemAt("near", 50), itemAt("far", 5000)}, 100, 10)
	if len(ranked) != 1 || ranked[0].ID != "near" {
		t.Fatalf("far candidate should be cut when near ones exist, got %+v", ranked)
	}
}

func TestRankCandidatesLimit(t *testing.T) {
	ranked := RankCandidates([]types.Item{itemAt("a", 1), itemAt("b", 2), itemAt("c", 3)}, 0, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected page of 2, got %d", len(ranked))
	}
}

func TestComputeFacetsCountsSum(t *testing.T) {
	items := []types.Item{
		{ActivityTypes: []string{"run"}},
		{ActivityTypes: []string{"run"}},
		{ActivityTypes: []string{"hike"}},
	}
	facets := ComputeFacets(items)

	total := 0
	for _, fc := range facets.ActivityTypes {
		total += fc.Count
	}
	if total != len(items) {
		t.Fatalf("single-valued facet counts should sum to item count: %d != %d", total, len(items))
	}
	if facets.ActivityTypes[0].Value != "run" || facets.ActivityTypes[0].Count != 2 {
		t.Fatalf("expected run first with count 2, got %+v", facets.ActivityTypes[0])
	}
	if facets.Tags == nil {
		t.Fatalf("empty facet dimensions must be [] not nil")
	}
}

func TestComputeFilterSupport(t *testing.T) {
	items := []types.Item{
		{Tags: []string{"outdoor"}},
		{TimeWindow: "evening"},
	}
	support := ComputeFilterSupport(items)
	if !support.Tags || !support.TimeWindow {
		t.Fatalf("populated dimensions should be supported: %+v", support)
	}
	if support.CapacityKey || support.ActivityTypes {
		t.Fatalf("unpopulated dimensions should not be supported: %+v", support)
	}
}

func TestComputeSourceBreakdown(t *testing.T) {
	items := []types.Item{
		{Source: SourcePostGIS},
		{Source: SourcePostGIS},
		{Source: SourceClientFilter},
	}
	breakdown := ComputeSourceBreakdown(items)
	if breakdown[SourcePostGIS] != 2 || breakdown[SourceClientFilter] != 1 {
		t.Fatalf("unexpected breakdown: %v", breakdown)
	}
}
