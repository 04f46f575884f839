package discovery

import (
	"reflect"
	"testing"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

func TestNormalizeRadius(t *testing.T) {
	small := 50.0
	large := 500000.0
	exact := 2500.4

	if got := NormalizeRadius(nil); got != DefaultRadiusMeters {
		t.Fatalf("nil radius: expected %d, got %d", DefaultRadiusMeters, got)
	}
	if got := NormalizeRadius(&small); got != MinRadiusMeters {
		t.Fatalf("small radius: expected %d, got %d", MinRadiusMeters, got)
	}
	if got := NormalizeRadius(&large); got != MaxRadiusMeters {
		t.Fatalf("large radius: expected %d, got %d", MaxRadiusMeters, got)
	}
	if got := NormalizeRadius(&exact); got != 2500 {
		t.Fatalf("rounding: expected 2500, got %d", got)
	}
}

func TestNormalizeListOrderIndependent(t *testing.T) {
	a := NormalizeList([]string{"b", "a"})
	b := NormalizeList([]string{"a", "b"})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("order changed output: %v vs %v", a, b)
	}
}

func TestNormalizeListCleansValues(t *testing.T) {
	got := NormalizeList([]string{" Yoga ", "yoga", "", "Climbing", "YOGA"})
	want := []string{"climbing", "yoga"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeFiltersIdempotent(t *testing.T) {
	raw := types.Filters{
		ActivityTypes:      []string{"Run", "run", " hike"},
		Tags:               []string{"OUTDOOR", "social "},
		Traits:             []string{"Friendly"},
		TaxonomyCategories: []string{"Sports", "sports"},
		PriceLevels:        []int{3, 1, 1, 9},
		CapacityKey:        "HUGE",
		TimeWindow:         "evening",
	}
	once := NormalizeFilters(raw)
	twice := NormalizeFilters(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalization not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if once.CapacityKey != FacetAny {
		t.Fatalf("unrecognized capacity key should map to %q, got %q", FacetAny, once.CapacityKey)
	}
	if once.TimeWindow != "evening" {
		t.Fatalf("valid time window should survive, got %q", once.TimeWindow)
	}
}

func TestNormalizePriceLevels(t *testing.T) {
	got := NormalizePriceLevels([]float64{3.4, 1, 1, 0, 5, 2.6})
	want := []int{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit: expected %d, got %d", DefaultLimit, got)
	}
	if got := NormalizeLimit(5000); got != MaxLimit {
		t.Fatalf("huge limit: expected %d, got %d", MaxLimit, got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("valid limit: expected 7, got %d", got)
	}
}
