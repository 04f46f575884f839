package discovery

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dowhat/dowhat-backend/internal/domain/venues"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestMergeExternalVenuesFirstNonNullWins(t *testing.T) {
	merged := MergeExternalVenues([]venues.ExternalVenueRecord{
		{Provider: venues.ProviderFoursquare, ProviderID: "f1", Name: strPtr("A"), Rating: nil},
		{Provider: venues.ProviderGoogle, ProviderID: "g1", Name: strPtr("B"), Rating: f64Ptr(4.5)},
	}, nil)

	if merged == nil {
		t.Fatalf("expected a merged record")
	}
	if *merged.Name != "A" {
		t.Fatalf("first non-null name should win, got %q", *merged.Name)
	}
	if merged.Rating == nil || *merged.Rating != 4.5 {
		t.Fatalf("nil rating should be skipped in favor of a later value")
	}
}

func TestMergeExternalVenuesProviderPriority(t *testing.T) {
	records := []venues.ExternalVenueRecord{
		{Provider: venues.ProviderGoogle, ProviderID: "g1", Name: strPtr("Google name")},
		{Provider: venues.ProviderFoursquare, ProviderID: "f1", Name: strPtr("Foursquare name")},
	}
	merged := MergeExternalVenues(records, []string{venues.ProviderFoursquare, venues.ProviderGoogle})
	if *merged.Name != "Foursquare name" {
		t.Fatalf("priority should reorder providers, got %q", *merged.Name)
	}
	if merged.Provider != venues.ProviderFoursquare {
		t.Fatalf("merged provenance should follow priority, got %q", merged.Provider)
	}
}

func TestMergeExternalVenuesUnionsArrays(t *testing.T) {
	merged := MergeExternalVenues([]venues.ExternalVenueRecord{
		{Provider: "foursquare", ProviderID: "f1", Categories: []string{"Coffee Shop", "Cafe"}, Keywords: []string{"latte"}},
		{Provider: "google", ProviderID: "g1", Categories: []string{"cafe", "Bakery"}, Keywords: []string{"Latte", "pastry"}},
	}, nil)

	wantCategories := []string{"Coffee Shop", "Cafe", "Bakery"}
	if !reflect.DeepEqual(merged.Categories, wantCategories) {
		t.Fatalf("categories: expected %v, got %v", wantCategories, merged.Categories)
	}
	wantKeywords := []string{"latte", "pastry"}
	if !reflect.DeepEqual(merged.Keywords, wantKeywords) {
		t.Fatalf("keywords: expected %v, got %v", wantKeywords, merged.Keywords)
	}
}

func TestMergeExternalVenuesCaps(t *testing.T) {
	var photos []string
	var reviews []venues.ExternalReview
	for i := 0; i < 30; i++ {
		photos = append(photos, fmt.Sprintf("photo-%d", i))
		reviews = append(reviews, venues.ExternalReview{Author: fmt.Sprintf("author-%d", i), Rating: 4, Text: "nice"})
	}
	merged := MergeExternalVenues([]venues.ExternalVenueRecord{
		{Provider: "google", ProviderID: "g1", Photos: photos, Reviews: reviews},
	}, nil)

	if len(merged.Photos) != MaxMergedPhotos {
		t.Fatalf("photos: expected cap %d, got %d", MaxMergedPhotos, len(merged.Photos))
	}
	if len(merged.Reviews) != MaxMergedReviews {
		t.Fatalf("reviews: expected cap %d, got %d", MaxMergedReviews, len(merged.Reviews))
	}
}

func TestMergeExternalVenuesEmpty(t *testing.T) {
	if MergeExternalVenues(nil, nil) != nil {
		t.Fatalf("no records should merge to nil")
	}
}
