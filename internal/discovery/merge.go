package discovery

import (
	"sort"
	"strings"

	"github.com/dowhat/dowhat-backend/internal/domain/venues"
)

const (
	// MaxMergedPhotos caps the unioned photo list on a merged record.
	MaxMergedPhotos = 10
	// MaxMergedReviews caps the unioned review list on a merged record.
	MaxMergedReviews = 20
)

// MergeExternalVenues combines records for the same physical venue from
// different providers into one. Scalar fields take the first non-null value
// in priority order; categories and keywords are unioned with
// case-insensitive dedupe, photos and reviews case-sensitively. Provider
// priority is explicit so call-site ordering cannot silently change results.
func MergeExternalVenues(records []venues.ExternalVenueRecord, providerPriority []string) *venues.ExternalVenueRecord {
	if len(records) == 0 {
		return nil
	}

	ordered := orderByPriority(records, providerPriority)

	merged := venues.ExternalVenueRecord{
		Provider:   ordered[0].Provider,
		ProviderID: ordered[0].ProviderID,
		Categories: []string{},
		Keywords:   []string{},
		Photos:     []string{},
		Reviews:    []venues.ExternalReview{},
	}

	seenCategory := map[string]bool{}
	seenKeyword := map[string]bool{}
	seenPhoto := map[string]bool{}
	seenReview := map[string]bool{}

	for _, rec := range ordered {
		if merged.Name == nil && rec.Name != nil && *rec.Name != "" {
			merged.Name = rec.Name
		}
		if merged.Description == nil && rec.Description != nil && *rec.Description != "" {
			merged.Description = rec.Description
		}
		if merged.Rating == nil && rec.Rating != nil {
			merged.Rating = rec.Rating
		}
		if merged.PriceLevel == nil && rec.PriceLevel != nil {
			merged.PriceLevel = rec.PriceLevel
		}
		if merged.Lat == nil && rec.Lat != nil {
			merged.Lat = rec.Lat
		}
		if merged.Lng == nil && rec.Lng != nil {
			merged.Lng = rec.Lng
		}

		for _, cat := range rec.Categories {
			key := strings.ToLower(strings.TrimSpace(cat))
			if key == "" || seenCategory[key] {
				continue
			}
			seenCategory[key] = true
			merged.Categories = append(merged.Categories, cat)
		}
		for _, kw := range rec.Keywords {
			key := strings.ToLower(strings.TrimSpace(kw))
			if key == "" || seenKeyword[key] {
				continue
			}
			seenKeyword[key] = true
			merged.Keywords = append(merged.Keywords, kw)
		}
		for _, photo := range rec.Photos {
			if photo == "" || seenPhoto[photo] {
				continue
			}
			seenPhoto[photo] = true
			if len(merged.Photos) < MaxMergedPhotos {
				merged.Photos = append(merged.Photos, photo)
			}
		}
		for _, review := range rec.Reviews {
			key := review.Author + "\x00" + review.Text
			if seenReview[key] {
				continue
			}
			seenReview[key] = true
			if len(merged.Reviews) < MaxMergedReviews {
				merged.Reviews = append(merged.Reviews, review)
			}
		}
	}

	return &merged
}

// orderByPriority stably sorts records so providers named earlier in the
// priority list come first; unlisted providers keep their input order after
// all listed ones.
func orderByPriority(records []venues.ExternalVenueRecord, providerPriority []string) []venues.ExternalVenueRecord {
	if len(providerPriority) == 0 {
		return records
	}
	rank := make(map[string]int, len(providerPriority))
	for i, p := range providerPriority {
		rank[p] = i
	}
	ordered := make([]venues.ExternalVenueRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, iok := rank[ordered[i].Provider]
		rj, jok := rank[ordered[j].Provider]
		if iok && jok {
			return ri < rj
		}
		return iok && !jok
	})
	return ordered
}
