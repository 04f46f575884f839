package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	placesrepo "github.com/dowhat/dowhat-backend/internal/data/repos/places"
	"github.com/dowhat/dowhat-backend/internal/domain/venues"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

// GoogleCacheTTL is shorter than Foursquare's; Google payloads carry reviews
// that churn faster.
const GoogleCacheTTL = 7 * 24 * time.Hour

type googleClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      placesrepo.CacheRepo
}

func NewGoogleClient(log *logger.Logger, cache placesrepo.CacheRepo) (VenueFetcher, error) {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_MAPS_API_KEY")
	}

	baseURL := os.Getenv("GOOGLE_MAPS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}

	timeoutSec := 10
	if v := os.Getenv("PLACES_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &googleClient{
		log:        log.With("service", "GooglePlacesClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		cache:      cache,
	}, nil
}

type googleDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string   `json:"place_id"`
		Name             string   `json:"name"`
		Rating           float64  `json:"rating"`
		PriceLevel       int      `json:"price_level"`
		Types            []string `json:"types"`
		EditorialSummary struct {
			Overview string `json:"overview"`
		} `json:"editorial_summary"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
		Reviews []struct {
			AuthorName string  `json:"author_name"`
			Rating     float64 `json:"rating"`
			Text       string  `json:"text"`
		} `json:"reviews"`
	} `json:"result"`
}

func (c *googleClient) FetchVenue(ctx context.Context, req FetchRequest) (*venues.ExternalVenueRecord, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("google place id required")
	}

	if !req.Force && c.cache != nil {
		cached, hit, err := c.cache.Get(ctx, venues.ProviderGoogle, req.ID)
		if err != nil {
			c.log.Warn("Place cache read failed", "error", err, "provider_id", req.ID)
		} else if hit {
			return cached, nil
		}
	}

	query := url.Values{}
	query.Set("place_id", req.ID)
	query.Set("key", c.apiKey)
	query.Set("fields", "place_id,name,rating,price_level,types,editorial_summary,geometry,photos,reviews")
	endpoint := fmt.Sprintf("%s/maps/api/place/details/json?%s", c.baseURL, query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpError{Provider: venues.ProviderGoogle, StatusCode: resp.StatusCode, Body: readBody(resp)}
	}

	var details googleDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("google places decode: %w", err)
	}
	switch details.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return nil, nil
	default:
		return nil, fmt.Errorf("google places status %q", details.Status)
	}

	record := normalizeGoogle(req.ID, &details)

	if c.cache != nil {
		if err := c.cache.Put(ctx, record, GoogleCacheTTL); err != nil {
			c.log.Warn("Place cache write failed", "error", err, "provider_id", req.ID)
		}
	}
	return record, nil
}

func normalizeGoogle(id string, details *googleDetailsResponse) *venues.ExternalVenueRecord {
	result := &details.Result
	record := &venues.ExternalVenueRecord{
		Provider:   venues.ProviderGoogle,
		ProviderID: id,
		Categories: []string{},
		Keywords:   []string{},
		Photos:     []string{},
		Reviews:    []venues.ExternalReview{},
	}
	if result.PlaceID != "" {
		record.ProviderID = result.PlaceID
	}
	if result.Name != "" {
		record.Name = &result.Name
	}
	if result.EditorialSummary.Overview != "" {
		record.Description = &result.EditorialSummary.Overview
	}
	if result.Rating > 0 {
		rating := result.Rating
		record.Rating = &rating
	}
	if result.PriceLevel > 0 {
		price := result.PriceLevel
		record.PriceLevel = &price
	}
	if result.Geometry.Location.Lat != 0 || result.Geometry.Location.Lng != 0 {
		lat := result.Geometry.Location.Lat
		lng := result.Geometry.Location.Lng
		record.Lat = &lat
		record.Lng = &lng
	}
	record.Categories = append(record.Categories, result.Types...)
	for _, photo := range result.Photos {
		if photo.PhotoReference != "" {
			record.Photos = append(record.Photos, photo.PhotoReference)
		}
	}
	for _, review := range result.Reviews {
		record.Reviews = append(record.Reviews, venues.ExternalReview{
			Author: review.AuthorName,
			Rating: review.Rating,
			Text:   review.Text,
		})
	}
	return record
}
