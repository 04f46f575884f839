package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	placesrepo "github.com/dowhat/dowhat-backend/internal/data/repos/places"
	"github.com/dowhat/dowhat-backend/internal/domain/venues"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

// FoursquareCacheTTL is how long a fetched Foursquare payload stays fresh.
const FoursquareCacheTTL = 30 * 24 * time.Hour

type foursquareClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      placesrepo.CacheRepo
}

// NewFoursquareClient fails fast when the API key is absent; a missing key
// is a configuration error for this provider only.
func NewFoursquareClient(log *logger.Logger, cache placesrepo.CacheRepo) (VenueFetcher, error) {
	apiKey := os.Getenv("FOURSQUARE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing FOURSQUARE_API_KEY")
	}

	baseURL := os.Getenv("FOURSQUARE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.foursquare.com"
	}

	timeoutSec := 10
	if v := os.Getenv("PLACES_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &foursquareClient{
		log:        log.With("service", "FoursquareClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		cache:      cache,
	}, nil
}

type foursquarePlace struct {
	FsqID       string  `json:"fsq_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Price       int     `json:"price"`
	Categories  []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Geocodes struct {
		Main struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Photos []struct {
		Prefix string `json:"prefix"`
		Suffix string `json:"suffix"`
	} `json:"photos"`
	Tastes []string `json:"tastes"`
}

func (c *foursquareClient) FetchVenue(ctx context.Context, req FetchRequest) (*venues.ExternalVenueRecord, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("foursquare venue id required")
	}

	if !req.Force && c.cache != nil {
		cached, hit, err := c.cache.Get(ctx, venues.ProviderFoursquare, req.ID)
		if err != nil {
			c.log.Warn("Place cache read failed", "error", err, "provider_id", req.ID)
		} else if hit {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/v3/places/%s?fields=fsq_id,name,description,rating,price,categories,geocodes,photos,tastes", c.baseURL, req.ID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("foursquare request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpError{Provider: venues.ProviderFoursquare, StatusCode: resp.StatusCode, Body: readBody(resp)}
	}

	var place foursquarePlace
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		return nil, fmt.Errorf("foursquare decode: %w", err)
	}

	record := normalizeFoursquare(req.ID, &place)

	if c.cache != nil {
		if err := c.cache.Put(ctx, record, FoursquareCacheTTL); err != nil {
			c.log.Warn("Place cache write failed", "error", err, "provider_id", req.ID)
		}
	}
	return record, nil
}

func normalizeFoursquare(id string, place *foursquarePlace) *venues.ExternalVenueRecord {
	record := &venues.ExternalVenueRecord{
		Provider:   venues.ProviderFoursquare,
		ProviderID: id,
		Categories: []string{},
		Keywords:   []string{},
		Photos:     []string{},
		Reviews:    []venues.ExternalReview{},
	}
	if place.FsqID != "" {
		record.ProviderID = place.FsqID
	}
	if place.Name != "" {
		record.Name = &place.Name
	}
	if place.Description != "" {
		record.Description = &place.Description
	}
	if place.Rating > 0 {
		// Foursquare rates on a 10-point scale; the normalized record uses
		// the 5-point scale shared with Google.
		rating := place.Rating / 2
		record.Rating = &rating
	}
	if place.Price > 0 {
		price := place.Price
		record.PriceLevel = &price
	}
	if place.Geocodes.Main.Latitude != 0 || place.Geocodes.Main.Longitude != 0 {
		lat := place.Geocodes.Main.Latitude
		lng := place.Geocodes.Main.Longitude
		record.Lat = &lat
		record.Lng = &lng
	}
	for _, cat := range place.Categories {
		if cat.Name != "" {
			record.Categories = append(record.Categories, cat.Name)
		}
	}
	record.Keywords = append(record.Keywords, place.Tastes...)
	for _, photo := range place.Photos {
		if photo.Prefix != "" && photo.Suffix != "" {
			record.Photos = append(record.Photos, photo.Prefix+"original"+photo.Suffix)
		}
	}
	return record
}
