package discovery

import "time"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a south-west / north-east bounding box. A normalized Bounds always
// satisfies SW.Lat <= NE.Lat and SW.Lng <= NE.Lng.
type Bounds struct {
	SW LatLng `json:"sw"`
	NE LatLng `json:"ne"`
}

// Filters is the canonical facet filter set for a discovery request. List
// fields are lowercased, deduplicated and sorted; price levels are sorted
// integers in [1,4]; capacity key and time window are validated enum values.
type Filters struct {
	ActivityTypes      []string `json:"activityTypes"`
	Tags               []string `json:"tags"`
	Traits             []string `json:"traits"`
	TaxonomyCategories []string `json:"taxonomyCategories"`
	PriceLevels        []int    `json:"priceLevels"`
	CapacityKey        string   `json:"capacityKey"`
	TimeWindow         string   `json:"timeWindow"`
}

// Query is a discovery request after HTTP parsing. Bounds, when present,
// takes precedence over RadiusMeters for region resolution.
type Query struct {
	Center       LatLng  `json:"center"`
	RadiusMeters int     `json:"radiusMeters"`
	Limit        int     `json:"limit"`
	Bounds       *Bounds `json:"bounds,omitempty"`
	Filters      Filters `json:"filters"`
	Refresh      bool    `json:"-"`
}

// Item is one ranked discovery candidate.
type Item struct {
	ID                   string     `json:"id"`
	PlaceID              *string    `json:"place_id,omitempty"`
	Name                 string     `json:"name"`
	Venue                string     `json:"venue"`
	Address              string     `json:"address,omitempty"`
	PlaceLabel           string     `json:"place_label"`
	Lat                  float64    `json:"lat"`
	Lng                  float64    `json:"lng"`
	DistanceM            *float64   `json:"distance_m"`
	ActivityTypes        []string   `json:"activity_types"`
	Tags                 []string   `json:"tags"`
	Traits               []string   `json:"traits"`
	TaxonomyCategories   []string   `json:"taxonomy_categories"`
	PriceLevels          []int      `json:"price_levels"`
	CapacityKey          string     `json:"capacity_key"`
	TimeWindow           string     `json:"time_window"`
	UpcomingSessionCount int        `json:"upcoming_session_count"`
	NextSessionAt        *time.Time `json:"next_session_at,omitempty"`
	Source               string     `json:"source"`
}

// FacetCount is one distinct facet value and how many filtered candidates
// carry it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets holds per-dimension value counts over the filtered candidate set.
type Facets struct {
	ActivityTypes      []FacetCount `json:"activityTypes"`
	Tags               []FacetCount `json:"tags"`
	Traits             []FacetCount `json:"traits"`
	TaxonomyCategories []FacetCount `json:"taxonomyCategories"`
	PriceLevels        []FacetCount `json:"priceLevels"`
	CapacityKeys       []FacetCount `json:"capacityKeys"`
	TimeWindows        []FacetCount `json:"timeWindows"`
}

// FilterSupport reports which facet dimensions the backing data actually
// populated, so clients can grey out filters that would never match.
type FilterSupport struct {
	ActivityTypes      bool `json:"activityTypes"`
	Tags               bool `json:"tags"`
	Traits             bool `json:"traits"`
	TaxonomyCategories bool `json:"taxonomyCategories"`
	PriceLevels        bool `json:"priceLevels"`
	CapacityKey        bool `json:"capacityKey"`
	TimeWindow         bool `json:"timeWindow"`
}

// CacheInfo is attached to a result so clients can correlate refreshes.
type CacheInfo struct {
	Key string `json:"key"`
	Hit bool   `json:"hit"`
}

// Result is the full discovery response payload.
type Result struct {
	Center          LatLng         `json:"center"`
	RadiusMeters    int            `json:"radiusMeters"`
	Items           []Item         `json:"items"`
	FilterSupport   FilterSupport  `json:"filterSupport"`
	Facets          Facets         `json:"facets"`
	SourceBreakdown map[string]int `json:"sourceBreakdown"`
	Cache           *CacheInfo     `json:"cache,omitempty"`
	Source          string         `json:"source"`
}
