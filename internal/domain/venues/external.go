package venues

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ProviderFoursquare = "foursquare"
	ProviderGoogle     = "google"
)

// ExternalReview is one peer review attached to an external venue record.
type ExternalReview struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// ExternalVenueRecord is the normalized shape every place provider is mapped
// into. Scalar fields are pointers so a merge can distinguish "absent" from
// zero values.
type ExternalVenueRecord struct {
	Provider    string           `json:"provider"`
	ProviderID  string           `json:"providerId"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Categories  []string         `json:"categories"`
	Keywords    []string         `json:"keywords"`
	Rating      *float64         `json:"rating"`
	PriceLevel  *int             `json:"priceLevel"`
	Lat         *float64         `json:"lat"`
	Lng         *float64         `json:"lng"`
	Photos      []string         `json:"photos"`
	Reviews     []ExternalReview `json:"reviews"`
}

// PlaceCacheEntry persists one provider payload per provider id. A row whose
// ExpiresAt is in the past is treated as a cache miss.
type PlaceCacheEntry struct {
	Provider   string         `gorm:"primaryKey;column:provider" json:"provider"`
	ProviderID string         `gorm:"primaryKey;column:provider_id" json:"provider_id"`
	Payload    datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	FetchedAt  time.Time      `gorm:"not null;column:fetched_at" json:"fetched_at"`
	ExpiresAt  time.Time      `gorm:"not null;column:expires_at;index" json:"expires_at"`
}

func (PlaceCacheEntry) TableName() string { return "place_cache" }
