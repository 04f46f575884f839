package venues

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is the primary geo-indexed row behind discovery. Facet arrays are
// stored as jsonb; values are written pre-normalized (lowercase, sorted).
type Activity struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlaceID              *string                     `gorm:"column:place_id;index" json:"place_id,omitempty"`
	Name                 string                      `gorm:"not null;column:name" json:"name"`
	VenueName            string                      `gorm:"column:venue_name" json:"venue_name"`
	Address              string                      `gorm:"column:address" json:"address"`
	Lat                  float64                     `gorm:"not null;column:lat;index:idx_activity_lat" json:"lat"`
	Lng                  float64                     `gorm:"not null;column:lng;index:idx_activity_lng" json:"lng"`
	ActivityTypes        datatypes.JSONSlice[string] `gorm:"column:activity_types;type:jsonb" json:"activity_types"`
	Tags                 datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb" json:"tags"`
	Traits               datatypes.JSONSlice[string] `gorm:"column:traits;type:jsonb" json:"traits"`
	TaxonomyCategories   datatypes.JSONSlice[string] `gorm:"column:taxonomy_categories;type:jsonb" json:"taxonomy_categories"`
	PriceLevels          datatypes.JSONSlice[int]    `gorm:"column:price_levels;type:jsonb" json:"price_levels"`
	CapacityKey          string                      `gorm:"column:capacity_key" json:"capacity_key"`
	TimeWindow           string                      `gorm:"column:time_window" json:"time_window"`
	UpcomingSessionCount int                         `gorm:"column:upcoming_session_count" json:"upcoming_session_count"`
	NextSessionAt        *time.Time                  `gorm:"column:next_session_at" json:"next_session_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Activity) TableName() string { return "activity" }
