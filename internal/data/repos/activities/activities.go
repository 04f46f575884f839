package activities

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
	"github.com/dowhat/dowhat-backend/internal/domain/venues"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

// Repo reads discovery candidates from the primary store. Rows are parsed
// into discovery items at this boundary so nothing loosely typed leaks into
// the pipeline.
type Repo interface {
	Nearby(ctx context.Context, center types.LatLng, radiusMeters, limitRows int, activityTypes, tags []string) ([]types.Item, error)
	WithinBounds(ctx context.Context, center types.LatLng, bounds types.Bounds, limitRows int) ([]types.Item, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

// nearbyRow is the shape returned by the activities_nearby SQL function: an
// activity row plus its server-computed distance.
type nearbyRow struct {
	venues.Activity
	DistanceM float64 `gorm:"column:distance_m"`
}

// Nearby calls the server-side geospatial function. Errors (missing
// function, permissions) are returned as-is so the engine can fall back.
func (r *repo) Nearby(ctx context.Context, center types.LatLng, radiusMeters, limitRows int, activityTypes, tags []string) ([]types.Item, error) {
	var rows []nearbyRow
	err := r.db.WithContext(ctx).
		Raw(
			`SELECT * FROM activities_nearby(?, ?, ?, ?, ?::jsonb, ?::jsonb)`,
			center.Lat, center.Lng, radiusMeters, limitRows,
			jsonArray(activityTypes), jsonArray(tags),
		).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]types.Item, 0, len(rows))
	for i := range rows {
		item := itemFromActivity(&rows[i].Activity)
		d := rows[i].DistanceM
		item.DistanceM = &d
		items = append(items, item)
	}
	return items, nil
}

// WithinBounds fetches a capped superset of rows inside the bounding box,
// nearest to center first, so the row cap never drops the closest candidates.
// Squared degree distance is monotonic enough for ordering at this scale;
// exact Haversine distances are computed by the caller.
func (r *repo) WithinBounds(ctx context.Context, center types.LatLng, bounds types.Bounds, limitRows int) ([]types.Item, error) {
	var rows []venues.Activity
	err := r.db.WithContext(ctx).
		Where("lat BETWEEN ? AND ?", bounds.SW.Lat, bounds.NE.Lat).
		Where("lng BETWEEN ? AND ?", bounds.SW.Lng, bounds.NE.Lng).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "((lat - ?) * (lat - ?) + (lng - ?) * (lng - ?)) ASC",
			Vars: []interface{}{center.Lat, center.Lat, center.Lng, center.Lng},
		}}).
		Limit(limitRows).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]types.Item, 0, len(rows))
	for i := range rows {
		items = append(items, itemFromActivity(&rows[i]))
	}
	return items, nil
}

func itemFromActivity(a *venues.Activity) types.Item {
	return types.Item{
		ID:                   a.ID.String(),
		PlaceID:              a.PlaceID,
		Name:                 a.Name,
		Venue:                a.VenueName,
		Address:              a.Address,
		Lat:                  a.Lat,
		Lng:                  a.Lng,
		ActivityTypes:        append([]string{}, a.ActivityTypes...),
		Tags:                 append([]string{}, a.Tags...),
		Traits:               append([]string{}, a.Traits...),
		TaxonomyCategories:   append([]string{}, a.TaxonomyCategories...),
		PriceLevels:          append([]int{}, a.PriceLevels...),
		CapacityKey:          a.CapacityKey,
		TimeWindow:           a.TimeWindow,
		UpcomingSessionCount: a.UpcomingSessionCount,
		NextSessionAt:        a.NextSessionAt,
	}
}

func jsonArray(values []string) string {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
