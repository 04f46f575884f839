package places

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dowhat/dowhat-backend/internal/domain/venues"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

// CacheRepo persists provider payloads keyed by provider id. Rows past their
// expiry read as misses; writes are upserts so concurrent writers converge.
type CacheRepo interface {
	Get(ctx context.Context, provider, providerID string) (*venues.ExternalVenueRecord, bool, error)
	Put(ctx context.Context, record *venues.ExternalVenueRecord, ttl time.Duration) error
}

type cacheRepo struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewCacheRepo(db *gorm.DB, baseLog *logger.Logger) CacheRepo {
	return &cacheRepo{db: db, log: baseLog.With("repo", "PlaceCacheRepo"), now: time.Now}
}

func (r *cacheRepo) Get(ctx context.Context, provider, providerID string) (*venues.ExternalVenueRecord, bool, error) {
	var entry venues.PlaceCacheEntry
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	if entry.ExpiresAt.Before(r.now()) {
		return nil, false, nil
	}

	var record venues.ExternalVenueRecord
	if err := json.Unmarshal(entry.Payload, &record); err != nil {
		// A corrupt payload is a miss, not a failure; the next fetch
		// overwrites it.
		r.log.Warn("Discarding unreadable cached payload", "provider", provider, "provider_id", providerID, "error", err)
		return nil, false, nil
	}
	return &record, true, nil
}

func (r *cacheRepo) Put(ctx context.Context, record *venues.ExternalVenueRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	now := r.now()
	entry := venues.PlaceCacheEntry{
		Provider:   record.Provider,
		ProviderID: record.ProviderID,
		Payload:    payload,
		FetchedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at", "expires_at"}),
		}).
		Create(&entry).Error
}
