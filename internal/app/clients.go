package app

import (
	"github.com/dowhat/dowhat-backend/internal/clients/places"
	redisclient "github.com/dowhat/dowhat-backend/internal/clients/redis"
	"github.com/dowhat/dowhat-backend/internal/discovery"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

type Clients struct {
	ResultCache discovery.ResultCache
	Foursquare  places.VenueFetcher
	Google      places.VenueFetcher
}

// wireClients degrades gracefully: without Redis the result cache falls back
// to the in-process LRU, and a provider missing its API key stays nil so
// only requests naming it fail.
func wireClients(log *logger.Logger, repos Repos) Clients {
	log.Info("Wiring clients...")

	var cache discovery.ResultCache
	if rc, err := redisclient.NewResultCache(log); err != nil {
		log.Warn("Redis result cache unavailable, using in-memory cache", "error", err)
		cache = discovery.NewMemoryResultCache()
	} else {
		cache = rc
	}

	foursquare, err := places.NewFoursquareClient(log, repos.PlaceCache)
	if err != nil {
		log.Warn("Foursquare provider disabled", "error", err)
		foursquare = nil
	}
	google, err := places.NewGoogleClient(log, repos.PlaceCache)
	if err != nil {
		log.Warn("Google provider disabled", "error", err)
		google = nil
	}

	return Clients{
		ResultCache: cache,
		Foursquare:  foursquare,
		Google:      google,
	}
}
