package app

import (
	"github.com/dowhat/dowhat-backend/internal/http/handlers"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Discovery   *handlers.DiscoveryHandler
	Venue       *handlers.VenueHandler
	Reliability *handlers.ReliabilityHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      handlers.NewHealthHandler(),
		Discovery:   handlers.NewDiscoveryHandler(log, services.Discovery),
		Venue:       handlers.NewVenueHandler(log, clients.Foursquare, clients.Google),
		Reliability: handlers.NewReliabilityHandler(log, services.Reliability),
	}
}
