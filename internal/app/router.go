package app

import (
	"github.com/gin-gonic/gin"

	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
	"github.com/dowhat/dowhat-backend/internal/server"
)

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                log,
		HealthHandler:      handlers.Health,
		DiscoveryHandler:   handlers.Discovery,
		VenueHandler:       handlers.Venue,
		ReliabilityHandler: handlers.Reliability,
	})
}
