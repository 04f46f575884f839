package server

import (
	"github.com/gin-gonic/gin"

	"github.com/dowhat/dowhat-backend/internal/http/handlers"
	"github.com/dowhat/dowhat-backend/internal/http/middleware"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log                *logger.Logger
	HealthHandler      *handlers.HealthHandler
	DiscoveryHandler   *handlers.DiscoveryHandler
	VenueHandler       *handlers.VenueHandler
	ReliabilityHandler *handlers.ReliabilityHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/discovery", cfg.DiscoveryHandler.Discover)
		api.GET("/places/lookup", cfg.VenueHandler.LookupVenue)
		api.GET("/venues/:provider/:id", cfg.VenueHandler.GetVenue)
		api.GET("/users/:id/reliability", cfg.ReliabilityHandler.GetUserReliability)
	}

	return router
}
