package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/dowhat/dowhat-backend/internal/clients/places"
	"github.com/dowhat/dowhat-backend/internal/discovery"
	"github.com/dowhat/dowhat-backend/internal/domain/venues"
	"github.com/dowhat/dowhat-backend/internal/http/response"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

// providerPriority decides which provider's scalar fields win when merging.
var providerPriority = []string{venues.ProviderFoursquare, venues.ProviderGoogle}

type VenueHandler struct {
	log        *logger.Logger
	foursquare places.VenueFetcher
	google     places.VenueFetcher
}

// NewVenueHandler accepts nil fetchers; a nil provider means its API key was
// not configured and requests naming it fail loudly instead of degrading.
func NewVenueHandler(log *logger.Logger, foursquare, google places.VenueFetcher) *VenueHandler {
	return &VenueHandler{
		log:        log.With("handler", "VenueHandler"),
		foursquare: foursquare,
		google:     google,
	}
}

// GET /api/venues/:provider/:id
func (h *VenueHandler) GetVenue(c *gin.Context) {
	fetcher, ok := h.fetcherFor(c.Param("provider"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "unknown_provider", nil)
		return
	}
	if fetcher == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "provider_not_configured", nil)
		return
	}

	record, err := fetcher.FetchVenue(c.Request.Context(), places.FetchRequest{
		ID:    c.Param("id"),
		Force: parseBool(c.Query("refresh")),
	})
	if err != nil {
		h.log.Error("GetVenue failed", "error", err, "provider", c.Param("provider"), "id", c.Param("id"))
		response.RespondError(c, http.StatusBadGateway, "provider_fetch_failed", err)
		return
	}
	if record == nil {
		response.RespondError(c, http.StatusNotFound, "venue_not_found", nil)
		return
	}
	response.RespondOK(c, record)
}

// GET /api/places/lookup?foursquareId=&googlePlaceId=&refresh=
//
// Fetches the requested providers concurrently (they are independent) and
// merges the records into one venue view.
func (h *VenueHandler) LookupVenue(c *gin.Context) {
	fsqID := c.Query("foursquareId")
	googleID := c.Query("googlePlaceId")
	if fsqID == "" && googleID == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_provider_id", nil)
		return
	}
	force := parseBool(c.Query("refresh"))

	if fsqID != "" && h.foursquare == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "provider_not_configured", nil)
		return
	}
	if googleID != "" && h.google == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "provider_not_configured", nil)
		return
	}

	var fsqRecord, googleRecord *venues.ExternalVenueRecord
	g, ctx := errgroup.WithContext(c.Request.Context())
	if fsqID != "" {
		g.Go(func() error {
			rec, err := h.foursquare.FetchVenue(ctx, places.FetchRequest{ID: fsqID, Force: force})
			fsqRecord = rec
			return err
		})
	}
	if googleID != "" {
		g.Go(func() error {
			rec, err := h.google.FetchVenue(ctx, places.FetchRequest{ID: googleID, Force: force})
			googleRecord = rec
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.log.Error("LookupVenue failed", "error", err)
		response.RespondError(c, http.StatusBadGateway, "provider_fetch_failed", err)
		return
	}

	records := make([]venues.ExternalVenueRecord, 0, 2)
	if fsqRecord != nil {
		records = append(records, *fsqRecord)
	}
	if googleRecord != nil {
		records = append(records, *googleRecord)
	}
	merged := discovery.MergeExternalVenues(records, providerPriority)
	if merged == nil {
		response.RespondError(c, http.StatusNotFound, "venue_not_found", nil)
		return
	}
	response.RespondOK(c, merged)
}

func (h *VenueHandler) fetcherFor(provider string) (places.VenueFetcher, bool) {
	switch provider {
	case venues.ProviderFoursquare:
		return h.foursquare, true
	case venues.ProviderGoogle:
		return h.google, true
	default:
		return nil, false
	}
}
