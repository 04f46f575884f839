package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
	"github.com/dowhat/dowhat-backend/internal/http/response"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

// DiscoveryEngine is what the handler needs from the pipeline; narrow so
// tests can substitute a fake.
type DiscoveryEngine interface {
	Discover(ctx context.Context, q types.Query) (*types.Result, error)
}

type DiscoveryHandler struct {
	log    *logger.Logger
	engine DiscoveryEngine
}

func NewDiscoveryHandler(log *logger.Logger, engine DiscoveryEngine) *DiscoveryHandler {
	return &DiscoveryHandler{
		log:    log.With("handler", "DiscoveryHandler"),
		engine: engine,
	}
}

// GET /api/discovery
//
// Requests degrade rather than fail: unknown filter values map to neutral
// defaults and an over-strict radius falls back to nearest candidates. Only
// genuinely malformed input (no coordinates, unparseable or inverted bounds)
// is rejected.
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	q, err := parseDiscoveryQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_discovery_query", err)
		return
	}

	result, err := h.engine.Discover(c.Request.Context(), *q)
	if err != nil {
		h.log.Error("Discover failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "discovery_failed", err)
		return
	}
	response.RespondOK(c, result)
}

func parseDiscoveryQuery(c *gin.Context) (*types.Query, error) {
	var q types.Query

	bounds, err := parseBoundsParams(c.Query("sw"), c.Query("ne"))
	if err != nil {
		return nil, err
	}
	q.Bounds = bounds

	center, hasCenter, err := parseCenterParams(c.Query("lat"), c.Query("lng"))
	if err != nil {
		return nil, err
	}
	switch {
	case hasCenter:
		q.Center = center
	case bounds != nil:
		q.Center = types.LatLng{
			Lat: (bounds.SW.Lat + bounds.NE.Lat) / 2,
			Lng: (bounds.SW.Lng + bounds.NE.Lng) / 2,
		}
	default:
		return nil, fmt.Errorf("lat/lng or sw/ne coordinates are required")
	}

	if raw := c.Query("radius"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			q.RadiusMeters = int(math.Round(v))
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			q.Limit = v
		}
	}

	q.Filters = types.Filters{
		ActivityTypes:      splitCSV(c.Query("activityTypes")),
		Tags:               splitCSV(c.Query("tags")),
		Traits:             splitCSV(c.Query("traits")),
		TaxonomyCategories: splitCSV(c.Query("taxonomyCategories")),
		PriceLevels:        parseIntCSV(c.Query("priceLevels")),
		CapacityKey:        c.Query("capacityKey"),
		TimeWindow:         c.Query("timeWindow"),
	}
	q.Refresh = parseBool(c.Query("refresh"))

	return &q, nil
}

func parseCenterParams(latRaw, lngRaw string) (types.LatLng, bool, error) {
	if latRaw == "" && lngRaw == "" {
		return types.LatLng{}, false, nil
	}
	if latRaw == "" || lngRaw == "" {
		return types.LatLng{}, false, fmt.Errorf("both lat and lng are required")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return types.LatLng{}, false, fmt.Errorf("invalid lat %q", latRaw)
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return types.LatLng{}, false, fmt.Errorf("invalid lng %q", lngRaw)
	}
	return types.LatLng{Lat: lat, Lng: lng}, true, nil
}

// parseBoundsParams rejects malformed bounds outright; an inverted box is a
// caller bug, never silently corrected.
func parseBoundsParams(swRaw, neRaw string) (*types.Bounds, error) {
	if swRaw == "" && neRaw == "" {
		return nil, nil
	}
	if swRaw == "" || neRaw == "" {
		return nil, fmt.Errorf("both sw and ne are required for bounds")
	}
	sw, err := parseLatLngPair(swRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid sw: %w", err)
	}
	ne, err := parseLatLngPair(neRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid ne: %w", err)
	}
	if sw.Lat > ne.Lat || sw.Lng > ne.Lng {
		return nil, fmt.Errorf("bounds sw must be south-west of ne")
	}
	return &types.Bounds{SW: sw, NE: ne}, nil
}

func parseLatLngPair(raw string) (types.LatLng, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return types.LatLng{}, fmt.Errorf("expected \"lat,lng\", got %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return types.LatLng{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return types.LatLng{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return types.LatLng{Lat: lat, Lng: lng}, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIntCSV(raw string) []int {
	out := []int{}
	for _, p := range splitCSV(raw) {
		if v, err := strconv.Atoi(p); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
