package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

type fakeEngine struct {
	lastQuery types.Query
	result    *types.Result
	err       error
}

func (f *fakeEngine) Discover(_ context.Context, q types.Query) (*types.Result, error) {
	f.lastQuery = q
	return f.result, f.err
}

func discoveryRequest(t *testing.T, engine *fakeEngine, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	h := NewDiscoveryHandler(logger.NewNop(), engine)
	router.GET("/api/discovery", h.Discover)

	req := httptest.NewRequest(http.MethodGet, "/api/discovery?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDiscoverRejectsMissingCoordinates(t *testing.T) {
	rec := discoveryRequest(t, &fakeEngine{}, "radius=2000")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_discovery_query") {
		t.Fatalf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestDiscoverRejectsMalformedBounds(t *testing.T) {
	cases := []string{
		"sw=13.7,100.5",               // missing ne
		"sw=13.7&ne=13.8,100.6",       // sw not a pair
		"sw=13.7,abc&ne=13.8,100.6",   // unparseable longitude
		"sw=13.9,100.5&ne=13.8,100.6", // inverted latitudes
		"sw=13.7,100.9&ne=13.8,100.6", // inverted longitudes
	}
	for _, qs := range cases {
		if rec := discoveryRequest(t, &fakeEngine{}, qs); rec.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", qs, rec.Code)
		}
	}
}

func TestDiscoverCenterFromBoundsMidpoint(t *testing.T) {
	engine := &fakeEngine{result: &types.Result{}}
	rec := discoveryRequest(t, engine, "sw=13.0,100.0&ne=14.0,101.0")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if engine.lastQuery.Center.Lat != 13.5 || engine.lastQuery.Center.Lng != 100.5 {
		t.Fatalf("center should be the bounds midpoint, got %+v", engine.lastQuery.Center)
	}
	if engine.lastQuery.Bounds == nil {
		t.Fatalf("explicit bounds should be forwarded")
	}
}

func TestDiscoverForwardsFiltersAndFlags(t *testing.T) {
	engine := &fakeEngine{result: &types.Result{}}
	rec := discoveryRequest(t, engine,
		"lat=13.75&lng=100.55&radius=3000&limit=5"+
			"&activityTypes=run,hike&priceLevels=1,2&capacityKey=small&timeWindow=morning&refresh=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	q := engine.lastQuery
	if q.RadiusMeters != 3000 || q.Limit != 5 {
		t.Fatalf("radius/limit not forwarded: %+v", q)
	}
	if len(q.Filters.ActivityTypes) != 2 || len(q.Filters.PriceLevels) != 2 {
		t.Fatalf("csv filters not forwarded: %+v", q.Filters)
	}
	if q.Filters.CapacityKey != "small" || q.Filters.TimeWindow != "morning" {
		t.Fatalf("enum filters not forwarded: %+v", q.Filters)
	}
	if !q.Refresh {
		t.Fatalf("refresh flag not forwarded")
	}
}

func TestDiscoverResponseShape(t *testing.T) {
	d := 150.0
	engine := &fakeEngine{result: &types.Result{
		Center:       types.LatLng{Lat: 13.75, Lng: 100.55},
		RadiusMeters: 2000,
		Items: []types.Item{
			{ID: "a1", PlaceLabel: "Lumpini Park", DistanceM: &d, Source: "postgis"},
		},
		FilterSupport: types.FilterSupport{ActivityTypes: true},
		Facets:        types.Facets{ActivityTypes: []types.FacetCount{{Value: "run", Count: 1}}},
		Cache:         &types.CacheInfo{Key: "k", Hit: true},
		Source:        "postgis",
	}}

	rec := discoveryRequest(t, engine, "lat=13.75&lng=100.55")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	for _, key := range []string{"items", "filterSupport", "facets", "cache", "source"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("response missing %q: %s", key, rec.Body.String())
		}
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(body["items"], &items); err != nil || len(items) != 1 {
		t.Fatalf("unexpected items payload: %s", body["items"])
	}
	for _, key := range []string{"place_label", "distance_m"} {
		if _, ok := items[0][key]; !ok {
			t.Fatalf("item missing %q: %s", key, body["items"])
		}
	}
}

func TestDiscoverEngineFailure(t *testing.T) {
	engine := &fakeEngine{err: context.DeadlineExceeded}
	rec := discoveryRequest(t, engine, "lat=13.75&lng=100.55")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "discovery_failed") {
		t.Fatalf("expected error code in body, got %s", rec.Body.String())
	}
}
