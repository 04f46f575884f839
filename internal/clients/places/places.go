package places

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dowhat/dowhat-backend/internal/domain/venues"
)

// FetchRequest identifies one provider venue. Force bypasses the cache read
// but the fetched payload is still written through.
type FetchRequest struct {
	ID    string
	Force bool
}

// VenueFetcher is the provider-facing contract the rest of the system
// consumes. A nil record with a nil error means the provider does not know
// the id.
type VenueFetcher interface {
	FetchVenue(ctx context.Context, req FetchRequest) (*venues.ExternalVenueRecord, error)
}

type httpError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, e.Body)
}

func readBody(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	return string(raw)
}
