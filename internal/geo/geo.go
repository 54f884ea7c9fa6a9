// Package geo resolves the one-shot position passed to lead discovery.
package geo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/models"
)

const DefaultLookupURL = "http://ip-api.com/json"

// Locator produces the current position once.
type Locator interface {
	Locate(ctx context.Context) (*models.Coordinates, error)
}

// Static always returns the configured coordinates.
type Static struct {
	Coordinates models.Coordinates
}

func (s Static) Locate(ctx context.Context) (*models.Coordinates, error) {
	c := s.Coordinates
	return &c, nil
}

// Option configures an IPLookup.
type Option func(*IPLookup)

func WithHTTPClient(hc *http.Client) Option {
	return func(l *IPLookup) {
		l.http = hc
	}
}

// IPLookup approximates the position from the public IP address.
type IPLookup struct {
	url  string
	http *http.Client
}

func NewIPLookup(url string, opts ...Option) *IPLookup {
	if url == "" {
		url = DefaultLookupURL
	}
	l := &IPLookup{
		url:  url,
		http: &http.Client{Timeout: 5 * time.Second},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// lookupResponse accepts both the lat/lon and latitude/longitude spellings
// used by common IP geolocation services.
type lookupResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l *IPLookup) Locate(ctx context.Context) (*models.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geo: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geo: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geo: unexpected status %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "geo: unmarshal response")
	}
	if out.Status == "fail" {
		return nil, eris.Errorf("geo: lookup failed: %s", out.Message)
	}

	switch {
	case out.Lat != nil && out.Lon != nil:
		return &models.Coordinates{Latitude: *out.Lat, Longitude: *out.Lon}, nil
	case out.Latitude != nil && out.Longitude != nil:
		return &models.Coordinates{Latitude: *out.Latitude, Longitude: *out.Longitude}, nil
	}
	return nil, eris.New("geo: response carries no coordinates")
}

// Resolve runs l once. Any failure is logged and yields nil so searches
// proceed without geographic grounding.
func Resolve(ctx context.Context, l Locator) *models.Coordinates {
	if l == nil {
		return nil
	}
	c, err := l.Locate(ctx)
	if err != nil {
		zap.L().Warn("geolocation unavailable, searching without location", zap.Error(err))
		return nil
	}
	zap.L().Info("geolocation resolved",
		zap.Float64("latitude", c.Latitude),
		zap.Float64("longitude", c.Longitude),
	)
	return c
}
