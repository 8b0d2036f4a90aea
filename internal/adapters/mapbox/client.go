package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventglobe/internal/adapters/httpclient"
	"eventglobe/internal/domain"
	"eventglobe/internal/metrics"
)

// DefaultBaseURL is the Mapbox API host.
const DefaultBaseURL = "https://api.mapbox.com"

const serviceName = "mapbox"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

type mapboxGeocoder struct {
	client      *http.Client
	baseURL     string
	accessToken string
}

// NewGeocoder returns a Geocoder backed by the Mapbox Places forward geocoding API.
// An empty baseURL uses DefaultBaseURL.
func NewGeocoder(client *http.Client, baseURL, accessToken string) domain.Geocoder {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &mapboxGeocoder{
		client:      client,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
	}
}

// Geocode resolves address to [lng, lat]. The address is sent as-is; a response
// without features yields (nil, nil).
func (g *mapboxGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	if g.accessToken == "" {
		return nil, fmt.Errorf("%w: no access token configured for Mapbox", domain.ErrConfiguration)
	}
	started := time.Now()
	coords, err := g.geocode(ctx, address)
	switch {
	case err != nil:
		metrics.ObserveUpstream(serviceName, metrics.OutcomeError, started)
	case coords == nil:
		metrics.ObserveUpstream(serviceName, metrics.OutcomeNoMatch, started)
	default:
		metrics.ObserveUpstream(serviceName, metrics.OutcomeSuccess, started)
	}
	return coords, err
}

func (g *mapboxGeocoder) geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	q := url.Values{}
	q.Set("access_token", g.accessToken)
	q.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", g.baseURL, url.PathEscape(address), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to create request: %w", httpclient.RedactError(err))}
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to geocode: %w", httpclient.RedactError(err))}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Err: errors.New("unexpected response status")}
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(data.Features) == 0 {
		return nil, nil
	}
	coords, err := domain.NewCoordinates(data.Features[0].Geometry.Coordinates)
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: err}
	}
	return coords, nil
}
