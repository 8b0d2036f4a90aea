package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventglobe/internal/adapters/httpclient"
	"eventglobe/internal/domain"
	"eventglobe/internal/metrics"
)

const (
	// DefaultBaseURL is the SerpApi host.
	DefaultBaseURL = "https://serpapi.com"
	// PageSize is the number of results SerpApi returns per google_events page.
	PageSize = 10

	serviceName = "serpapi"
)

type searchResponse struct {
	EventsResults []domain.RawEvent `json:"events_results"`
	Events        []domain.RawEvent `json:"events"`
	Error         string            `json:"error"`
}

func (r searchResponse) results() []domain.RawEvent {
	if len(r.EventsResults) > 0 {
		return r.EventsResults
	}
	return r.Events
}

type serpAPISearcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewSearcher returns an EventSearcher that calls the SerpApi google_events engine.
// An empty baseURL uses DefaultBaseURL.
func NewSearcher(client *http.Client, baseURL, apiKey string, logger *slog.Logger) domain.EventSearcher {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serpAPISearcher{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Search fetches params.NumPages pages and concatenates them in page order.
// An empty page ends pagination. A failed page also ends it: the pages fetched
// so far are returned with a nil error and the failure is logged.
func (s *serpAPISearcher) Search(ctx context.Context, params domain.SearchParams) ([]domain.RawEvent, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key found for SerpApi", domain.ErrConfiguration)
	}
	numPages := params.NumPages
	if numPages < 1 {
		numPages = 1
	}

	query := s.baseQuery(params)
	all := make([]domain.RawEvent, 0, numPages*PageSize)
	for page := 0; page < numPages; page++ {
		query.Set("start", strconv.Itoa(page*PageSize))
		events, err := s.fetchPage(ctx, query)
		if err != nil {
			s.logger.WarnContext(ctx, "events search page failed, returning partial results",
				"city", params.City, "page", page+1, "fetched", len(all), "err", err)
			break
		}
		if len(events) == 0 {
			s.logger.DebugContext(ctx, "no events found on page", "city", params.City, "page", page+1)
			break
		}
		all = append(all, events...)
	}
	return all, nil
}

func (s *serpAPISearcher) baseQuery(params domain.SearchParams) url.Values {
	q := url.Values{}
	q.Set("engine", "google_events")
	q.Set("q", "events in "+params.City)
	q.Set("api_key", s.apiKey)
	if params.CountryCode != "" {
		q.Set("gl", params.CountryCode)
	}
	if params.LanguageCode != "" {
		q.Set("hl", params.LanguageCode)
	}
	if len(params.DateFilters) > 0 {
		q.Set("htichips", strings.Join(params.DateFilters, ","))
	}
	return q
}

func (s *serpAPISearcher) fetchPage(ctx context.Context, query url.Values) ([]domain.RawEvent, error) {
	started := time.Now()
	events, err := s.doFetchPage(ctx, query)
	if err != nil {
		metrics.ObserveUpstream(serviceName, metrics.OutcomeError, started)
		return nil, err
	}
	if len(events) == 0 {
		metrics.ObserveUpstream(serviceName, metrics.OutcomeNoMatch, started)
	} else {
		metrics.ObserveUpstream(serviceName, metrics.OutcomeSuccess, started)
	}
	return events, nil
}

func (s *serpAPISearcher) doFetchPage(ctx context.Context, query url.Values) ([]domain.RawEvent, error) {
	endpoint := s.baseURL + "/search.json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to create request: %w", httpclient.RedactError(err))}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to fetch events: %w", httpclient.RedactError(err))}
	}
	defer resp.Body.Close()

	var data searchResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "unexpected response status"
		if decodeErr == nil && data.Error != "" {
			msg = data.Error
		}
		return nil, &domain.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if decodeErr != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to decode response: %w", decodeErr)}
	}
	// SerpApi reports some failures, "no results" included, as a 200 with an error field.
	if data.Error != "" && len(data.results()) == 0 {
		return nil, &domain.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Err: errors.New(data.Error)}
	}
	return data.results(), nil
}
