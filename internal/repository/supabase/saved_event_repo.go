// Package supabase stores saved events through the Supabase REST (PostgREST) API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventglobe/internal/domain"
)

const table = "saved_events"

type savedEventRow struct {
	ID        int64     `json:"id,omitempty"`
	Title     string    `json:"title"`
	Longitude *float64  `json:"longitude"`
	Latitude  *float64  `json:"latitude"`
	StartDate string    `json:"start_date"`
	DateWhen  string    `json:"date_when"`
	Thumbnail string    `json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
}

func toRow(e *domain.SavedEvent) savedEventRow {
	row := savedEventRow{
		Title:     e.Title,
		StartDate: e.Date.StartDate,
		DateWhen:  e.Date.When,
		Thumbnail: e.Thumbnail,
		CreatedAt: e.CreatedAt,
	}
	if e.Coordinates != nil {
		lng, lat := e.Coordinates.Lng, e.Coordinates.Lat
		row.Longitude = &lng
		row.Latitude = &lat
	}
	return row
}

func (r savedEventRow) toDomain() *domain.SavedEvent {
	e := &domain.SavedEvent{
		ID:        r.ID,
		Title:     r.Title,
		Date:      domain.EventDate{StartDate: r.StartDate, When: r.DateWhen},
		Thumbnail: r.Thumbnail,
		CreatedAt: r.CreatedAt,
	}
	if r.Longitude != nil && r.Latitude != nil {
		e.Coordinates = &domain.Coordinates{Lng: *r.Longitude, Lat: *r.Latitude}
	}
	return e
}

type savedEventRepository struct {
	client  *http.Client
	baseURL string
	key     string
}

// NewSavedEventRepository returns a repository talking to the project at projectURL with the given API key.
func NewSavedEventRepository(client *http.Client, projectURL, key string) domain.SavedEventRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &savedEventRepository{
		client:  client,
		baseURL: strings.TrimSuffix(projectURL, "/") + "/rest/v1/" + table,
		key:     key,
	}
}

func (r *savedEventRepository) Create(ctx context.Context, e *domain.SavedEvent) error {
	body, err := json.Marshal(toRow(e))
	if err != nil {
		return fmt.Errorf("encode saved event: %w", err)
	}
	var rows []savedEventRow
	if err := r.do(ctx, http.MethodPost, r.baseURL, bytes.NewReader(body), &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("supabase: insert returned no rows")
	}
	e.ID = rows[0].ID
	return nil
}

func (r *savedEventRepository) List(ctx context.Context) ([]*domain.SavedEvent, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")
	var rows []savedEventRow
	if err := r.do(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil, &rows); err != nil {
		return nil, err
	}
	events := make([]*domain.SavedEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, nil
}

func (r *savedEventRepository) Delete(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	var rows []savedEventRow
	if err := r.do(ctx, http.MethodDelete, r.baseURL+"?"+q.Encode(), nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *savedEventRepository) do(ctx context.Context, method, endpoint string, body io.Reader, dest any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("supabase returned status %d: %s", resp.StatusCode, apiErr.Message)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode supabase response: %w", err)
	}
	return nil
}
