package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// AddressSeparator joins an event's address lines into a single geocoding query.
const AddressSeparator = ", "

// EventDate is the date descriptor returned by the events-search provider.
type EventDate struct {
	StartDate string `json:"start_date"`
	When      string `json:"when"`
}

// RawEvent is a single event record as returned by the events-search provider.
// Fields the service does not interpret are kept in Extra and written back out untouched.
type RawEvent struct {
	Title     string
	Address   []string
	Date      EventDate
	Thumbnail string
	Extra     map[string]json.RawMessage
}

// knownEventFields are the keys RawEvent decodes into typed fields.
var knownEventFields = map[string]struct{}{
	"title":     {},
	"address":   {},
	"date":      {},
	"thumbnail": {},
}

// AddressLine joins the address lines with AddressSeparator. An empty list yields "".
func (e RawEvent) AddressLine() string {
	return strings.Join(e.Address, AddressSeparator)
}

func (e *RawEvent) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*e = RawEvent{}
	decodeLoose(fields["title"], &e.Title)
	decodeLoose(fields["address"], &e.Address)
	decodeLoose(fields["date"], &e.Date)
	decodeLoose(fields["thumbnail"], &e.Thumbnail)
	for k, v := range fields {
		if _, known := knownEventFields[k]; known {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]json.RawMessage)
		}
		e.Extra[k] = v
	}
	return nil
}

func (e RawEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.fields())
}

// fields flattens the typed fields and Extra into one JSON object.
func (e RawEvent) fields() map[string]any {
	out := make(map[string]any, len(e.Extra)+5)
	for k, v := range e.Extra {
		out[k] = v
	}
	address := e.Address
	if address == nil {
		address = []string{}
	}
	out["title"] = e.Title
	out["address"] = address
	out["date"] = e.Date
	out["thumbnail"] = e.Thumbnail
	return out
}

// decodeLoose decodes v into dst. A missing, null or mistyped value leaves dst at
// its zero value, so one odd field never costs the rest of a provider page.
func decodeLoose[T any](v json.RawMessage, dst *T) {
	if len(v) == 0 || isNull(v) {
		return
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return
	}
	*dst = out
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// EnrichedEvent is a RawEvent with the geocoded coordinates of its address attached.
// Coordinates is nil when the address could not be resolved.
type EnrichedEvent struct {
	RawEvent
	Coordinates *Coordinates
}

func (e *EnrichedEvent) UnmarshalJSON(data []byte) error {
	var raw RawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var coords *Coordinates
	if v, ok := raw.Extra["coordinates"]; ok {
		if !isNull(v) {
			coords = &Coordinates{}
			if err := json.Unmarshal(v, coords); err != nil {
				return fmt.Errorf("coordinates: %w", err)
			}
		}
		delete(raw.Extra, "coordinates")
		if len(raw.Extra) == 0 {
			raw.Extra = nil
		}
	}
	*e = EnrichedEvent{RawEvent: raw, Coordinates: coords}
	return nil
}

// MarshalJSON always emits the coordinates key, null when unresolved.
func (e EnrichedEvent) MarshalJSON() ([]byte, error) {
	out := e.RawEvent.fields()
	out["coordinates"] = e.Coordinates
	return json.Marshal(out)
}

// SearchParams are the inputs of an events search.
type SearchParams struct {
	City         string
	DateFilters  []string
	CountryCode  string
	LanguageCode string
	NumPages     int
}

// EventSearcher queries an events-search provider (or a test double).
type EventSearcher interface {
	Search(ctx context.Context, params SearchParams) ([]RawEvent, error)
}

// EventService is the application service behind the HTTP API.
type EventService interface {
	SearchEvents(ctx context.Context, params SearchParams) ([]EnrichedEvent, error)
	SaveEvent(ctx context.Context, event EnrichedEvent) (*SavedEvent, error)
	ListSavedEvents(ctx context.Context) ([]*SavedEvent, error)
	DeleteSavedEvent(ctx context.Context, id int64) error
}
