package domain

import (
	"context"
	"time"
)

// SavedEvent is the persisted subset of an EnrichedEvent. ID is assigned by the repository on create.
type SavedEvent struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Coordinates *Coordinates `json:"coordinates"`
	Date        EventDate    `json:"date"`
	Thumbnail   string       `json:"thumbnail"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewSavedEvent copies the persisted fields out of an enriched event.
func NewSavedEvent(e EnrichedEvent, createdAt time.Time) *SavedEvent {
	var coords *Coordinates
	if e.Coordinates != nil {
		c := *e.Coordinates
		coords = &c
	}
	return &SavedEvent{
		Title:       e.Title,
		Coordinates: coords,
		Date:        e.Date,
		Thumbnail:   e.Thumbnail,
		CreatedAt:   createdAt,
	}
}

// SavedEventRepository defines the interface for saved event storage.
// Create is append-only; Delete returns ErrNotFound when no event has the given ID.
type SavedEventRepository interface {
	Create(ctx context.Context, event *SavedEvent) error
	List(ctx context.Context) ([]*SavedEvent, error)
	Delete(ctx context.Context, id int64) error
}
