package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

// Coordinates is a geographic point. Its JSON form is [lng, lat], longitude first.
type Coordinates struct {
	Lng float64
	Lat float64
}

// NewCoordinates builds Coordinates from a [lng, lat] pair.
func NewCoordinates(pair []float64) (*Coordinates, error) {
	if len(pair) != 2 {
		return nil, fmt.Errorf("coordinates must have 2 elements, got %d", len(pair))
	}
	return &Coordinates{Lng: pair[0], Lat: pair[1]}, nil
}

// Pair returns the coordinates as [lng, lat].
func (c Coordinates) Pair() []float64 { return []float64{c.Lng, c.Lat} }

func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Pair())
}

func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	parsed, err := NewCoordinates(pair)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// Geocoder resolves a free-text address to coordinates.
// A nil result with a nil error means the provider found no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}
