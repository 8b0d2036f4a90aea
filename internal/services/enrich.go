package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"eventglobe/internal/domain"
	"eventglobe/internal/metrics"
)

// Enricher attaches geocoded coordinates to every event of a batch.
type Enricher struct {
	geocoder    domain.Geocoder
	callTimeout time.Duration
	maxInFlight int
	logger      *slog.Logger
}

// NewEnricher returns an Enricher. callTimeout bounds each geocode call; maxInFlight
// caps outstanding calls, with zero or less meaning no cap.
func NewEnricher(geocoder domain.Geocoder, callTimeout time.Duration, maxInFlight int, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		geocoder:    geocoder,
		callTimeout: callTimeout,
		maxInFlight: maxInFlight,
		logger:      logger,
	}
}

// Enrich geocodes all events concurrently and returns them in input order.
// A failed or unmatched address leaves that event's coordinates nil; it never
// drops the event or fails the batch.
func (e *Enricher) Enrich(ctx context.Context, events []domain.RawEvent) []domain.EnrichedEvent {
	started := time.Now()
	out := make([]domain.EnrichedEvent, len(events))

	var g errgroup.Group
	if e.maxInFlight > 0 {
		g.SetLimit(e.maxInFlight)
	}
	for i := range events {
		out[i].RawEvent = events[i]
		address := events[i].AddressLine()
		g.Go(func() error {
			out[i].Coordinates = e.resolve(ctx, i, address)
			return nil
		})
	}
	_ = g.Wait()

	metrics.EnrichmentBatchSize.Observe(float64(len(events)))
	metrics.EnrichmentDuration.Observe(time.Since(started).Seconds())
	return out
}

func (e *Enricher) resolve(ctx context.Context, index int, address string) *domain.Coordinates {
	if e.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
	}
	coords, err := e.geocoder.Geocode(ctx, address)
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			e.logger.WarnContext(ctx, "geocode failed", "index", index, "address", address, "service", upErr.Service, "status", upErr.StatusCode, "err", err)
		} else {
			e.logger.ErrorContext(ctx, "geocode failed", "index", index, "address", address, "err", err)
		}
		return nil
	}
	if coords == nil {
		e.logger.DebugContext(ctx, "geocode found no match", "index", index, "address", address)
	}
	return coords
}
