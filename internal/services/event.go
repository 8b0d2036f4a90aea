package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventglobe/internal/domain"
	"eventglobe/internal/metrics"
)

type eventService struct {
	searcher       domain.EventSearcher
	enricher       *Enricher
	savedRepo      domain.SavedEventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(searcher domain.EventSearcher,
	enricher *Enricher,
	savedRepo domain.SavedEventRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		searcher:       searcher,
		enricher:       enricher,
		savedRepo:      savedRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) SearchEvents(ctx context.Context, params domain.SearchParams) ([]domain.EnrichedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	params.City = strings.TrimSpace(params.City)
	if params.City == "" {
		return nil, fmt.Errorf("%w: city is required", domain.ErrInvalidInput)
	}

	raw, err := s.searcher.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if len(raw) == 0 {
		return []domain.EnrichedEvent{}, nil
	}
	return s.enricher.Enrich(ctx, raw), nil
}

func (s *eventService) SaveEvent(ctx context.Context, event domain.EnrichedEvent) (*domain.SavedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(event.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	saved := domain.NewSavedEvent(event, s.now().UTC())
	err := s.savedRepo.Create(ctx, saved)
	metrics.ObserveStore("create", err)
	if err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	return saved, nil
}

func (s *eventService) ListSavedEvents(ctx context.Context) ([]*domain.SavedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.savedRepo.List(ctx)
	metrics.ObserveStore("list", err)
	if err != nil {
		return nil, fmt.Errorf("list saved events: %w", err)
	}
	if events == nil {
		events = []*domain.SavedEvent{}
	}
	return events, nil
}

func (s *eventService) DeleteSavedEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := s.savedRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.ObserveStore("delete", nil)
		return domain.ErrNotFound
	}
	metrics.ObserveStore("delete", err)
	if err != nil {
		return fmt.Errorf("delete saved event: %w", err)
	}
	return nil
}
