package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"eventglobe/internal/delivery/http/helpers"
	"eventglobe/internal/domain"
)

// SearchEventsResponse is the response body for GET /search.
type SearchEventsResponse struct {
	Events []domain.EnrichedEvent `json:"events"`
}

// SaveEventRequest is the request body for POST /save_event: an event as returned by
// GET /search. Unknown provider fields are accepted and ignored.
type SaveEventRequest struct {
	domain.EnrichedEvent
}

// Validate implements Validator.
func (req SaveEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	return errs
}

// SaveEventResponse is the response body for POST /save_event (201).
type SaveEventResponse struct {
	Message string            `json:"message"`
	Event   *domain.SavedEvent `json:"event"`
}

// SavedEventsResponse is the response body for GET /saved_events.
type SavedEventsResponse struct {
	Events []*domain.SavedEvent `json:"events"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// SearchEvents godoc
// @Summary Search events in a city
// @Description Searches the events provider for a city and attaches [lng, lat] coordinates to every event. Events whose address cannot be geocoded have coordinates null.
// @Tags events
// @Produce json
// @Param city query string true "City name"
// @Param date_filters query string false "Comma-separated date filters, e.g. date:today,date:weekend"
// @Param country_code query string false "Country code (gl)"
// @Param language_code query string false "Language code (hl)"
// @Param num_pages query int false "Number of provider pages to fetch (1-10)" default(1)
// @Success 200 {object} controllers.SearchEventsResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /search [get]
func (c *EventController) SearchEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city := strings.TrimSpace(q.Get("city"))
	if city == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "city is required")
		return
	}
	numPages, err := helpers.ParseNumPages(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	params := domain.SearchParams{
		City:         city,
		DateFilters:  helpers.ParseList(r, "date_filters"),
		CountryCode:  strings.TrimSpace(q.Get("country_code")),
		LanguageCode: strings.TrimSpace(q.Get("language_code")),
		NumPages:     numPages,
	}
	events, err := c.Service.SearchEvents(r.Context(), params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SearchEventsResponse{Events: events})
}

// SaveEvent godoc
// @Summary Save an event
// @Description Persists the title, coordinates, date and thumbnail of an event returned by /search.
// @Tags saved-events
// @Accept json
// @Produce json
// @Param event body object true "Event object as returned by /search"
// @Success 201 {object} controllers.SaveEventResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /save_event [post]
func (c *EventController) SaveEvent(w http.ResponseWriter, r *http.Request) {
	var req SaveEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	saved, err := c.Service.SaveEvent(r.Context(), req.EnrichedEvent)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, SaveEventResponse{Message: "Event saved", Event: saved})
}

// ListSavedEvents godoc
// @Summary List saved events
// @Tags saved-events
// @Produce json
// @Success 200 {object} controllers.SavedEventsResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /saved_events [get]
func (c *EventController) ListSavedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListSavedEvents(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SavedEventsResponse{Events: events})
}

// DeleteSavedEvent godoc
// @Summary Delete a saved event
// @Tags saved-events
// @Produce json
// @Param id path int true "Saved event ID"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /delete_event/{id} [delete]
func (c *EventController) DeleteSavedEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "id must be a positive integer")
		return
	}
	if err := c.Service.DeleteSavedEvent(r.Context(), id); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.MessageResponse{Message: "Event deleted"})
}

func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var upErr *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.As(err, &upErr):
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
