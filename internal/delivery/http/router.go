package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventglobe/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events search
	mux.HandleFunc("GET /search", eventController.SearchEvents)

	// Saved events
	mux.HandleFunc("POST /save_event", eventController.SaveEvent)
	mux.HandleFunc("GET /saved_events", eventController.ListSavedEvents)
	mux.HandleFunc("DELETE /delete_event/{id}", eventController.DeleteSavedEvent)

	// Ops
	mux.HandleFunc("GET /healthz", controllers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
