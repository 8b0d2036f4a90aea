// @title EventGlobe API
// @version 1.0
// @description Searches events by city, geocodes their addresses and keeps a list of saved events.
// @host localhost:8000
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventglobe/config"
	_ "eventglobe/docs"
	"eventglobe/internal/adapters/httpclient"
	"eventglobe/internal/adapters/mapbox"
	"eventglobe/internal/adapters/serpapi"
	deliveryhttp "eventglobe/internal/delivery/http"
	"eventglobe/internal/delivery/http/controllers"
	"eventglobe/internal/delivery/http/middleware"
	"eventglobe/internal/domain"
	"eventglobe/internal/metrics"
	"eventglobe/internal/repository/postgres"
	"eventglobe/internal/repository/sqlite"
	"eventglobe/internal/repository/supabase"
	"eventglobe/internal/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// run wires the application and blocks until SIGINT or SIGTERM. Every resource it
// opens is released by a deferred call before it returns.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	metrics.Register()
	client := httpclient.New(cfg.HTTPClientTimeout)
	defer httpclient.Close(client)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, client)
	if err != nil {
		return fmt.Errorf("open %s saved event store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close saved event store", "err", err)
		}
	}()

	searcher := serpapi.NewSearcher(client, cfg.SerpAPIBaseURL, cfg.SerpAPIKey, logger)
	geocoder := mapbox.NewGeocoder(client, cfg.MapboxBaseURL, cfg.MapboxAccessToken)
	enricher := services.NewEnricher(geocoder, cfg.GeocodeTimeout, cfg.GeocodeConcurrency, logger)
	eventService := services.NewEventService(searcher, enricher, store, cfg.RequestTimeout)
	eventController := controllers.NewEventController(logger, eventService)

	router := deliveryhttp.NewRouter(eventController)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

// openStore builds the saved event repository selected by STORE_DRIVER.
// The returned close func releases the underlying connection.
func openStore(ctx context.Context, cfg *config.Config, client *http.Client) (domain.SavedEventRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewSavedEventRepository(db), db.Close, nil
	case config.StoreDriverSQLite:
		db, err := sqlite.Connect(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewSavedEventRepository(db), db.Close, nil
	case config.StoreDriverSupabase:
		return supabase.NewSavedEventRepository(client, cfg.SupabaseURL, cfg.SupabaseKey), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", domain.ErrConfiguration, cfg.StoreDriver)
	}
}
