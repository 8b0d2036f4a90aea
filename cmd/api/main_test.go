package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventglobe/config"
	"eventglobe/internal/domain"
)

func TestRun_ReturnsConfigurationError(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("SERPAPI_KEY", "")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "")
	t.Setenv("STORE_DRIVER", config.StoreDriverSQLite)

	err := run()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "SERPAPI_KEY")
}

func TestOpenStore(t *testing.T) {
	t.Run("sqlite in memory", func(t *testing.T) {
		cfg := &config.Config{StoreDriver: config.StoreDriverSQLite, SQLitePath: ":memory:"}
		store, closeStore, err := openStore(context.Background(), cfg, http.DefaultClient)
		require.NoError(t, err)
		require.NotNil(t, store)

		events, err := store.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, events)
		require.NoError(t, closeStore())
	})

	t.Run("supabase needs no connection", func(t *testing.T) {
		cfg := &config.Config{StoreDriver: config.StoreDriverSupabase, SupabaseURL: "http://127.0.0.1:1", SupabaseKey: "k"}
		store, closeStore, err := openStore(context.Background(), cfg, http.DefaultClient)
		require.NoError(t, err)
		require.NotNil(t, store)
		require.NoError(t, closeStore())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{StoreDriver: "mongo"}
		_, _, err := openStore(context.Background(), cfg, http.DefaultClient)
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
