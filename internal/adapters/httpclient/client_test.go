package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"query values masked", "https://serpapi.com/search.json?api_key=secret&q=events+in+Paris", "https://serpapi.com/search.json?api_key=REDACTED&q=REDACTED"},
		{"no query untouched", "https://api.mapbox.com/geocoding/v5/mapbox.places/Paris.json", "https://api.mapbox.com/geocoding/v5/mapbox.places/Paris.json"},
		{"unparseable", "http://[::1%zz/x?access_token=secret", "REDACTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactURL(tt.raw))
		})
	}
}

func TestRedactError(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		target := srv.URL + "/x.json?access_token=secret-token"
		srv.Close()

		client := New(time.Second)
		defer Close(client)
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, target, nil)
		require.NoError(t, err)
		_, err = client.Do(req)
		require.Error(t, err)
		require.Contains(t, err.Error(), "secret-token", "url.Error carries the raw query")

		got := RedactError(err)
		assert.NotContains(t, got.Error(), "secret-token")
		assert.Contains(t, got.Error(), "access_token=REDACTED")
		var urlErr *url.Error
		require.ErrorAs(t, got, &urlErr)
	})

	t.Run("deadline still detectable", func(t *testing.T) {
		err := &url.Error{Op: "Get", URL: "http://x/?api_key=k", Err: context.DeadlineExceeded}
		got := RedactError(err)
		assert.ErrorIs(t, got, context.DeadlineExceeded)
		assert.NotContains(t, got.Error(), "api_key=k")
	})

	t.Run("other errors unchanged", func(t *testing.T) {
		err := errors.New("boom")
		assert.Same(t, err, RedactError(err))
	})
}
