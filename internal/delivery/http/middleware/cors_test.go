package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	var called int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{" http://localhost:5173/ ", "", "http://localhost"}, next)

	tests := []struct {
		name           string
		method         string
		origin         string
		preflight      bool
		wantAllowed    bool
		wantStatus     int
		wantNextCalled bool
	}{
		{"allowed simple request", http.MethodGet, "http://localhost:5173", false, true, http.StatusOK, true},
		{"disallowed simple request", http.MethodGet, "http://evil.example", false, false, http.StatusOK, true},
		{"allowed preflight", http.MethodOptions, "http://localhost", true, true, http.StatusNoContent, false},
		{"disallowed preflight", http.MethodOptions, "http://evil.example", true, false, http.StatusNoContent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = 0
			req := httptest.NewRequest(tt.method, "/save_event", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
				req.Header.Set("Access-Control-Request-Headers", "content-type")
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNextCalled, called == 1)
			if !tt.wantAllowed {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
				return
			}
			assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
			if tt.preflight {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
			}
		})
	}
}
