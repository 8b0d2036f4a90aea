package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

const corsMaxAge = 86400

var corsAllowMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// CORS returns a handler that adds CORS headers for allowed origins and
// answers preflight requests. Credentials are allowed, so origins are echoed
// back rather than wildcarded.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   corsAllowMethods,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}).Handler(next)
}
