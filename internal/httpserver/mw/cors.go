package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows cross-origin reads from the given origins. With no origin
// configured it is a passthrough: pages and forms are same-origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 1 && origins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		opts.AllowCredentials = false
	}
	return cors.Handler(opts)
}
