package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

// liveness and readiness, reachable from the allowed networks only
func registerProbes(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/healthz", handlers.Healthz(d))
		r.Get("/readyz", handlers.Readyz(d))
	})
}
