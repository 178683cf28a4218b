// Package routes holds the route groups of the web client. Each file
// registers its group from init.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type group struct {
	reg Registrar
	mws []Middleware
}

var groups []group

// Register adds a route group. The middlewares apply to that group only.
func Register(reg Registrar, mws ...Middleware) {
	groups = append(groups, group{reg: reg, mws: mws})
}

// RegisterAll mounts every group on r. Called once from httpserver.Router().
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		r.Group(func(r chi.Router) {
			if len(g.mws) > 0 {
				r.Use(g.mws...)
			}
			g.reg(r, d)
		})
	}
	d.Logger.Debug("routes registered", logger.Int("groups", len(groups)))
}
