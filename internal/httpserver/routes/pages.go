package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/handlers"
)

func init() { Register(registerPages) }

func registerPages(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Root())
	r.Get("/landing", handlers.Landing(d))
}
