package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/handlers"
)

func init() { Register(registerShare) }

func registerShare(r chi.Router, d deps.Deps) {
	r.Get("/share/", handlers.SharedBrain(d))
	r.Get("/share/{hash}", handlers.SharedBrain(d))
}
