package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/mw"
)

func init() { Register(registerDashboard, mw.RequireAuth) }

func registerDashboard(r chi.Router, d deps.Deps) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", handlers.Dashboard(d))
		r.Get("/content/new", handlers.NewContent(d))
		r.Post("/content", handlers.CreateContent(d))
		r.Post("/content/close", handlers.CloseContent(d))
		r.Post("/content/{key}/delete", handlers.DeleteContent(d))
		r.Post("/content/{key}/share", handlers.ShareContent(d))
		r.Post("/share", handlers.ShareBrain(d))
		r.Post("/dismiss", handlers.Dismiss(d))
		r.Post("/refresh", handlers.Refresh(d))
	})
}
