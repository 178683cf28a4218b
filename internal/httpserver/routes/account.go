package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/mw"
)

func init() { Register(registerAccount) }

func registerAccount(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.AuthBurst,
		RefillPerIPPerMin: d.AuthRefillPerMin,
		TrustProxy:        d.TrustProxy,
		Methods:           []string{http.MethodPost},
	}, d.Logger)

	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Get("/signup", handlers.SignupForm(d))
		r.Post("/signup", handlers.Signup(d))
		r.Get("/signin", handlers.SigninForm(d))
		r.Post("/signin", handlers.Signin(d))
	})
	r.Post("/signout", handlers.Signout(d))
}
