package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/mw"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/views"
)

func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seeOther(w, r, "/landing")
	}
}

func Landing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := mw.SessionFrom(r.Context())
		render(d, w, http.StatusOK, views.Landing, views.LandingData{Authenticated: sess.Authenticated()})
	}
}

func NotFound(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(d, w, http.StatusNotFound, views.NotFound, nil)
	}
}
