package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/views"
	"github.com/MrSnakeDoc/brainlink/internal/viewer"
)

// SharedBrain renders the public view of a share hash. ?copy=<key> hands
// out the link of one card.
func SharedBrain(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := d.Viewer.Load(r.Context(), chi.URLParam(r, "hash"))
		if key := r.URL.Query().Get("copy"); key != "" {
			page.Copy(key)
		}

		status := http.StatusOK
		if page.Phase == viewer.Error {
			status = http.StatusNotFound
		}
		render(d, w, status, views.Share, views.ShareData{Page: page})
	}
}
