package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

func render(d deps.Deps, w http.ResponseWriter, status int, page string, data any) {
	if err := d.Views.Render(w, status, page, data); err != nil {
		d.Logger.Error("failed to render page", logger.String("page", page), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func seeOther(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
