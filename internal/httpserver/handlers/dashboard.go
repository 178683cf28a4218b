package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/brainlink/internal/card"
	"github.com/MrSnakeDoc/brainlink/internal/dashboard"
	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/mw"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/views"
)

const dashboardPath = "/dashboard"

// controller mounts (or fetches) the dashboard of the request's session.
func controller(d deps.Deps, r *http.Request) *dashboard.Controller {
	return d.Dashboards.Mount(mw.SessionFrom(r.Context()))
}

func renderDashboard(d deps.Deps, w http.ResponseWriter, status int, c *dashboard.Controller) {
	render(d, w, status, views.Dashboard, views.DashboardData{
		View:  c.View(),
		Types: domain.ContentTypes,
	})
}

// afterAction sends the browser back to the dashboard, or to the sign-in
// page once the backend rejected the credential.
func afterAction(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dashboard.ErrSessionEnded) {
		seeOther(w, r, "/signin")
		return
	}
	seeOther(w, r, dashboardPath)
}

func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := d.Dashboards.Enter(r.Context(), mw.SessionFrom(r.Context()))
		if r.URL.Query().Has("filter") {
			c.SetFilter(domain.ParseFilter(r.URL.Query().Get("filter")))
		}
		renderDashboard(d, w, http.StatusOK, c)
	}
}

// NewContent opens the creation form, optionally preselecting ?type=.
func NewContent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controller(d, r)
		m := c.Modal()
		m.Open()
		if t, ok := domain.ParseContentType(r.URL.Query().Get("type")); ok {
			m.SelectType(t)
		}
		renderDashboard(d, w, http.StatusOK, c)
	}
}

func CreateContent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := mw.SessionFrom(r.Context())
		c := controller(d, r)
		m := c.Modal()

		m.Open()
		m.SetFields(r.PostFormValue("title"), r.PostFormValue("link"))
		if t, ok := domain.ParseContentType(r.PostFormValue("type")); ok {
			m.SelectType(t)
		}

		err := m.Submit(r.Context(), sess)
		switch {
		case err == nil:
			seeOther(w, r, dashboardPath)
		case errors.Is(err, dashboard.ErrSessionEnded):
			seeOther(w, r, "/signin")
		default:
			renderDashboard(d, w, http.StatusUnprocessableEntity, c)
		}
	}
}

func CloseContent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controller(d, r).Modal().Close()
		seeOther(w, r, dashboardPath)
	}
}

// DeleteContent asks for confirmation first; the confirmation page posts
// back with confirm=yes.
func DeleteContent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := mw.SessionFrom(r.Context())
		c := controller(d, r)
		key := chi.URLParam(r, "key")

		err := c.Delete(r.Context(), sess, key, r.PostFormValue("confirm") == "yes")
		if errors.Is(err, dashboard.ErrNotConfirmed) {
			it, ok := c.Store().Lookup(key)
			if !ok {
				seeOther(w, r, dashboardPath)
				return
			}
			render(d, w, http.StatusOK, views.ConfirmDelete, views.ConfirmData{
				Card: card.Render(it, card.Owner),
			})
			return
		}
		afterAction(w, r, err)
	}
}

func ShareContent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = controller(d, r).ShareCard(chi.URLParam(r, "key"))
		seeOther(w, r, dashboardPath)
	}
}

func ShareBrain(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := mw.SessionFrom(r.Context())
		_, err := controller(d, r).ShareBrain(r.Context(), sess)
		afterAction(w, r, err)
	}
}

func Dismiss(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controller(d, r)
		switch r.PostFormValue("what") {
		case "error":
			c.DismissError()
		case "success":
			c.DismissSuccess()
		}
		seeOther(w, r, dashboardPath)
	}
}

func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controller(d, r).RequestRefresh()
		seeOther(w, r, dashboardPath)
	}
}
