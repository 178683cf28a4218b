// Package views renders the HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/brainlink/internal/card"
	"github.com/MrSnakeDoc/brainlink/internal/dashboard"
	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/viewer"
)

//go:embed templates/*.html
var files embed.FS

// Page names.
const (
	Landing       = "landing"
	Signup        = "signup"
	Signin        = "signin"
	Dashboard     = "dashboard"
	ConfirmDelete = "confirm_delete"
	Share         = "share"
	NotFound      = "not_found"
)

var pages = []string{Landing, Signup, Signin, Dashboard, ConfirmDelete, Share, NotFound}

// LandingData feeds the landing page.
type LandingData struct {
	Authenticated bool
}

// AuthData feeds the sign-up and sign-in forms.
type AuthData struct {
	Username    string
	Notice      string
	Error       string
	FieldErrors map[string]string
}

// DashboardData feeds the dashboard page.
type DashboardData struct {
	dashboard.View
	Types []domain.ContentType
}

// ConfirmData feeds the delete confirmation page.
type ConfirmData struct {
	Card card.Card
}

// ShareData feeds the shared brain viewer.
type ShareData struct {
	viewer.Page
}

var funcs = template.FuncMap{
	"filterOf": func(t domain.ContentType) string { return t.String() },
	"isEmbed":  func(c card.Card) bool { return c.Presentation == card.EmbedPlayer },
	"isQuote":  func(c card.Card) bool { return c.Presentation == card.Quote },
	"isReady":  func(p viewer.Page) bool { return p.Phase == viewer.Ready },
}

// Renderer holds the parsed templates, one set per page.
type Renderer struct {
	sets map[string]*template.Template
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{sets: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New(p).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", p, err)
		}
		r.sets[p] = t
	}
	return r, nil
}

// Render executes page into w with the given status. The page is rendered
// to a buffer first so a template error never produces half a response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.sets[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
