package viewer_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/backend/backendtest"
	"github.com/MrSnakeDoc/brainlink/internal/card"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/viewer"
)

func newViewer(t *testing.T) (*viewer.Viewer, *backendtest.Server) {
	t.Helper()
	srv := backendtest.NewServer()
	t.Cleanup(srv.Close)
	client, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
	if err != nil {
		t.Fatalf("backend.New() error = %v", err)
	}
	return viewer.New(client, logger.Nop()), srv
}

func shareOf(t *testing.T, srv *backendtest.Server, tok string) string {
	t.Helper()
	client, _ := backend.New(backend.Options{BaseURL: srv.URL}, logger.Nop())
	hash, err := client.ShareBrain(context.Background(), tok)
	if err != nil {
		t.Fatalf("ShareBrain() error = %v", err)
	}
	return hash
}

func TestLoadReady(t *testing.T) {
	v, srv := newViewer(t)
	tok := srv.AddUser("bob", "password1")
	srv.Seed("bob",
		backendtest.Record{Title: "clip", Link: "https://www.youtube.com/watch?v=q1", Type: "youtube"},
		backendtest.Record{Title: "post", Link: "https://x.com/a/status/1", Type: "twitter"},
	)
	hash := shareOf(t, srv, tok)

	p := v.Load(context.Background(), hash)
	if p.Phase != viewer.Ready || p.Error != "" {
		t.Fatalf("Load() = %+v", p)
	}
	if p.Owner != "bob" || len(p.Cards) != 2 {
		t.Errorf("owner=%q cards=%d", p.Owner, len(p.Cards))
	}
	for _, c := range p.Cards {
		if c.CanDelete {
			t.Errorf("shared card %q allows delete", c.Key)
		}
	}
	if p.Cards[1].URL != "https://twitter.com/a/status/1" {
		t.Errorf("quote URL = %q", p.Cards[1].URL)
	}
}

func TestLoadEmptyBrain(t *testing.T) {
	v, srv := newViewer(t)
	tok := srv.AddUser("bob", "password1")
	hash := shareOf(t, srv, tok)

	p := v.Load(context.Background(), hash)
	if p.Phase != viewer.Ready || len(p.Cards) != 0 {
		t.Errorf("Load() = %+v, want ready and empty", p)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name   string
		hash   string
		status int
		body   string
		want   string
	}{
		{"empty hash", "  ", 0, "", "Invalid share link"},
		{"unknown hash", "bad-hash", 0, "", "Shared brain not found. The link may be invalid or expired."},
		{"backend message", "h1", 500, `{"message":"database down"}`, "database down"},
		{"no detail", "h2", 503, ``, "Failed to load shared brain. Please try again."},
		{"missing content", "h3", 200, `{"username":"x"}`, "No content found in shared brain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, srv := newViewer(t)
			if tt.status != 0 {
				srv.Fail(http.MethodGet, "/api/v1/brain/"+tt.hash, tt.status, tt.body)
			}

			p := v.Load(context.Background(), tt.hash)
			if p.Phase != viewer.Error {
				t.Errorf("Phase = %v, want error", p.Phase)
			}
			if p.Error != tt.want {
				t.Errorf("Error = %q, want %q", p.Error, tt.want)
			}
		})
	}
}

func TestEmptyHashSkipsNetwork(t *testing.T) {
	v, srv := newViewer(t)
	_ = v.Load(context.Background(), "")
	if n := srv.Calls(http.MethodGet, "/api/v1/brain/"); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestPageCopy(t *testing.T) {
	p := viewer.Page{Cards: []card.Card{{Key: "k", Link: "https://a.example"}}}
	if !p.Copy("k") || p.Link != "https://a.example" || p.Notice != card.CopiedMessage {
		t.Errorf("Copy(k) -> %+v", p)
	}
	if (&viewer.Page{}).Copy("k") {
		t.Error("Copy() on empty page = true")
	}
}
