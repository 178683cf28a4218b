// Package backendtest provides an in-memory BrainLink backend for tests.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Record is one stored content item.
type Record struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Link  string `json:"link"`
	Type  string `json:"type"`
}

type fault struct {
	status int
	body   string
}

// Server is a fake backend implementing the REST API consumed by the client.
type Server struct {
	URL string

	srv *httptest.Server

	mu         sync.Mutex
	passwords  map[string]string   // username -> password
	tokens     map[string]string   // token -> username
	content    map[string][]Record // username -> items, newest last
	shares     map[string]string   // hash -> username
	faults     map[string][]fault  // "METHOD /path" -> queued one-shot faults
	calls      map[string]int      // "METHOD /path" -> count
	legacyIDs  bool
	lastDelete string
}

// NewServer starts a fake backend. Call Close when done.
func NewServer() *Server {
	s := &Server{
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		content:   make(map[string][]Record),
		shares:    make(map[string]string),
		faults:    make(map[string][]fault),
		calls:     make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.intercept)
	r.Post("/api/v1/signup", s.signup)
	r.Post("/api/v1/signin", s.signin)
	r.Get("/api/v1/content", s.listContent)
	r.Post("/api/v1/content", s.createContent)
	r.Delete("/api/v1/content", s.deleteContent)
	r.Post("/api/v1/brain/share", s.share)
	r.Get("/api/v1/brain/{hash}", s.sharedBrain)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// AddUser registers an account and returns a valid token for it.
func (s *Server) AddUser(username, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passwords[username] = password
	tok := uuid.NewString()
	s.tokens[tok] = username
	return tok
}

// Seed appends records to a user's collection. Records without an ID get one.
func (s *Server) Seed(username string, recs ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.content[username] = append(s.content[username], r)
	}
}

// SeedRaw appends records exactly as given, including ones without an ID.
func (s *Server) SeedRaw(username string, recs ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[username] = append(s.content[username], recs...)
}

// Content returns a copy of a user's collection.
func (s *Server) Content(username string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.content[username]...)
}

// UseLegacyIDs makes list responses carry "_id" instead of "id".
func (s *Server) UseLegacyIDs(v bool) {
	s.mu.Lock()
	s.legacyIDs = v
	s.mu.Unlock()
}

// Fail queues a one-shot response for the next request on method+path.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := method + " " + path
	s.faults[k] = append(s.faults[k], fault{status: status, body: body})
}

// Calls returns how many requests hit method+path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// LastDeletedID returns the contentId of the most recent delete request.
func (s *Server) LastDeletedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDelete
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.calls[k]++
		var f *fault
		if q := s.faults[k]; len(q) > 0 {
			f = &q[0]
			s.faults[k] = q[1:]
		}
		s.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func message(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

type fieldError struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

func (s *Server) user(r *http.Request) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.tokens[r.Header.Get("Authorization")]
	return u, ok
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		message(w, http.StatusBadRequest, "Invalid body")
		return
	}

	var errs []fieldError
	if len(in.Username) < 3 {
		errs = append(errs, fieldError{Path: []string{"username"}, Message: "Username must be at least 3 characters"})
	}
	if len(in.Password) < 8 {
		errs = append(errs, fieldError{Path: []string{"password"}, Message: "Password must be at least 8 characters"})
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.passwords[in.Username]; exists {
		message(w, http.StatusForbidden, "User already exists with this username")
		return
	}
	s.passwords[in.Username] = in.Password
	message(w, http.StatusOK, "Signed up")
}

func (s *Server) signin(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		message(w, http.StatusBadRequest, "Invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.passwords[in.Username]; !ok || pw != in.Password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	tok := uuid.NewString()
	s.tokens[tok] = in.Username
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(r)
	if !ok {
		message(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	s.mu.Lock()
	out := make([]map[string]string, 0, len(s.content[u]))
	for _, rec := range s.content[u] {
		m := map[string]string{"title": rec.Title, "link": rec.Link, "type": rec.Type}
		if rec.ID != "" {
			if s.legacyIDs {
				m["_id"] = rec.ID
			} else {
				m["id"] = rec.ID
			}
		}
		out = append(out, m)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"content": out})
}

func (s *Server) createContent(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(r)
	if !ok {
		message(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var in Record
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" || in.Link == "" {
		message(w, http.StatusBadRequest, "Title and link are required")
		return
	}
	switch in.Type {
	case "youtube", "twitter", "blog", "aichat":
	default:
		message(w, http.StatusBadRequest, "Unsupported content type")
		return
	}

	in.ID = uuid.NewString()
	s.mu.Lock()
	s.content[u] = append(s.content[u], in)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Content added"})
}

func (s *Server) deleteContent(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(r)
	if !ok {
		message(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var in struct {
		ContentID string `json:"contentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ContentID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []fieldError{{Path: []string{"contentId"}, Message: "contentId is required"}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDelete = in.ContentID
	items := s.content[u]
	for i, rec := range items {
		if rec.ID == in.ContentID {
			s.content[u] = append(items[:i:i], items[i+1:]...)
			message(w, http.StatusOK, "Deleted")
			return
		}
	}
	message(w, http.StatusNotFound, "Content not found")
}

func (s *Server) share(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(r)
	if !ok {
		message(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for h, owner := range s.shares {
		if owner == u {
			writeJSON(w, http.StatusOK, map[string]string{"hash": h})
			return
		}
	}
	h := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	s.shares[h] = u
	writeJSON(w, http.StatusOK, map[string]string{"hash": h})
}

func (s *Server) sharedBrain(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	s.mu.Lock()
	owner, ok := s.shares[hash]
	items := append([]Record(nil), s.content[owner]...)
	s.mu.Unlock()

	if !ok {
		message(w, http.StatusNotFound, "Sorry incorrect input")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"username": owner, "content": items})
}
