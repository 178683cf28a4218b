package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

// CookieName carries the session id in the browser.
const CookieName = "brainlink_session"

// Session is one browser session. It is passed explicitly to every
// component that needs the credential; only Manager mutates it.
type Session struct {
	ID    string
	token string
}

// Token returns the stored credential, possibly empty.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Authenticated reports whether a usable credential is stored.
func (s *Session) Authenticated() bool {
	return CredentialPresent(s.Token())
}

// Options configures a Manager.
type Options struct {
	TTL          time.Duration // session lifetime, sliding
	SecureCookie bool          // set the Secure cookie attribute (HTTPS deployments)
}

// Manager owns the session credential: it is the only place that sets or
// clears it.
type Manager struct {
	store  Store
	opts   Options
	logger logger.Logger
}

// NewManager creates a session manager on top of store.
func NewManager(store Store, opts Options, log logger.Logger) *Manager {
	return &Manager{store: store, opts: opts, logger: log}
}

// Store exposes the backing store (health checks).
func (m *Manager) Store() Store { return m.store }

// Load returns the session referenced by the request cookie. A request
// without cookie yields an anonymous session with an empty ID.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return &Session{}, nil
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		m.logger.Debug("ignoring malformed session cookie")
		return &Session{}, nil
	}

	token, err := m.store.Get(r.Context(), c.Value)
	if err != nil {
		return &Session{ID: c.Value}, fmt.Errorf("failed to load session: %w", err)
	}
	return &Session{ID: c.Value, token: token}, nil
}

// Begin makes sure sess has an id and the browser holds its cookie.
func (m *Manager) Begin(w http.ResponseWriter, sess *Session) {
	if sess.ID != "" {
		return
	}
	sess.ID = uuid.NewString()
	http.SetCookie(w, m.cookie(sess.ID, int(m.opts.TTL.Seconds())))
}

// SignIn stores token as the session credential.
func (m *Manager) SignIn(ctx context.Context, w http.ResponseWriter, sess *Session, token string) error {
	m.Begin(w, sess)
	if err := m.store.Set(ctx, sess.ID, token, m.opts.TTL); err != nil {
		return err
	}
	sess.token = token
	m.logger.Info("session signed in", logger.String("session", shortID(sess.ID)))
	return nil
}

// Terminate removes the credential, e.g. after the backend answered 401.
// The cookie is kept so the browser can sign in again under the same id.
func (m *Manager) Terminate(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	sess.token = ""
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return err
	}
	m.logger.Info("session credential cleared", logger.String("session", shortID(sess.ID)))
	return nil
}

// SignOut clears the credential and expires the cookie.
func (m *Manager) SignOut(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	err := m.Terminate(ctx, sess)
	http.SetCookie(w, m.cookie("", -1))
	return err
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// shortID keeps session ids out of logs in full.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
