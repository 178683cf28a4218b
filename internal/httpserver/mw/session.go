package mw

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/session"
)

type sessionKey struct{}

// Session loads the browser session of every request and stores it in the
// request context. A session store failure degrades to an anonymous session.
func Session(m *session.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.Load(r)
			if err != nil {
				log.Warn("session store unavailable", logger.Error(err))
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session loaded by Session. It never returns nil.
func SessionFrom(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey{}).(*session.Session); ok && sess != nil {
		return sess
	}
	return &session.Session{}
}

// RequireAuth redirects requests without a usable credential to /signin.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
