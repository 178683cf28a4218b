package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/session"
)

// Sessions is what the registry needs from the session manager.
type Sessions interface {
	Store() session.Store
	Terminate(ctx context.Context, sess *session.Session) error
}

type mounted struct {
	c        *Controller
	lastSeen time.Time
}

// Registry keeps one mounted dashboard per browser session.
type Registry struct {
	ctx      context.Context
	backend  Backend
	sessions Sessions
	opts     Options
	logger   logger.Logger
	now      func() time.Time

	mu         sync.Mutex
	dashboards map[string]*mounted
}

// NewRegistry creates an empty registry. Pollers of mounted dashboards run
// until they are unmounted or ctx ends.
func NewRegistry(ctx context.Context, be Backend, sessions Sessions, opts Options, log logger.Logger) *Registry {
	return &Registry{
		ctx:        ctx,
		backend:    be,
		sessions:   sessions,
		opts:       opts,
		logger:     log,
		now:        time.Now,
		dashboards: make(map[string]*mounted),
	}
}

// Mount returns the dashboard of sess, mounting it on first use. Mounting
// refreshes the collection once and starts the poller.
func (r *Registry) Mount(sess *session.Session) *Controller {
	r.mu.Lock()
	if m, ok := r.dashboards[sess.ID]; ok {
		m.lastSeen = r.now()
		r.mu.Unlock()
		return m.c
	}

	id := sess.ID
	log := r.logger.With(logger.String("dashboard", shortID(id)))
	c := newController(id, r.backend, r.tokenSource(id), r.end, r.opts, log)
	r.dashboards[id] = &mounted{c: c, lastSeen: r.now()}
	r.mu.Unlock()

	c.start(r.ctx)
	log.Info("dashboard mounted")
	return c
}

// Enter returns the dashboard of sess for a page view. An already mounted
// dashboard whose items are older than Options.StaleAfter is refreshed
// before it is returned.
func (r *Registry) Enter(ctx context.Context, sess *session.Session) *Controller {
	c := r.Mount(sess)
	c.revalidate(ctx, sess)
	return c
}

// Get returns the mounted dashboard of a session without mounting it.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.dashboards[id]
	if !ok {
		return nil, false
	}
	m.lastSeen = r.now()
	return m.c, true
}

// Unmount stops the dashboard of a session and discards its state.
func (r *Registry) Unmount(id string) bool {
	r.mu.Lock()
	m, ok := r.dashboards[id]
	delete(r.dashboards, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	m.c.stop()
	r.logger.Info("dashboard unmounted", logger.String("dashboard", shortID(id)))
	return true
}

// Sweep unmounts dashboards not requested for longer than idle.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []string
	for id, m := range r.dashboards {
		if m.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, id := range stale {
		if r.unmountIfIdle(id, cutoff) {
			n++
		}
	}
	return n
}

// unmountIfIdle unmounts id only if it was still not requested since cutoff
// once the lock is held again.
func (r *Registry) unmountIfIdle(id string, cutoff time.Time) bool {
	r.mu.Lock()
	m, ok := r.dashboards[id]
	if !ok || !m.lastSeen.Before(cutoff) {
		r.mu.Unlock()
		return false
	}
	delete(r.dashboards, id)
	r.mu.Unlock()

	m.c.stop()
	r.logger.Info("dashboard unmounted",
		logger.String("dashboard", shortID(id)),
		logger.String("reason", "idle"))
	return true
}

// Len returns the number of mounted dashboards.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dashboards)
}

// Close unmounts every dashboard.
func (r *Registry) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.dashboards))
	for id := range r.dashboards {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Unmount(id)
	}
}

func (r *Registry) tokenSource(id string) TokenSource {
	return func(ctx context.Context) (string, error) {
		return r.sessions.Store().Get(ctx, id)
	}
}

// end clears the credential after the backend rejected it and unmounts the
// session's dashboard.
func (r *Registry) end(ctx context.Context, sess *session.Session) {
	if err := r.sessions.Terminate(ctx, sess); err != nil {
		r.logger.Error("failed to clear session credential", logger.Error(err))
	}
	r.Unmount(sess.ID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
