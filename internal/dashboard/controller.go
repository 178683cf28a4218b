// Package dashboard holds the per-session state behind the dashboard page:
// the content store, its poller, the creation form and the action banners.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/card"
	"github.com/MrSnakeDoc/brainlink/internal/content"
	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/scheduler"
	"github.com/MrSnakeDoc/brainlink/internal/session"
)

// Backend is the subset of the backend API a dashboard uses.
type Backend interface {
	content.Lister
	CreateContent(ctx context.Context, token string, d domain.Draft) error
	DeleteContent(ctx context.Context, token, contentID string) error
	ShareBrain(ctx context.Context, token string) (string, error)
}

// TokenSource returns the credential currently stored for the dashboard's
// session, "" when there is none.
type TokenSource func(ctx context.Context) (string, error)

// Options configures controllers.
type Options struct {
	PollInterval time.Duration
	// PublicURL is the externally visible base URL, used to build share links.
	PublicURL string
	// StaleAfter is how old items may be when the dashboard is entered
	// again. Zero refreshes on every entry.
	StaleAfter time.Duration
}

// DefaultStaleAfter spares the refresh right after a mutation redirect.
const DefaultStaleAfter = 2 * time.Second

// Success is the indicator shown after a successful action.
type Success struct {
	Message  string
	Hash     string // share hash, share brain only
	ShareURL string // public viewer URL, share brain only
	Link     string // copied card link, card share only
}

// View is a snapshot of the whole dashboard for rendering.
type View struct {
	Filter  domain.Filter
	Title   string
	Cards   []card.Card
	Total   int
	Modal   ModalView
	Error   string
	Success *Success
	Loading bool
}

// Controller is one mounted dashboard.
type Controller struct {
	sessionID string
	backend   Backend
	tokens    TokenSource
	endFn     func(ctx context.Context, sess *session.Session)
	opts      Options
	logger    logger.Logger

	store  *content.Store
	poller *scheduler.ContentPoller
	modal  *CreateModal
	guard  *inflight

	mu      sync.Mutex
	errMsg  string
	success *Success
}

func newController(
	sessionID string,
	be Backend,
	tokens TokenSource,
	endFn func(ctx context.Context, sess *session.Session),
	opts Options,
	log logger.Logger,
) *Controller {
	c := &Controller{
		sessionID: sessionID,
		backend:   be,
		tokens:    tokens,
		endFn:     endFn,
		opts:      opts,
		logger:    log,
		store:     content.NewStore(be, log),
		guard:     newInflight(),
	}
	c.modal = newCreateModal(c.create)
	c.poller = scheduler.NewContentPoller(c.poll, log, opts.PollInterval)
	return c
}

func (c *Controller) start(ctx context.Context) { c.poller.Start(ctx) }

func (c *Controller) stop() { c.poller.Stop() }

// poll is the background refresh. It reads the credential from the session
// store each time so a cleared session stops hitting the backend.
func (c *Controller) poll(ctx context.Context) error {
	token, err := c.tokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}
	if !session.CredentialPresent(token) {
		c.logger.Debug("skipping content refresh, no credential")
		return nil
	}
	return c.store.Refresh(ctx, token)
}

// refreshNow re-synchronizes after a successful mutation. A failure only
// leaves the previous items on screen.
func (c *Controller) refreshNow(ctx context.Context, sess *session.Session) {
	if err := c.store.Refresh(ctx, sess.Token()); err != nil {
		c.logger.Warn("refresh after mutation failed", logger.Error(err))
	}
}

// revalidate refreshes when items are older than StaleAfter. A freshly
// mounted dashboard was refreshed by its poller already.
func (c *Controller) revalidate(ctx context.Context, sess *session.Session) {
	at := c.store.RefreshedAt()
	if !at.IsZero() && time.Since(at) < c.opts.StaleAfter {
		return
	}
	if err := c.store.Refresh(ctx, sess.Token()); err != nil {
		c.logger.Warn("refresh on entry failed", logger.Error(err))
	}
}

// RequestRefresh asks the poller for an immediate background refresh.
func (c *Controller) RequestRefresh() bool { return c.poller.Trigger() }

// Modal returns the creation form.
func (c *Controller) Modal() *CreateModal { return c.modal }

// Store returns the content store.
func (c *Controller) Store() *content.Store { return c.store }

// SetFilter changes the displayed type.
func (c *Controller) SetFilter(f domain.Filter) { c.store.SetFilter(f) }

// Loading reports whether any action is outstanding.
func (c *Controller) Loading() bool {
	return c.guard.any() || c.modal.View().Submitting()
}

// View renders the current state.
func (c *Controller) View() View {
	f := c.store.Filter()
	c.mu.Lock()
	errMsg := c.errMsg
	var success *Success
	if c.success != nil {
		s := *c.success
		success = &s
	}
	c.mu.Unlock()

	return View{
		Filter:  f,
		Title:   f.Title(),
		Cards:   card.RenderAll(c.store.View(), card.Owner),
		Total:   len(c.store.Items()),
		Modal:   c.modal.View(),
		Error:   errMsg,
		Success: success,
		Loading: c.Loading(),
	}
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.errMsg = ""
	c.mu.Unlock()
}

// DismissSuccess clears the success indicator.
func (c *Controller) DismissSuccess() {
	c.mu.Lock()
	c.success = nil
	c.mu.Unlock()
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *Controller) setSuccess(s *Success) {
	c.mu.Lock()
	c.errMsg = ""
	c.success = s
	c.mu.Unlock()
}

// create is the submit step of the creation form.
func (c *Controller) create(ctx context.Context, sess *session.Session, d domain.Draft) error {
	release, err := c.guard.acquire(ActionCreate)
	if err != nil {
		return err
	}
	defer release()

	if err := c.backend.CreateContent(ctx, sess.Token(), d); err != nil {
		c.logger.Warn("failed to add content",
			logger.String("type", d.Type.String()),
			logger.Error(err))
		if backend.IsUnauthorized(err) {
			c.endFn(ctx, sess)
			return fmt.Errorf("create content: %w: %w", ErrSessionEnded, err)
		}
		return fmt.Errorf("create content: %w", err)
	}

	c.logger.Info("content added", logger.String("type", d.Type.String()))
	c.setSuccess(&Success{Message: MsgCreated})
	c.refreshNow(ctx, sess)
	return nil
}

// Delete removes the card rendered under key once the user confirmed.
// Without confirmation nothing happens and ErrNotConfirmed is returned.
func (c *Controller) Delete(ctx context.Context, sess *session.Session, key string, confirmed bool) error {
	invoked, err := card.ConfirmDelete(confirmed, func() error {
		return c.delete(ctx, sess, key)
	})
	if !invoked {
		return ErrNotConfirmed
	}
	return err
}

func (c *Controller) delete(ctx context.Context, sess *session.Session, key string) error {
	it, ok := c.store.Lookup(key)
	if !ok || !it.HasID() {
		c.setError(MsgInvalidContent)
		return ErrInvalidContent
	}

	release, err := c.guard.acquire(ActionDelete)
	if err != nil {
		c.setError(MsgBusy)
		return err
	}
	defer release()

	c.setError("")
	if err := c.backend.DeleteContent(ctx, sess.Token(), it.ID); err != nil {
		c.logger.Warn("failed to delete content", logger.String("id", it.ID), logger.Error(err))
		return c.actionFailed(ctx, sess, err, msgDeleteFallback)
	}

	c.logger.Info("content deleted", logger.String("id", it.ID))
	c.refreshNow(ctx, sess)
	c.setSuccess(&Success{Message: MsgDeleted})
	return nil
}

// ShareBrain publishes the collection and shows its public link.
func (c *Controller) ShareBrain(ctx context.Context, sess *session.Session) (*Success, error) {
	release, err := c.guard.acquire(ActionShare)
	if err != nil {
		c.setError(MsgBusy)
		return nil, err
	}
	defer release()

	c.setError("")
	hash, err := c.backend.ShareBrain(ctx, sess.Token())
	if err != nil {
		c.logger.Warn("failed to share brain", logger.Error(err))
		return nil, c.actionFailed(ctx, sess, err, msgShareFallback)
	}

	s := &Success{
		Message:  MsgShared,
		Hash:     hash,
		ShareURL: ShareURL(c.opts.PublicURL, hash),
	}
	c.setSuccess(s)
	c.refreshNow(ctx, sess)
	return s, nil
}

// ShareCard hands out the link of one card. It never touches the backend.
func (c *Controller) ShareCard(key string) (*Success, error) {
	it, ok := c.store.Lookup(key)
	if !ok || it.Link == "" {
		c.setError(MsgInvalidContent)
		return nil, ErrInvalidContent
	}
	link, msg := card.ShareLink(it)
	s := &Success{Message: msg, Link: link}
	c.setSuccess(s)
	return s, nil
}

func (c *Controller) actionFailed(ctx context.Context, sess *session.Session, err error, fallback string) error {
	c.setError(actionFailure(err, fallback))
	if backend.IsUnauthorized(err) {
		c.endFn(ctx, sess)
		return fmt.Errorf("%w: %w", ErrSessionEnded, err)
	}
	return err
}

// ShareURL builds the public viewer address of hash.
func ShareURL(base, hash string) string {
	return strings.TrimRight(base, "/") + "/share/" + hash
}
