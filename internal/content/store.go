package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

// Lister fetches the full item list of the credential's owner.
type Lister interface {
	ListContent(ctx context.Context, token string) ([]domain.Item, error)
}

// Store holds the signed-in user's items, the active filter and the
// derived view. Items are only ever replaced wholesale.
type Store struct {
	lister Lister
	logger logger.Logger

	mu          sync.RWMutex
	items       []domain.Item
	filter      domain.Filter
	view        []domain.Item
	issued      uint64 // sequence number of the latest refresh started
	refreshedAt time.Time
}

// NewStore creates an empty store showing every type.
func NewStore(lister Lister, log logger.Logger) *Store {
	return &Store{
		lister: lister,
		logger: log,
		items:  []domain.Item{},
		view:   []domain.Item{},
		filter: domain.FilterAll,
	}
}

// Refresh fetches the current list and replaces the items with it.
//
// Every call takes a sequence number. A response is applied only if no
// newer refresh was started in the meantime, so the last request issued
// wins regardless of completion order. Superseded responses (and their
// errors) are dropped and Refresh returns nil for them.
func (s *Store) Refresh(ctx context.Context, token string) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	items, err := s.lister.ListContent(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issued {
		s.logger.Debug("dropping superseded content refresh",
			logger.Uint64("seq", seq),
			logger.Uint64("latest", s.issued))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to refresh content: %w", err)
	}

	s.items = items
	s.refreshedAt = time.Now()
	s.recompute()

	s.logger.Debug("content refreshed",
		logger.Int("count", len(items)),
		logger.Uint64("seq", seq))
	return nil
}

// SetFilter changes the active filter and recomputes the view. No network
// call is made.
func (s *Store) SetFilter(f domain.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.recompute()
}

func (s *Store) recompute() {
	s.view = domain.View(s.items, s.filter)
}

// Filter returns the active filter.
func (s *Store) Filter() domain.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Items returns a copy of every item, in backend order.
func (s *Store) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Item(nil), s.items...)
}

// View returns a copy of the filtered items.
func (s *Store) View() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Item(nil), s.view...)
}

// Lookup finds an item by render key among all items.
func (s *Store) Lookup(key string) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.FindByKey(s.items, key)
}

// RefreshedAt returns when items were last replaced; zero if never.
func (s *Store) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
