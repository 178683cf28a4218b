package dashboard

import "sync"

// Action is a kind of user-initiated mutation.
type Action uint8

const (
	ActionCreate Action = iota + 1
	ActionDelete
	ActionShare
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionDelete:
		return "delete"
	case ActionShare:
		return "share"
	}
	return "unknown"
}

// inflight hands out at most one token per action kind.
type inflight struct {
	mu   sync.Mutex
	busy map[Action]bool
}

func newInflight() *inflight {
	return &inflight{busy: make(map[Action]bool)}
}

// acquire takes the token of a. The returned release must be called once
// the request settled.
func (g *inflight) acquire(a Action) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[a] {
		return nil, ErrBusy
	}
	g.busy[a] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, a)
			g.mu.Unlock()
		})
	}, nil
}

// any reports whether some action is in flight.
func (g *inflight) any() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.busy) > 0
}
