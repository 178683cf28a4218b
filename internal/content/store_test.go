package content

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

// scriptedLister answers each call with the next queued response. A call
// blocks until its release channel (if any) is closed.
type scriptedLister struct {
	mu        sync.Mutex
	responses []scripted
	calls     int
	tokens    []string
}

type scripted struct {
	items   []domain.Item
	err     error
	release chan struct{}
	started chan struct{}
}

func (l *scriptedLister) ListContent(ctx context.Context, token string) ([]domain.Item, error) {
	l.mu.Lock()
	r := l.responses[l.calls]
	l.calls++
	l.tokens = append(l.tokens, token)
	l.mu.Unlock()

	if r.started != nil {
		close(r.started)
	}
	if r.release != nil {
		<-r.release
	}
	return r.items, r.err
}

func items(ids ...string) []domain.Item {
	out := make([]domain.Item, 0, len(ids))
	for i, id := range ids {
		t := domain.Video
		if i%2 == 1 {
			t = domain.Article
		}
		out = append(out, domain.Item{ID: id, Title: "t" + id, Link: "https://e.example/" + id, Type: t})
	}
	return out
}

func ids(in []domain.Item) []string {
	out := make([]string, 0, len(in))
	for _, it := range in {
		out = append(out, it.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewStoreEmpty(t *testing.T) {
	s := NewStore(&scriptedLister{}, logger.Nop())
	if len(s.Items()) != 0 || len(s.View()) != 0 {
		t.Error("new store should be empty")
	}
	if !s.Filter().IsAll() {
		t.Errorf("initial filter = %v, want all", s.Filter())
	}
	if !s.RefreshedAt().IsZero() {
		t.Error("RefreshedAt() should be zero before the first refresh")
	}
}

func TestRefreshReplacesWholesale(t *testing.T) {
	l := &scriptedLister{responses: []scripted{
		{items: items("1", "2", "3")},
		{items: items("4")},
	}}
	s := NewStore(l, logger.Nop())
	ctx := context.Background()

	if err := s.Refresh(ctx, "tok"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := ids(s.Items()); !equal(got, []string{"1", "2", "3"}) {
		t.Errorf("Items() = %v", got)
	}

	if err := s.Refresh(ctx, "tok"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := ids(s.Items()); !equal(got, []string{"4"}) {
		t.Errorf("Items() after second refresh = %v, want [4] (replace, not merge)", got)
	}
	if l.tokens[0] != "tok" {
		t.Errorf("token passed to lister = %q", l.tokens[0])
	}
}

func TestRefreshErrorKeepsItems(t *testing.T) {
	boom := errors.New("boom")
	l := &scriptedLister{responses: []scripted{
		{items: items("1")},
		{err: boom},
	}}
	s := NewStore(l, logger.Nop())
	ctx := context.Background()

	_ = s.Refresh(ctx, "tok")
	if err := s.Refresh(ctx, "tok"); !errors.Is(err, boom) {
		t.Errorf("Refresh() error = %v, want wrapped boom", err)
	}
	if got := ids(s.Items()); !equal(got, []string{"1"}) {
		t.Errorf("Items() after failed refresh = %v, want [1]", got)
	}
}

func TestSetFilterRecomputesView(t *testing.T) {
	l := &scriptedLister{responses: []scripted{{items: items("1", "2", "3", "4")}}}
	s := NewStore(l, logger.Nop())
	_ = s.Refresh(context.Background(), "tok")

	s.SetFilter(domain.FilterBy(domain.Video))
	if got := ids(s.View()); !equal(got, []string{"1", "3"}) {
		t.Errorf("View(video) = %v, want [1 3]", got)
	}

	// idempotent
	s.SetFilter(domain.FilterBy(domain.Video))
	if got := ids(s.View()); !equal(got, []string{"1", "3"}) {
		t.Errorf("View(video) after second SetFilter = %v", got)
	}

	s.SetFilter(domain.FilterAll)
	if got := ids(s.View()); !equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("View(all) = %v", got)
	}

	if l.calls != 1 {
		t.Errorf("SetFilter triggered %d list calls, want none", l.calls-1)
	}
}

func TestViewFollowsRefresh(t *testing.T) {
	l := &scriptedLister{responses: []scripted{
		{items: items("1", "2")},
		{items: items("5", "6", "7")},
	}}
	s := NewStore(l, logger.Nop())
	s.SetFilter(domain.FilterBy(domain.Article))

	_ = s.Refresh(context.Background(), "tok")
	if got := ids(s.View()); !equal(got, []string{"2"}) {
		t.Errorf("View() = %v, want [2]", got)
	}
	_ = s.Refresh(context.Background(), "tok")
	if got := ids(s.View()); !equal(got, []string{"6"}) {
		t.Errorf("View() after refresh = %v, want [6]", got)
	}
}

func TestSlowOlderResponseDoesNotClobberNewer(t *testing.T) {
	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	l := &scriptedLister{responses: []scripted{
		{items: items("old"), started: slowStarted, release: slowRelease},
		{items: items("new")},
	}}
	s := NewStore(l, logger.Nop())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Refresh(ctx, "tok") }()
	<-slowStarted

	if err := s.Refresh(ctx, "tok"); err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}
	close(slowRelease)
	if err := <-done; err != nil {
		t.Fatalf("superseded Refresh() error = %v, want nil", err)
	}

	if got := ids(s.Items()); !equal(got, []string{"new"}) {
		t.Errorf("Items() = %v, want [new]: a stale response was applied", got)
	}
}

func TestSupersededErrorIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	l := &scriptedLister{responses: []scripted{
		{err: errors.New("stale failure"), started: started, release: release},
		{items: items("1")},
	}}
	s := NewStore(l, logger.Nop())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Refresh(ctx, "tok") }()
	<-started
	_ = s.Refresh(ctx, "tok")
	close(release)

	if err := <-done; err != nil {
		t.Errorf("superseded failing Refresh() = %v, want nil", err)
	}
}

func TestLookup(t *testing.T) {
	raw := []domain.Item{
		{ID: "42", Type: domain.Video},
		domain.Item{Type: domain.Article}.WithFallbackKey(1),
	}
	l := &scriptedLister{responses: []scripted{{items: raw}}}
	s := NewStore(l, logger.Nop())
	_ = s.Refresh(context.Background(), "tok")

	if it, ok := s.Lookup("42"); !ok || it.ID != "42" {
		t.Errorf("Lookup(42) = %+v, %v", it, ok)
	}
	if it, ok := s.Lookup("idx-1"); !ok || it.HasID() {
		t.Errorf("Lookup(idx-1) = %+v, %v", it, ok)
	}
}
