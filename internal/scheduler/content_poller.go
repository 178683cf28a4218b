package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

// DefaultPollInterval is how often a mounted dashboard re-synchronizes.
const DefaultPollInterval = 10 * time.Second

// RefreshFunc re-synchronizes one content collection.
type RefreshFunc func(ctx context.Context) error

// ContentPoller refreshes a dashboard collection on mount, on a fixed
// interval and whenever it is triggered manually.
type ContentPoller struct {
	refresh       RefreshFunc
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	done          chan struct{}
	manualTrigger chan struct{}
	startOnce     sync.Once
	stopOnce      sync.Once
}

// NewContentPoller creates a poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewContentPoller(refresh RefreshFunc, log logger.Logger, interval time.Duration) *ContentPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &ContentPoller{
		refresh:       refresh,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: make(chan struct{}, 1),
	}
}

// Start refreshes once, then keeps refreshing in the background until Stop
// is called or ctx ends. Failures are logged and swallowed. Calling Start
// more than once has no effect.
func (p *ContentPoller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.run(ctx, "mount")

		ticker := time.NewTicker(p.interval)
		go func() {
			defer close(p.done)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					p.run(ctx, "interval")
				case <-p.manualTrigger:
					p.run(ctx, "manual")
				case <-p.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	})
}

// Trigger asks for an immediate refresh. It never blocks and returns false
// when a refresh request is already pending.
func (p *ContentPoller) Trigger() bool {
	select {
	case p.manualTrigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Stop cancels the timer and waits for the polling goroutine to exit.
// It is safe to call more than once, and before Start.
func (p *ContentPoller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})

	started := true
	p.startOnce.Do(func() { started = false })
	if started {
		<-p.done
	}
}

func (p *ContentPoller) run(ctx context.Context, reason string) {
	if err := p.refresh(ctx); err != nil {
		p.logger.Warn("background content refresh failed",
			logger.String("reason", reason),
			logger.Error(err))
	}
}
