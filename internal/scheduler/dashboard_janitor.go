package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

const (
	// DefaultIdleThreshold is how long a dashboard may go without a request
	// before it is unmounted
	DefaultIdleThreshold = 30 * time.Minute
)

// Sweeper unmounts dashboards idle for longer than the given duration and
// returns how many were unmounted.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// DashboardJanitor periodically unmounts idle dashboards so their pollers
// stop and their collections are discarded.
type DashboardJanitor struct {
	sweeper   Sweeper
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewDashboardJanitor creates a new janitor
func NewDashboardJanitor(
	sweeper Sweeper,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *DashboardJanitor {
	if threshold <= 0 {
		threshold = DefaultIdleThreshold
	}
	if interval <= 0 {
		interval = threshold / 2
	}
	return &DashboardJanitor{
		sweeper:   sweeper,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (j *DashboardJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.Collect()
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the janitor
func (j *DashboardJanitor) Stop() {
	close(j.stopCh)
}

// Collect unmounts idle dashboards once
func (j *DashboardJanitor) Collect() int {
	n := j.sweeper.Sweep(j.threshold)
	if n > 0 {
		j.logger.Info("unmounted idle dashboards",
			logger.Int("count", n),
			logger.Duration("idle_threshold", j.threshold))
	} else {
		j.logger.Debug("no idle dashboards to unmount")
	}
	return n
}
