package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/types"
)

// Cached keeps the last successful result of an underlying loader.
//
// The first FetchAll goes to the source. Later calls are served from memory
// until Refresh replaces the snapshot. A failed refresh keeps the previous
// snapshot; an empty result replaces it.
type Cached struct {
	source Loader
	logger *zap.Logger

	mu        sync.RWMutex
	jobs      []types.Job
	loaded    bool
	fetchedAt time.Time
	now       func() time.Time
}

// NewCached wraps source. A nil logger discards output.
func NewCached(source Loader, logger *zap.Logger) *Cached {
	return &Cached{
		source: source,
		logger: logging.Component(logger, "catalog"),
		now:    time.Now,
	}
}

// FetchAll implements Loader
func (c *Cached) FetchAll(ctx context.Context) ([]types.Job, error) {
	c.mu.RLock()
	if c.loaded {
		out := cloneJobs(c.jobs)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneJobs(c.jobs), nil
}

// Refresh reloads the snapshot from the source
func (c *Cached) Refresh(ctx context.Context) error {
	jobs, err := c.source.FetchAll(ctx)
	if err != nil {
		c.logger.Warn("catalog refresh failed", zap.Error(err))
		return err
	}
	if jobs == nil {
		jobs = []types.Job{}
	}

	c.mu.Lock()
	c.jobs = cloneJobs(jobs)
	c.loaded = true
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug("catalog refreshed", zap.Int(logging.FieldCount, len(jobs)))
	return nil
}

// FetchedAt reports when the snapshot was last replaced. The zero time means never.
func (c *Cached) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Refresher periodically calls Cached.Refresh on a cron schedule
type Refresher struct {
	cron   *cron.Cron
	cached *Cached
	spec   string
	logger *zap.Logger
}

// NewRefresher fires every interval. Intervals under a second are raised to one second.
func NewRefresher(cached *Cached, interval time.Duration, logger *zap.Logger) *Refresher {
	if interval < time.Second {
		interval = time.Second
	}
	return &Refresher{
		cron:   cron.New(),
		cached: cached,
		spec:   fmt.Sprintf("@every %s", interval),
		logger: logging.Component(logger, "catalog-refresher"),
	}
}

// Start registers the refresh job and starts the scheduler
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		if err := r.cached.Refresh(ctx); err != nil {
			r.logger.Warn("scheduled refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	r.logger.Info("catalog refresher started", zap.String("spec", r.spec))
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("catalog refresher stopped")
}
