package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"CosmoPulse/internal/domain/models"
	drepo "CosmoPulse/internal/domain/repository"
	dsvc "CosmoPulse/internal/domain/service"
	xlogger "CosmoPulse/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Refresh triggers, used as metric labels.
const (
	triggerStart       = "start"
	triggerTimer       = "timer"
	triggerReadThrough = "readthrough"
)

// TransitCache maintains the single process-wide transit snapshot: one
// freshness-bounded projection set shared by all readers, recomputed on a
// schedule instead of per-request. Ephemeris failures are absorbed; readers
// are served the last-known-good snapshot.
type TransitCache struct {
	provider dsvc.EphemerisProvider
	proc     *SnapshotProcessor
	store    drepo.SnapshotStore
	metrics  drepo.Metrics
	logger   *xlogger.Logger

	window   time.Duration
	interval time.Duration
	repairTO time.Duration

	snap atomic.Pointer[models.TransitSnapshot]
	sf   singleflight.Group

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	done    chan struct{}
}

// CacheOption configures TransitCache.
type CacheOption func(*TransitCache)

// WithWindow sets the snapshot validity window.
func WithWindow(d time.Duration) CacheOption {
	return func(c *TransitCache) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithRefreshInterval sets the scheduled refresh period.
func WithRefreshInterval(d time.Duration) CacheOption {
	return func(c *TransitCache) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithRepairTimeout bounds how long a stale reader waits on an inline refresh.
func WithRepairTimeout(d time.Duration) CacheOption {
	return func(c *TransitCache) {
		if d > 0 {
			c.repairTO = d
		}
	}
}

// WithSnapshotStore enables last-known-good persistence for warm starts.
func WithSnapshotStore(s drepo.SnapshotStore) CacheOption {
	return func(c *TransitCache) { c.store = s }
}

// WithProcessor attaches post-refresh fanout (publish, persist).
func WithProcessor(p *SnapshotProcessor) CacheOption {
	return func(c *TransitCache) { c.proc = p }
}

// NewTransitCache creates the shared transit cache. One instance per process,
// constructed at startup and injected into every consumer.
func NewTransitCache(provider dsvc.EphemerisProvider, metrics drepo.Metrics, logger *xlogger.Logger, opts ...CacheOption) *TransitCache {
	c := &TransitCache{
		provider: provider,
		metrics:  metrics,
		logger:   logger,
		window:   time.Hour,
		interval: time.Hour,
		repairTO: 5 * time.Second,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start performs one synchronous refresh and arms the recurring timer.
// Calling Start twice is a no-op. The first refresh failing is logged, not
// fatal: the cache simply starts empty (or warm from the snapshot store).
func (c *TransitCache) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	c.warmStart(ctx)

	if err := c.refresh(ctx, triggerStart); err != nil {
		c.logger.Warn("initial transit refresh failed", xlogger.Error(err))
	}

	go c.run()
	return nil
}

// Stop disarms the timer. Safe to call without Start; an in-flight refresh
// is allowed to complete and commit its result.
func (c *TransitCache) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.started = false
	close(c.stopCh)
	<-c.done
	c.stopCh = make(chan struct{})
	c.done = make(chan struct{})
}

func (c *TransitCache) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			if err := c.refresh(context.Background(), triggerTimer); err != nil {
				c.logger.Warn("scheduled transit refresh failed", xlogger.Error(err))
			}
		}
	}
}

// Current returns the live snapshot, nil if none exists yet. A stale
// snapshot triggers a bounded inline refresh first; if that refresh fails
// or times out, the stale snapshot is still returned. Never errors.
func (c *TransitCache) Current(ctx context.Context) *models.TransitSnapshot {
	s := c.snap.Load()
	now := time.Now()
	if s == nil || s.Stale(now) {
		c.repair(ctx)
		s = c.snap.Load()
	}
	if s != nil {
		c.metrics.RecordSnapshotAge(time.Since(s.ComputedAt).Seconds())
	}
	return s
}

// repair runs the single-flight refresh but waits at most repairTO, so a
// slow ephemeris call cannot block readers indefinitely.
func (c *TransitCache) repair(ctx context.Context) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.repairTO)
	defer cancel()

	ch := c.sf.DoChan("refresh", func() (interface{}, error) {
		return nil, c.doRefresh(rctx, triggerReadThrough)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			c.logger.Warn("read-through transit refresh failed", xlogger.Error(res.Err))
		}
	case <-rctx.Done():
		// serve stale; the in-flight refresh may still commit later
	}
}

// refresh runs one refresh attempt, deduplicated with any concurrent
// trigger via single flight.
func (c *TransitCache) refresh(ctx context.Context, trigger string) error {
	_, err, _ := c.sf.Do("refresh", func() (interface{}, error) {
		return nil, c.doRefresh(ctx, trigger)
	})
	return err
}

// doRefresh calls the provider without holding any lock and swaps the new
// snapshot in atomically. Readers keep the previous snapshot for the whole
// duration of the provider call.
func (c *TransitCache) doRefresh(ctx context.Context, trigger string) error {
	start := time.Now()
	projections, err := c.provider.TripleProjection(ctx, start)
	c.metrics.RecordLatency("ephemeris_call", time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordRefresh(trigger, "error")
		c.metrics.RecordError("ephemeris")
		return err
	}

	snap := &models.TransitSnapshot{
		ComputedAt:  start.UTC(),
		ExpiresAt:   start.UTC().Add(c.window),
		Projections: projections,
	}
	c.snap.Store(snap)
	c.metrics.RecordRefresh(trigger, "ok")
	c.metrics.RecordSnapshotAge(0)
	c.logger.Info("transit snapshot refreshed",
		xlogger.String("trigger", trigger),
		xlogger.Time("computed_at", snap.ComputedAt),
		xlogger.Time("expires_at", snap.ExpiresAt),
	)

	if c.proc != nil {
		if err := c.proc.Process(ctx, snap); err != nil {
			c.logger.Warn("snapshot fanout failed", xlogger.Error(err))
		}
	}
	return nil
}

// warmStart loads the last-known-good snapshot from the store, if any.
// A stale stored snapshot is still loaded: stale-but-available beats empty.
func (c *TransitCache) warmStart(ctx context.Context) {
	if c.store == nil {
		return
	}
	s, ok, err := c.store.Load(ctx)
	if err != nil {
		c.metrics.RecordError("snapshot_store")
		c.logger.Warn("warm start load failed", xlogger.Error(err))
		return
	}
	if !ok {
		return
	}
	c.snap.Store(s)
	c.logger.Info("warm start from persisted snapshot",
		xlogger.Time("computed_at", s.ComputedAt),
		xlogger.Bool("stale", s.Stale(time.Now())),
	)
}
