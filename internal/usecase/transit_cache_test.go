package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CosmoPulse/internal/domain/models"
	xlogger "CosmoPulse/pkg/logger"
)

// fakeProvider is a controllable ephemeris stub.
type fakeProvider struct {
	mu    sync.Mutex
	set   models.ProjectionSet
	err   error
	delay time.Duration
	calls int
}

func (f *fakeProvider) TripleProjection(ctx context.Context, _ time.Time) (models.ProjectionSet, error) {
	f.mu.Lock()
	f.calls++
	set, err, delay := f.set, f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return set, err
}

func (f *fakeProvider) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// nopMetrics satisfies the Metrics sink without touching the global
// Prometheus registry.
type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string, string)  {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordSnapshotAge(float64)     {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordEventPublished(string)   {}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func testProjections() models.ProjectionSet {
	return models.ProjectionSet{
		models.ChartTropical: {
			{Body: "Sun", Gate: 1, Line: 3},
			{Body: "Moon", Gate: 2, Line: 5},
			{Body: "Mercury", Gate: 3, Line: 1, Retrograde: true},
		},
		models.ChartSidereal: {
			{Body: "Sun", Gate: 44, Line: 2},
		},
		models.ChartDraconic: {
			{Body: "Sun", Gate: 25, Line: 6},
		},
	}
}

func TestCurrentAfterStart(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	s := c.Current(context.Background())
	if s == nil {
		t.Fatalf("expected snapshot after start")
	}
	if len(s.Projections[models.ChartTropical]) != 3 {
		t.Fatalf("unexpected tropical placements: %d", len(s.Projections[models.ChartTropical]))
	}
	if !s.ExpiresAt.Equal(s.ComputedAt.Add(time.Hour)) {
		t.Fatalf("expected one hour window, got %v..%v", s.ComputedAt, s.ExpiresAt)
	}
}

func TestCurrentNilWhenProviderNeverSucceeded(t *testing.T) {
	p := &fakeProvider{err: errors.New("ephemeris down")}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithRepairTimeout(50*time.Millisecond))

	if s := c.Current(context.Background()); s != nil {
		t.Fatalf("expected nil snapshot, got %+v", s)
	}
	if p.callCount() == 0 {
		t.Fatalf("expected a read-through refresh attempt")
	}
}

func TestStaleServedWhenProviderFails(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithWindow(time.Nanosecond),
		WithRepairTimeout(50*time.Millisecond))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	first := c.snap.Load()
	if first == nil {
		t.Fatalf("expected seeded snapshot")
	}

	p.setErr(errors.New("ephemeris down"))
	time.Sleep(time.Millisecond) // let the nanosecond window lapse

	s := c.Current(context.Background())
	if s == nil {
		t.Fatalf("expected stale snapshot, got nil")
	}
	if !s.ComputedAt.Equal(first.ComputedAt) {
		t.Fatalf("expected the stale snapshot to be served")
	}
}

func TestReadThroughRepairsStaleSnapshot(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithWindow(time.Nanosecond),
		WithRepairTimeout(time.Second))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	before := p.callCount()
	time.Sleep(time.Millisecond)

	if s := c.Current(context.Background()); s == nil {
		t.Fatalf("expected snapshot")
	}
	if p.callCount() <= before {
		t.Fatalf("expected read-through to call the provider")
	}
}

func TestRepairTimeoutServesStale(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithWindow(time.Nanosecond),
		WithRepairTimeout(20*time.Millisecond))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	p.mu.Lock()
	p.delay = 500 * time.Millisecond
	p.mu.Unlock()
	time.Sleep(time.Millisecond)

	start := time.Now()
	s := c.Current(context.Background())
	if s == nil {
		t.Fatalf("expected stale snapshot while refresh is slow")
	}
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Fatalf("reader blocked too long: %v", elapsed)
	}
}

func TestConcurrentStaleReadersShareOneRefresh(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithWindow(time.Nanosecond),
		WithRepairTimeout(2*time.Second))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	p.mu.Lock()
	p.delay = 100 * time.Millisecond
	p.mu.Unlock()
	time.Sleep(time.Millisecond) // let the nanosecond window lapse

	before := p.callCount()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s := c.Current(context.Background()); s == nil {
				t.Errorf("reader got nil snapshot")
			}
		}()
	}
	wg.Wait()

	if got := p.callCount() - before; got != 1 {
		t.Fatalf("20 stale readers caused %d provider calls, want 1", got)
	}
}

func TestStopWithoutStart(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t))
	c.Stop() // must not hang or panic
}

func TestStartTwiceIsNoop(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	calls := p.callCount()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if p.callCount() != calls {
		t.Fatalf("second start must not refresh again")
	}
}

func TestStartStopStartCycle(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Stop()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	c.Stop()
}

func TestConcurrentReadersSeeOneSnapshot(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	want := c.Current(context.Background())
	if want == nil {
		t.Fatalf("expected snapshot")
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Current(context.Background()); got != want {
				t.Errorf("reader saw a different snapshot")
			}
		}()
	}
	wg.Wait()
}

func TestWarmStartFromStore(t *testing.T) {
	stored := &models.TransitSnapshot{
		ComputedAt:  time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt:   time.Now().UTC().Add(-time.Hour),
		Projections: testProjections(),
	}
	p := &fakeProvider{err: errors.New("ephemeris down")}
	c := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithRepairTimeout(50*time.Millisecond),
		WithSnapshotStore(stubStore{snap: stored}))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	s := c.Current(context.Background())
	if s == nil {
		t.Fatalf("expected warm-started snapshot despite provider failure")
	}
	if !s.ComputedAt.Equal(stored.ComputedAt) {
		t.Fatalf("expected the persisted snapshot to be served")
	}
}

type stubStore struct{ snap *models.TransitSnapshot }

func (s stubStore) Save(context.Context, *models.TransitSnapshot) error { return nil }
func (s stubStore) Load(context.Context) (*models.TransitSnapshot, bool, error) {
	return s.snap, s.snap != nil, nil
}
