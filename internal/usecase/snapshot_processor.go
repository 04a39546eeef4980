package usecase

import (
	"context"
	"fmt"
	"time"

	"CosmoPulse/internal/domain/models"
	drepo "CosmoPulse/internal/domain/repository"
	xlogger "CosmoPulse/pkg/logger"
)

// SnapshotProcessor fans a freshly committed snapshot out to downstream
// sinks: the Kafka backbone, live websocket subscribers, and the
// last-known-good store. Sink failures are reported but never affect the
// live snapshot.
type SnapshotProcessor struct {
	pub     drepo.Publisher // durable backbone (Kafka)
	live    drepo.Publisher // live subscribers (websocket hub)
	store   drepo.SnapshotStore
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

// NewSnapshotProcessor creates a new SnapshotProcessor instance. Any sink
// may be nil.
func NewSnapshotProcessor(pub, live drepo.Publisher, store drepo.SnapshotStore, metrics drepo.Metrics, logger *xlogger.Logger) *SnapshotProcessor {
	return &SnapshotProcessor{pub: pub, live: live, store: store, metrics: metrics, logger: logger}
}

// Process publishes the snapshot event and persists the snapshot. Both are
// best-effort; the first error is returned after all sinks were attempted.
func (p *SnapshotProcessor) Process(ctx context.Context, s *models.TransitSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}

	start := time.Now()
	var firstErr error

	event := models.NewSnapshotEvent(s)

	if p.pub != nil {
		if err := p.pub.Publish(ctx, event); err != nil {
			p.metrics.RecordError("publish")
			p.logger.Warn("snapshot publish failed", xlogger.Error(err))
			firstErr = fmt.Errorf("publish snapshot: %w", err)
		} else {
			p.metrics.RecordEventPublished("snapshots")
		}
	}

	if p.live != nil {
		if err := p.live.Publish(ctx, event); err != nil {
			p.metrics.RecordError("ws_broadcast")
			p.logger.Warn("live broadcast failed", xlogger.Error(err))
		}
	}

	if p.store != nil {
		if err := p.store.Save(ctx, s); err != nil {
			p.metrics.RecordError("snapshot_store")
			p.logger.Warn("snapshot persist failed", xlogger.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("persist snapshot: %w", err)
			}
		}
	}

	p.metrics.RecordLatency("snapshot_fanout", time.Since(start).Seconds())
	return firstErr
}

// Close closes underlying resources if available.
func (p *SnapshotProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
}
