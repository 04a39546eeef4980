package repository

import (
	"context"
	"time"

	"CosmoPulse/internal/domain/models"
)

// Publisher fans refreshed snapshots out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e *models.SnapshotEvent) error
	Close() error
}

// Archive stores the refresh history and serves range queries over it.
type Archive interface {
	Store(ctx context.Context, e *models.SnapshotEvent) error
	Query(ctx context.Context, chart models.ChartSystem, from, to time.Time, limit int) ([]models.ArchivedPlacement, error)
	Health(ctx context.Context) error
	Close() error
}

// SnapshotStore persists the last-known-good snapshot across restarts.
type SnapshotStore interface {
	Save(ctx context.Context, s *models.TransitSnapshot) error
	Load(ctx context.Context) (*models.TransitSnapshot, bool, error)
}

// Metrics is the observability sink for the transit pipeline.
type Metrics interface {
	RecordRefresh(trigger, outcome string)
	RecordError(kind string)
	RecordSnapshotAge(seconds float64)
	RecordLatency(op string, seconds float64)
	RecordEventPublished(topic string)
}
