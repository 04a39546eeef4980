package models

import "time"

// SnapshotEvent is the wire form of a refresh published to Kafka and
// consumed by the archive pipeline.
type SnapshotEvent struct {
	ComputedAt  int64                       `json:"computed_at"` // unix seconds
	ExpiresAt   int64                       `json:"expires_at"`
	Projections map[ChartSystem][]Placement `json:"projections"`
}

// NewSnapshotEvent converts a live snapshot into its wire form.
func NewSnapshotEvent(s *TransitSnapshot) *SnapshotEvent {
	return &SnapshotEvent{
		ComputedAt:  s.ComputedAt.Unix(),
		ExpiresAt:   s.ExpiresAt.Unix(),
		Projections: s.Projections,
	}
}

// Snapshot converts the wire form back into a snapshot.
func (e *SnapshotEvent) Snapshot() *TransitSnapshot {
	return &TransitSnapshot{
		ComputedAt:  time.Unix(e.ComputedAt, 0).UTC(),
		ExpiresAt:   time.Unix(e.ExpiresAt, 0).UTC(),
		Projections: e.Projections,
	}
}

// ArchivedPlacement is one archived row: a placement pinned to the snapshot
// and projection it came from.
type ArchivedPlacement struct {
	ComputedAt time.Time   `json:"computed_at"`
	Chart      ChartSystem `json:"chart"`
	Body       string      `json:"body"`
	Gate       int         `json:"gate"`
	Line       int         `json:"line"`
	Retrograde bool        `json:"retrograde"`
}
