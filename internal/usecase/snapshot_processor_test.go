package usecase

import (
	"context"
	"errors"
	"testing"

	"CosmoPulse/internal/domain/models"
)

type fakePublisher struct {
	err    error
	events []*models.SnapshotEvent
}

func (f *fakePublisher) Publish(_ context.Context, e *models.SnapshotEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type recordingStore struct {
	saved *models.TransitSnapshot
	err   error
}

func (r *recordingStore) Save(_ context.Context, s *models.TransitSnapshot) error {
	if r.err != nil {
		return r.err
	}
	r.saved = s
	return nil
}

func (r *recordingStore) Load(context.Context) (*models.TransitSnapshot, bool, error) {
	return r.saved, r.saved != nil, nil
}

func TestProcessFansOutToAllSinks(t *testing.T) {
	pub := &fakePublisher{}
	live := &fakePublisher{}
	store := &recordingStore{}
	p := NewSnapshotProcessor(pub, live, store, nopMetrics{}, testLogger(t))

	snap := testSnapshot()
	if err := p.Process(context.Background(), snap); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.events) != 1 || len(live.events) != 1 {
		t.Fatalf("expected one event per sink, got %d/%d", len(pub.events), len(live.events))
	}
	if store.saved != snap {
		t.Fatalf("snapshot not persisted")
	}
	if pub.events[0].ComputedAt != snap.ComputedAt.Unix() {
		t.Fatalf("event computed_at %d", pub.events[0].ComputedAt)
	}
}

func TestProcessPublishFailureStillPersists(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	store := &recordingStore{}
	p := NewSnapshotProcessor(pub, nil, store, nopMetrics{}, testLogger(t))

	err := p.Process(context.Background(), testSnapshot())
	if err == nil {
		t.Fatalf("expected publish error to surface")
	}
	if store.saved == nil {
		t.Fatalf("store skipped after publish failure")
	}
}

func TestProcessNilSnapshot(t *testing.T) {
	p := NewSnapshotProcessor(nil, nil, nil, nopMetrics{}, testLogger(t))
	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil snapshot")
	}
}
