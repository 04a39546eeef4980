package repository

import (
	"context"
	"testing"
	"time"

	"CosmoPulse/internal/domain/models"
	pkgcache "CosmoPulse/pkg/cache"
)

func TestCacheSnapshotStoreRoundTrip(t *testing.T) {
	mc := pkgcache.NewMemoryCache()
	defer mc.Close()
	store := NewCacheSnapshotStore(mc)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	snap := &models.TransitSnapshot{
		ComputedAt: now,
		ExpiresAt:  now.Add(time.Hour),
		Projections: models.ProjectionSet{
			models.ChartTropical: {{Body: "Sun", Gate: 1, Line: 3}},
		},
	}

	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected stored snapshot")
	}
	if !got.ComputedAt.Equal(snap.ComputedAt) {
		t.Fatalf("computed_at %v, want %v", got.ComputedAt, snap.ComputedAt)
	}
	if len(got.Projections[models.ChartTropical]) != 1 {
		t.Fatalf("projections lost in round trip")
	}
}

func TestCacheSnapshotStoreEmpty(t *testing.T) {
	mc := pkgcache.NewMemoryCache()
	defer mc.Close()
	store := NewCacheSnapshotStore(mc)

	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected no snapshot")
	}
}
