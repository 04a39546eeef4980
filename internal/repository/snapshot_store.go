package repository

import (
	"context"
	"errors"

	"CosmoPulse/internal/domain/models"
	"CosmoPulse/internal/domain/repository"
	pkgcache "CosmoPulse/pkg/cache"
)

const lastSnapshotKey = "transit:last"

// CacheSnapshotStore implements SnapshotStore on the layered cache. The
// persisted copy exists only for warm starts; TTL 0 means keep until
// overwritten by the next refresh.
type CacheSnapshotStore struct {
	cache pkgcache.Service
}

// NewCacheSnapshotStore creates a snapshot store backed by the given cache.
func NewCacheSnapshotStore(cache pkgcache.Service) repository.SnapshotStore {
	return &CacheSnapshotStore{cache: cache}
}

func (s *CacheSnapshotStore) Save(ctx context.Context, snap *models.TransitSnapshot) error {
	return s.cache.Set(ctx, lastSnapshotKey, snap, 0)
}

func (s *CacheSnapshotStore) Load(ctx context.Context) (*models.TransitSnapshot, bool, error) {
	var snap models.TransitSnapshot
	err := s.cache.Get(ctx, lastSnapshotKey, &snap)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if snap.Projections == nil {
		return nil, false, nil
	}
	return &snap, true, nil
}
