package service

import (
	"context"
	"time"

	"CosmoPulse/internal/domain/models"
)

// EphemerisProvider computes the triple projection for one instant.
// Treated as a pure function of time; may fail transiently. Memoization is
// the cache's job, not the provider's.
type EphemerisProvider interface {
	TripleProjection(ctx context.Context, at time.Time) (models.ProjectionSet, error)
}

// ArchetypeLookup resolves a gate to its thematic label. Pure.
type ArchetypeLookup interface {
	Lookup(gate int) (models.Archetype, bool)
}
