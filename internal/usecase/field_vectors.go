package usecase

import (
	"context"
	"errors"

	"CosmoPulse/internal/domain/models"
	"CosmoPulse/internal/services/fields"
)

// ErrCacheUnavailable signals that no transit snapshot has ever been
// computed. A normal transient state, not a failure: HTTP callers receive a
// not-ready envelope, summary callers the placeholder.
var ErrCacheUnavailable = errors.New("transit cache unavailable")

// FieldVectorCalculator turns the shared transit snapshot plus a caller's
// static chart signature into one bounded activation vector per field.
// Pure given (snapshot, signature); safe for unbounded concurrent callers.
type FieldVectorCalculator struct {
	cache *TransitCache
}

// NewFieldVectorCalculator creates a new FieldVectorCalculator instance.
func NewFieldVectorCalculator(cache *TransitCache) *FieldVectorCalculator {
	return &FieldVectorCalculator{cache: cache}
}

// Compute returns one FieldVector per field in fixed enumeration order, or
// ErrCacheUnavailable when no snapshot exists.
func (f *FieldVectorCalculator) Compute(ctx context.Context, chart *models.UserChartSignature) ([]models.FieldVector, error) {
	snap := f.cache.Current(ctx)
	if snap == nil {
		return nil, ErrCacheUnavailable
	}
	return ComputeFieldVectors(snap, chart), nil
}

// ComputeFieldVectors scores every field against one snapshot. Split out from
// the cache-bound path so it stays a pure, directly testable function.
func ComputeFieldVectors(snap *models.TransitSnapshot, chart *models.UserChartSignature) []models.FieldVector {
	out := make([]models.FieldVector, 0, len(models.FieldOrder))
	for _, field := range models.FieldOrder {
		cs := chart.ChartFor(field)
		placements := snap.Projections[cs]

		active := fields.ActiveGates(placements)
		hits := fields.Intersect(active, chart.SensitiveGatesFor(field))
		pressure := fields.TransitPressure(len(hits), len(active))
		resonance := chart.ResonanceFor(field)

		out = append(out, models.FieldVector{
			Field:               field,
			ChartSystem:         cs,
			ActiveGates:         active,
			TransitPressure:     pressure,
			HistoricalResonance: resonance,
			Weight:              pressure * resonance,
			DominantPlanets:     fields.DominantPlanets(placements, hits),
		})
	}
	return out
}
