package models

import "time"

// ChartSystem identifies one zodiac projection variant.
type ChartSystem string

const (
	ChartTropical ChartSystem = "tropical"
	ChartSidereal ChartSystem = "sidereal"
	ChartDraconic ChartSystem = "draconic"
)

// ChartSystems lists the triple projection in provider order.
var ChartSystems = []ChartSystem{ChartTropical, ChartSidereal, ChartDraconic}

// IsValidChartSystem returns true if cs is one of the triple projection variants.
func IsValidChartSystem(cs ChartSystem) bool {
	switch cs {
	case ChartTropical, ChartSidereal, ChartDraconic:
		return true
	default:
		return false
	}
}

// DefaultChartSystem returns the primary projection variant.
func DefaultChartSystem() ChartSystem { return ChartTropical }

// NormalizeChartSystem converts raw string to a valid chart system (or default).
func NormalizeChartSystem(s string) ChartSystem {
	if s == "" {
		return DefaultChartSystem()
	}
	cs := ChartSystem(s)
	if IsValidChartSystem(cs) {
		return cs
	}
	return DefaultChartSystem()
}

// Placement is one celestial body positioned in one projection:
// the gate (1..64) and line (1..6) it occupies, plus retrograde motion.
type Placement struct {
	Body       string `json:"body"`
	Gate       int    `json:"gate"`
	Line       int    `json:"line"`
	Retrograde bool   `json:"retrograde"`
}

// ProjectionSet holds the placement list per chart system for one instant.
// Built atomically by the ephemeris provider; never mutated after creation.
type ProjectionSet map[ChartSystem][]Placement

// TransitSnapshot is the live cache entry: one projection set plus its
// validity window. Replaced wholesale on refresh, never mutated in place.
type TransitSnapshot struct {
	ComputedAt  time.Time     `json:"computed_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Projections ProjectionSet `json:"projections"`
}

// Stale reports whether the snapshot's validity window has passed.
func (s *TransitSnapshot) Stale(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
