package fields

import (
	"sort"

	"CosmoPulse/internal/domain/models"
)

// Scoring constants: a field saturates personalized pressure at 5 sensitive
// hits; without any personal hit the background pressure is capped at 0.5
// and saturates at 10 active gates. Personal relevance dominates background
// noise.
const (
	sensitiveSaturation  = 5.0
	backgroundSaturation = 10.0
	backgroundCeiling    = 0.5
)

// ActiveGates collects the unique gate identifiers in a projection list,
// sorted ascending so equal inputs always produce equal output.
func ActiveGates(placements []models.Placement) []int {
	seen := make(map[int]struct{}, len(placements))
	out := make([]int, 0, len(placements))
	for _, p := range placements {
		if _, ok := seen[p.Gate]; ok {
			continue
		}
		seen[p.Gate] = struct{}{}
		out = append(out, p.Gate)
	}
	sort.Ints(out)
	return out
}

// Intersect returns the set of gates present in both active and sensitive.
// Duplicates in sensitive count once.
func Intersect(active []int, sensitive []int) map[int]struct{} {
	act := make(map[int]struct{}, len(active))
	for _, g := range active {
		act[g] = struct{}{}
	}
	hits := make(map[int]struct{})
	for _, g := range sensitive {
		if _, ok := act[g]; ok {
			hits[g] = struct{}{}
		}
	}
	return hits
}

// TransitPressure computes the bounded activation pressure. With sensitive
// hits: min(1, hits/5). Without: min(0.5, activeGates/10).
func TransitPressure(hits, activeGates int) float64 {
	if hits > 0 {
		p := float64(hits) / sensitiveSaturation
		if p > 1 {
			p = 1
		}
		return p
	}
	p := float64(activeGates) / backgroundSaturation
	if p > backgroundCeiling {
		p = backgroundCeiling
	}
	return p
}

// DominantPlanets returns the bodies whose placement gate is among the hit
// gates, preserving the provider's original ordering. A body appearing more
// than once in the source list appears more than once here. Always non-nil,
// like ActiveGates, so both serialize as arrays.
func DominantPlanets(placements []models.Placement, hits map[int]struct{}) []string {
	out := make([]string, 0, len(placements))
	if len(hits) == 0 {
		return out
	}
	for _, p := range placements {
		if _, ok := hits[p.Gate]; ok {
			out = append(out, p.Body)
		}
	}
	return out
}
