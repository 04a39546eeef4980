package fields

import (
	"reflect"
	"testing"

	"CosmoPulse/internal/domain/models"
)

func TestActiveGatesUniqueSorted(t *testing.T) {
	placements := []models.Placement{
		{Body: "Sun", Gate: 34},
		{Body: "Moon", Gate: 5},
		{Body: "Earth", Gate: 34},
		{Body: "Mars", Gate: 12},
	}
	got := ActiveGates(placements)
	want := []int{5, 12, 34}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestActiveGatesEmpty(t *testing.T) {
	if got := ActiveGates(nil); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestIntersectCountsDuplicateSensitiveOnce(t *testing.T) {
	hits := Intersect([]int{1, 2, 3}, []int{2, 3, 3})
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if _, ok := hits[2]; !ok {
		t.Fatalf("expected gate 2 hit")
	}
	if _, ok := hits[3]; !ok {
		t.Fatalf("expected gate 3 hit")
	}
}

func TestTransitPressureSensitiveSaturation(t *testing.T) {
	cases := []struct {
		hits, active int
		want         float64
	}{
		{hits: 1, active: 3, want: 0.2},
		{hits: 2, active: 3, want: 0.4},
		{hits: 5, active: 13, want: 1.0},
		{hits: 9, active: 13, want: 1.0},
	}
	for _, c := range cases {
		if got := TransitPressure(c.hits, c.active); got != c.want {
			t.Fatalf("pressure(%d,%d) = %v, want %v", c.hits, c.active, got, c.want)
		}
	}
}

func TestTransitPressureBackgroundCeiling(t *testing.T) {
	cases := []struct {
		active int
		want   float64
	}{
		{active: 0, want: 0},
		{active: 4, want: 0.4},
		{active: 5, want: 0.5},
		{active: 13, want: 0.5},
	}
	for _, c := range cases {
		if got := TransitPressure(0, c.active); got != c.want {
			t.Fatalf("pressure(0,%d) = %v, want %v", c.active, got, c.want)
		}
	}
}

func TestDominantPlanetsPreservesOrderAndDuplicates(t *testing.T) {
	placements := []models.Placement{
		{Body: "Sun", Gate: 7},
		{Body: "Moon", Gate: 2},
		{Body: "Nodes", Gate: 7},
	}
	hits := map[int]struct{}{7: {}}
	got := DominantPlanets(placements, hits)
	want := []string{"Sun", "Nodes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDominantPlanetsNoHits(t *testing.T) {
	placements := []models.Placement{{Body: "Sun", Gate: 7}}
	got := DominantPlanets(placements, nil)
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no bodies, got %v", got)
	}
}
