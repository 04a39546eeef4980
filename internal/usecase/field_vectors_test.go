package usecase

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"CosmoPulse/internal/domain/models"
)

func testSnapshot() *models.TransitSnapshot {
	now := time.Now().UTC()
	return &models.TransitSnapshot{
		ComputedAt:  now,
		ExpiresAt:   now.Add(time.Hour),
		Projections: testProjections(),
	}
}

func TestComputeFieldVectorsOrderAndCount(t *testing.T) {
	vectors := ComputeFieldVectors(testSnapshot(), &models.UserChartSignature{})
	if len(vectors) != len(models.FieldOrder) {
		t.Fatalf("expected %d vectors, got %d", len(models.FieldOrder), len(vectors))
	}
	for i, v := range vectors {
		if v.Field != models.FieldOrder[i] {
			t.Fatalf("vector %d is %s, want %s", i, v.Field, models.FieldOrder[i])
		}
		if v.ActiveGates == nil || v.DominantPlanets == nil {
			t.Fatalf("field %s has nil slices; both must serialize as arrays", v.Field)
		}
	}
}

func TestComputeFieldVectorsPersonalized(t *testing.T) {
	sig := &models.UserChartSignature{
		FieldAssignments: map[models.FieldName]models.FieldAssignment{
			models.FieldMind: {ChartSystem: models.ChartTropical, SensitiveGates: []int{2, 3, 3}},
		},
		ResonanceHistory: map[models.FieldName]float64{
			models.FieldMind: 0.8,
		},
	}

	vectors := ComputeFieldVectors(testSnapshot(), sig)

	var mind *models.FieldVector
	for i := range vectors {
		if vectors[i].Field == models.FieldMind {
			mind = &vectors[i]
		}
	}
	if mind == nil {
		t.Fatalf("missing Mind vector")
	}
	if mind.ChartSystem != models.ChartTropical {
		t.Fatalf("expected tropical assignment, got %s", mind.ChartSystem)
	}
	if !reflect.DeepEqual(mind.ActiveGates, []int{1, 2, 3}) {
		t.Fatalf("active gates %v", mind.ActiveGates)
	}
	// 2 distinct hits out of 5 saturation
	if math.Abs(mind.TransitPressure-0.4) > 1e-9 {
		t.Fatalf("pressure %v, want 0.4", mind.TransitPressure)
	}
	if math.Abs(mind.HistoricalResonance-0.8) > 1e-9 {
		t.Fatalf("resonance %v, want 0.8", mind.HistoricalResonance)
	}
	if math.Abs(mind.Weight-0.32) > 1e-9 {
		t.Fatalf("weight %v, want 0.32", mind.Weight)
	}
	if !reflect.DeepEqual(mind.DominantPlanets, []string{"Moon", "Mercury"}) {
		t.Fatalf("dominant planets %v", mind.DominantPlanets)
	}
}

func TestComputeFieldVectorsNeutralResonance(t *testing.T) {
	sig := &models.UserChartSignature{
		FieldAssignments: map[models.FieldName]models.FieldAssignment{
			models.FieldBody: {ChartSystem: models.ChartTropical, SensitiveGates: []int{1}},
		},
	}
	vectors := ComputeFieldVectors(testSnapshot(), sig)

	body := vectors[0]
	if body.Field != models.FieldBody {
		t.Fatalf("expected Body first, got %s", body.Field)
	}
	if body.HistoricalResonance != models.NeutralResonance {
		t.Fatalf("resonance %v, want %v", body.HistoricalResonance, models.NeutralResonance)
	}
	if math.Abs(body.Weight-body.TransitPressure*models.NeutralResonance) > 1e-9 {
		t.Fatalf("weight %v not pressure*resonance", body.Weight)
	}
}

func TestComputeFieldVectorsDefaultChartMapping(t *testing.T) {
	vectors := ComputeFieldVectors(testSnapshot(), &models.UserChartSignature{})
	for _, v := range vectors {
		if v.ChartSystem != models.DefaultFieldCharts[v.Field] {
			t.Fatalf("field %s reads %s, want %s", v.Field, v.ChartSystem, models.DefaultFieldCharts[v.Field])
		}
	}
}

func TestComputeFieldVectorsDeterministic(t *testing.T) {
	snap := testSnapshot()
	sig := &models.UserChartSignature{
		FieldAssignments: map[models.FieldName]models.FieldAssignment{
			models.FieldSoul: {ChartSystem: models.ChartDraconic, SensitiveGates: []int{25}},
		},
	}
	a := ComputeFieldVectors(snap, sig)
	b := ComputeFieldVectors(snap, sig)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same inputs produced different vectors")
	}
}

func TestComputeReturnsUnavailableOnEmptyCache(t *testing.T) {
	p := &fakeProvider{err: errors.New("ephemeris down")}
	cache := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithRepairTimeout(50*time.Millisecond))
	calc := NewFieldVectorCalculator(cache)

	if _, err := calc.Compute(context.Background(), &models.UserChartSignature{}); !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
}
