package models

import "testing"

func TestChartForDefaultsAndOverrides(t *testing.T) {
	var nilSig *UserChartSignature
	if got := nilSig.ChartFor(FieldMind); got != ChartSidereal {
		t.Fatalf("nil signature: got %s", got)
	}

	sig := &UserChartSignature{
		FieldAssignments: map[FieldName]FieldAssignment{
			FieldMind: {ChartSystem: ChartTropical},
			FieldSoul: {ChartSystem: "vedic"},
		},
	}
	if got := sig.ChartFor(FieldMind); got != ChartTropical {
		t.Fatalf("override ignored: got %s", got)
	}
	if got := sig.ChartFor(FieldSoul); got != ChartDraconic {
		t.Fatalf("invalid override should fall back to default, got %s", got)
	}
	if got := sig.ChartFor(FieldHeart); got != ChartDraconic {
		t.Fatalf("unassigned field should use default, got %s", got)
	}
}

func TestResonanceForNeutralDefault(t *testing.T) {
	var nilSig *UserChartSignature
	if got := nilSig.ResonanceFor(FieldBody); got != NeutralResonance {
		t.Fatalf("nil signature: got %v", got)
	}

	sig := &UserChartSignature{
		ResonanceHistory: map[FieldName]float64{FieldBody: 0.9},
	}
	if got := sig.ResonanceFor(FieldBody); got != 0.9 {
		t.Fatalf("got %v", got)
	}
	if got := sig.ResonanceFor(FieldVoid); got != NeutralResonance {
		t.Fatalf("absent history should be neutral, got %v", got)
	}
}

func TestFieldOrderCoversAllDefaults(t *testing.T) {
	if len(FieldOrder) != 9 {
		t.Fatalf("expected 9 fields, got %d", len(FieldOrder))
	}
	for _, f := range FieldOrder {
		if _, ok := DefaultFieldCharts[f]; !ok {
			t.Fatalf("field %s has no default chart", f)
		}
	}
}
