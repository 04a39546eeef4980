package models

// FieldName identifies one of the nine perception fields.
type FieldName string

const (
	FieldBody   FieldName = "Body"
	FieldMind   FieldName = "Mind"
	FieldHeart  FieldName = "Heart"
	FieldSoul   FieldName = "Soul"
	FieldSpirit FieldName = "Spirit"
	FieldShadow FieldName = "Shadow"
	FieldLight  FieldName = "Light"
	FieldVoid   FieldName = "Void"
	FieldUnity  FieldName = "Unity"
)

// FieldOrder is the fixed enumeration order for all per-field output.
var FieldOrder = []FieldName{
	FieldBody, FieldMind, FieldHeart, FieldSoul, FieldSpirit,
	FieldShadow, FieldLight, FieldVoid, FieldUnity,
}

// DefaultFieldCharts maps each field to its default projection variant.
// Overridable per user via FieldAssignments.
var DefaultFieldCharts = map[FieldName]ChartSystem{
	FieldBody:   ChartTropical,
	FieldMind:   ChartSidereal,
	FieldHeart:  ChartDraconic,
	FieldSoul:   ChartDraconic,
	FieldSpirit: ChartDraconic,
	FieldShadow: ChartTropical,
	FieldLight:  ChartSidereal,
	FieldVoid:   ChartTropical,
	FieldUnity:  ChartSidereal,
}

// FieldAssignment is a per-user override for one field: which projection it
// reads from and which gates it is sensitive to.
type FieldAssignment struct {
	ChartSystem    ChartSystem `json:"chart_system"`
	SensitiveGates []int       `json:"sensitive_gates"`
}

// UserChartSignature is the caller-owned static profile. This subsystem
// only reads it; missing entries fall back to neutral defaults.
type UserChartSignature struct {
	FieldAssignments map[FieldName]FieldAssignment `json:"field_assignments"`
	ResonanceHistory map[FieldName]float64         `json:"resonance_history"`
}

// ChartFor resolves the projection variant for a field: user assignment if
// present and valid, otherwise the static default.
func (u *UserChartSignature) ChartFor(f FieldName) ChartSystem {
	if u != nil {
		if a, ok := u.FieldAssignments[f]; ok && IsValidChartSystem(a.ChartSystem) {
			return a.ChartSystem
		}
	}
	if cs, ok := DefaultFieldCharts[f]; ok {
		return cs
	}
	return DefaultChartSystem()
}

// SensitiveGatesFor returns the sensitive gates for a field, nil if unset.
func (u *UserChartSignature) SensitiveGatesFor(f FieldName) []int {
	if u == nil {
		return nil
	}
	return u.FieldAssignments[f].SensitiveGates
}

// NeutralResonance is the prior used when a field has no history.
const NeutralResonance = 0.5

// ResonanceFor returns the historical resonance for a field, 0.5 if absent.
func (u *UserChartSignature) ResonanceFor(f FieldName) float64 {
	if u == nil {
		return NeutralResonance
	}
	if r, ok := u.ResonanceHistory[f]; ok {
		return r
	}
	return NeutralResonance
}

// FieldVector is the computed activation signal for one field. Ephemeral:
// recomputed on every request from the cache snapshot and the signature.
type FieldVector struct {
	Field               FieldName   `json:"field"`
	ChartSystem         ChartSystem `json:"chart_system"`
	ActiveGates         []int       `json:"active_gates"`
	TransitPressure     float64     `json:"transit_pressure"`
	HistoricalResonance float64     `json:"historical_resonance"`
	Weight              float64     `json:"weight"`
	DominantPlanets     []string    `json:"dominant_planets"`
}

// Archetype is the thematic label attached to a gate.
type Archetype struct {
	Theme string `json:"theme"`
}
