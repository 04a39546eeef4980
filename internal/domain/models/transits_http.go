package models

// Requests for the transit HTTP endpoints. Defined in domain for consistency and reuse.

// FieldVectorsRequest carries the caller-owned chart signature.
type FieldVectorsRequest struct {
	FieldAssignments map[FieldName]FieldAssignment `json:"field_assignments" validate:"dive,keys,oneof=Body Mind Heart Soul Spirit Shadow Light Void Unity,endkeys"`
	ResonanceHistory map[FieldName]float64         `json:"resonance_history" validate:"dive,gte=0,lte=1"`
}

// Signature converts the request body into the domain signature.
func (r *FieldVectorsRequest) Signature() *UserChartSignature {
	return &UserChartSignature{
		FieldAssignments: r.FieldAssignments,
		ResonanceHistory: r.ResonanceHistory,
	}
}

// HistoryRequest selects archived placements for one projection variant.
type HistoryRequest struct {
	Chart string `query:"chart" json:"chart" default:"tropical" validate:"oneof=tropical sidereal draconic"`
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Limit int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}
