package harness

import (
	"github.com/paulmach/orb/geojson"

	"github.com/roach88/case2geojson/internal/engine"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Output is the GeoJSON text. Empty if the conversion failed.
	Output string `json:"output,omitempty"`

	// Stage and ConversionError are set when the conversion failed.
	Stage           engine.Stage `json:"stage,omitempty"`
	ConversionError string       `json:"conversion_error,omitempty"`

	Defects []engine.Defect `json:"defects"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	collection *geojson.FeatureCollection
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Defects: []engine.Defect{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Features returns the converted features, or nil if the conversion failed.
func (r *Result) Features() []*geojson.Feature {
	if r.collection == nil {
		return nil
	}
	return r.collection.Features
}
