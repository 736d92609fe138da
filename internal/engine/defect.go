package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/roach88/case2geojson/internal/feature"
	"github.com/roach88/case2geojson/internal/location"
)

// DefectKind classifies a non-fatal problem.
type DefectKind string

const (
	// DefectInvalidCoordinate: a coordinate literal did not decode; the
	// feature was emitted without geometry.
	DefectInvalidCoordinate DefectKind = "invalid-coordinate"

	// DefectNonLiteral: a property variable was bound to a node, not a
	// literal; the property was left out.
	DefectNonLiteral DefectKind = "non-literal-binding"

	// DefectDuplicateLocation: a further row for an already emitted
	// location was dropped (facet_rows=first).
	DefectDuplicateLocation DefectKind = "duplicate-location"
)

// Defect is a problem with one row that did not stop the run.
type Defect struct {
	Kind     DefectKind `json:"kind"`
	Row      int        `json:"row"`
	Location string     `json:"location,omitempty"`
	Field    string     `json:"field,omitempty"`
	Value    string     `json:"value,omitempty"`
	Message  string     `json:"message"`
}

func (d Defect) String() string {
	s := fmt.Sprintf("%s: row %d", d.Kind, d.Row)
	if d.Location != "" {
		s += " (" + d.Location + ")"
	}
	if d.Field != "" {
		s += fmt.Sprintf(": ?%s", d.Field)
	}
	if d.Value != "" {
		s += fmt.Sprintf("=%q", d.Value)
	}
	return s + ": " + d.Message
}

func fromRowDefect(d location.Defect) Defect {
	var loc string
	if d.Location != nil {
		loc = d.Location.Value()
	}
	return Defect{
		Kind:     DefectNonLiteral,
		Row:      d.Row,
		Location: loc,
		Field:    d.Variable,
		Message:  d.Message,
	}
}

func fromFeatureDefect(d feature.Defect) Defect {
	return Defect{
		Kind:     DefectInvalidCoordinate,
		Row:      d.Row,
		Location: d.Location,
		Field:    d.Field,
		Value:    d.Value,
		Message:  d.Message,
	}
}

// Report is the machine-readable summary written by --report.
type Report struct {
	RunID   string   `json:"run_id"`
	Input   string   `json:"input,omitempty"`
	Error   string   `json:"error,omitempty"`
	Stage   Stage    `json:"stage,omitempty"`
	Stats   Stats    `json:"stats"`
	Defects []Defect `json:"defects"`
}

// Report summarises r for input.
func (r *Result) Report(input string) Report {
	defects := r.Defects
	if defects == nil {
		defects = []Defect{}
	}
	return Report{
		RunID:   r.RunID,
		Input:   input,
		Stats:   r.Stats,
		Defects: defects,
	}
}

// FailureReport summarises a failed run.
func FailureReport(input string, err error) Report {
	return Report{
		Input:   input,
		Error:   err.Error(),
		Stage:   StageOf(err),
		Defects: []Defect{},
	}
}

// WriteReports writes reports to path as indented JSON. A single report is
// written as an object, several as an array.
func WriteReports(path string, reports ...Report) error {
	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
