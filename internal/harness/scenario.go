package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/case2geojson/internal/engine"
)

// Scenario defines one conversion and the checks on its result.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the path of the JSON-LD document, relative to the scenario
	// file once loaded with LoadScenario.
	Input string `yaml:"input,omitempty"`

	// Document is an inline JSON-LD document, used when Input is empty.
	Document string `yaml:"document,omitempty"`

	// Config overrides the default settings, using config file keys.
	Config yaml.Node `yaml:"config,omitempty"`

	// RunID is the fixed run ID. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	Assertions []Assertion `yaml:"assertions"`

	// Dir is the directory the scenario was loaded from.
	Dir string `yaml:"-"`
}

// Assertion validates the conversion result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected number (feature_count, geometry_count, defect_count).
	Count *int `yaml:"count,omitempty"`

	// Index selects the feature (feature).
	Index int `yaml:"index,omitempty"`

	// Geometry is "point" or "none" (feature).
	Geometry string `yaml:"geometry,omitempty"`

	// Coordinates is the expected [longitude, latitude] (feature).
	Coordinates []float64 `yaml:"coordinates,flow,omitempty"`

	// Properties must all be present with these values (feature).
	Properties map[string]string `yaml:"properties,omitempty"`

	// Absent lists property keys that must not be present (feature).
	Absent []string `yaml:"absent,omitempty"`

	// Kind filters defects (defect_count). Empty counts all defects.
	Kind string `yaml:"kind,omitempty"`

	// Stage is the expected failing stage (error).
	Stage string `yaml:"stage,omitempty"`
}

// Assertion type constants.
const (
	AssertFeatureCount  = "feature_count"
	AssertGeometryCount = "geometry_count"
	AssertFeature       = "feature"
	AssertDefectCount   = "defect_count"
	AssertError         = "error"
)

// Geometry expectations.
const (
	GeometryPoint = "point"
	GeometryNone  = "none"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Input is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	scenario.Dir = filepath.Dir(path)
	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) {
		scenario.Input = filepath.Join(scenario.Dir, scenario.Input)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Input paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Input == "" && s.Document == "" {
		return fmt.Errorf("one of input or document is required")
	}
	if s.Input != "" && s.Document != "" {
		return fmt.Errorf("input and document are mutually exclusive")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("at least one assertion is required")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFeatureCount, AssertGeometryCount, AssertDefectCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertFeature:
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative", index)
		}
		switch a.Geometry {
		case "", GeometryPoint, GeometryNone:
		default:
			return fmt.Errorf("assertions[%d]: geometry must be %q or %q", index, GeometryPoint, GeometryNone)
		}
		if a.Coordinates != nil && len(a.Coordinates) != 2 {
			return fmt.Errorf("assertions[%d]: coordinates must be [longitude, latitude]", index)
		}
		if a.Coordinates != nil && a.Geometry == GeometryNone {
			return fmt.Errorf("assertions[%d]: coordinates given with geometry none", index)
		}
	case AssertError:
		switch engine.Stage(a.Stage) {
		case engine.StageInput, engine.StageExpansion, engine.StageGraph, engine.StageQuery, engine.StageDecode:
		default:
			return fmt.Errorf("assertions[%d]: unknown stage %q", index, a.Stage)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
