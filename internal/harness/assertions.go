package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"github.com/roach88/case2geojson/internal/engine"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. A failed conversion is itself a failure unless an error
// assertion expects it.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	expectsError := false
	for _, a := range assertions {
		if a.Type == AssertError {
			expectsError = true
		}
	}
	if result.ConversionError != "" && !expectsError {
		errs = append(errs, (&AssertionError{
			Type:     "conversion",
			Expected: "conversion succeeds",
			Actual:   fmt.Sprintf("%s error: %s", result.Stage, result.ConversionError),
		}).Error())
	}

	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFeatureCount:
		return assertCount(a.Type, len(result.Features()), *a.Count)
	case AssertGeometryCount:
		n := 0
		for _, f := range result.Features() {
			if f.Geometry != nil {
				n++
			}
		}
		return assertCount(a.Type, n, *a.Count)
	case AssertDefectCount:
		n := 0
		for _, d := range result.Defects {
			if a.Kind == "" || string(d.Kind) == a.Kind {
				n++
			}
		}
		return assertCount(a.Type, n, *a.Count)
	case AssertFeature:
		return assertFeature(result, a)
	case AssertError:
		return assertError(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertCount(typ string, actual, expected int) error {
	if actual == expected {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
	}
}

// assertFeature checks one feature. Properties use subset semantics; keys
// listed in Absent must not be present at all.
func assertFeature(result *Result, a Assertion) error {
	features := result.Features()
	if a.Index >= len(features) {
		return &AssertionError{
			Type:     AssertFeature,
			Expected: fmt.Sprintf("feature at index %d", a.Index),
			Actual:   fmt.Sprintf("%d features", len(features)),
		}
	}
	f := features[a.Index]

	switch a.Geometry {
	case GeometryPoint:
		if _, ok := f.Geometry.(orb.Point); !ok {
			return &AssertionError{Type: AssertFeature, Expected: "Point geometry", Actual: fmt.Sprintf("%v", f.Geometry)}
		}
	case GeometryNone:
		if f.Geometry != nil {
			return &AssertionError{Type: AssertFeature, Expected: "no geometry", Actual: fmt.Sprintf("%v", f.Geometry)}
		}
	}

	if a.Coordinates != nil {
		want := orb.Point{a.Coordinates[0], a.Coordinates[1]}
		got, ok := f.Geometry.(orb.Point)
		if !ok || got != want {
			return &AssertionError{
				Type:     AssertFeature,
				Expected: fmt.Sprintf("coordinates %v", want),
				Actual:   fmt.Sprintf("%v", f.Geometry),
			}
		}
	}

	keys := make([]string, 0, len(a.Properties))
	for k := range a.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		got, ok := f.Properties[k]
		if !ok {
			return &AssertionError{Type: AssertFeature, Expected: fmt.Sprintf("property %s=%q", k, a.Properties[k]), Actual: "missing"}
		}
		if got != a.Properties[k] {
			return &AssertionError{Type: AssertFeature, Expected: fmt.Sprintf("property %s=%q", k, a.Properties[k]), Actual: fmt.Sprintf("%q", got)}
		}
	}

	for _, k := range a.Absent {
		if v, ok := f.Properties[k]; ok {
			return &AssertionError{Type: AssertFeature, Expected: fmt.Sprintf("no property %s", k), Actual: fmt.Sprintf("%s=%v", k, v)}
		}
	}
	return nil
}

func assertError(result *Result, a Assertion) error {
	if result.ConversionError == "" {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("%s error", a.Stage),
			Actual:   "conversion succeeded",
		}
	}
	if result.Stage != engine.Stage(a.Stage) {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("%s error", a.Stage),
			Actual:   fmt.Sprintf("%s error: %s", result.Stage, result.ConversionError),
		}
	}
	return nil
}
