package harness

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// PropertyViolation is a failed conversion-wide property.
type PropertyViolation struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

func (v PropertyViolation) String() string {
	return v.Property + ": " + v.Message
}

// CheckProperties runs a scenario twice and checks the properties every
// successful conversion must have:
//
//   - determinism: both runs produce byte-identical output
//   - geometry: every geometry is a Point with finite coordinates
//   - properties: every property value is a string
//
// Scenarios whose conversion fails are checked for determinism of the
// failing stage only.
func CheckProperties(scenario *Scenario) ([]PropertyViolation, error) {
	first, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	second, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	var violations []PropertyViolation
	if first.Output != second.Output || first.Stage != second.Stage {
		violations = append(violations, PropertyViolation{
			Property: "determinism",
			Message:  "two runs of the same input differ",
		})
	}

	for i, f := range first.Features() {
		if f.Geometry != nil {
			p, ok := f.Geometry.(orb.Point)
			switch {
			case !ok:
				violations = append(violations, PropertyViolation{"geometry", fmt.Sprintf("feature %d: %s is not a Point", i, f.Geometry.GeoJSONType())})
			case !finite(p.Lon()) || !finite(p.Lat()):
				violations = append(violations, PropertyViolation{"geometry", fmt.Sprintf("feature %d: %v is not finite", i, p)})
			}
		}
		for k, v := range f.Properties {
			if _, ok := v.(string); !ok {
				violations = append(violations, PropertyViolation{"properties", fmt.Sprintf("feature %d: %s is %T", i, k, v)})
			}
		}
	}
	return violations, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
