// Package harness runs conversion scenarios described in YAML.
//
// # Scenario Format
//
//	name: scenario_b
//	description: "Address and coordinates"
//	input: inputs/paris.jsonld     # relative to the scenario file
//	config:                        # optional, same keys as a config file
//	  policy:
//	    invalid_coordinate: fail
//	assertions:
//	  - type: feature_count
//	    count: 1
//	  - type: feature
//	    index: 0
//	    geometry: point
//	    coordinates: [2.331199, 48.860346]
//	    properties: { locality: Paris }
//	    absent: [region]
//	  - type: defect_count
//	    kind: invalid-coordinate
//	    count: 0
//
// A document may be given inline with `document:` instead of `input:`.
//
// # Assertion Types
//
//   - feature_count: exact number of features
//   - geometry_count: exact number of features with a Point
//   - feature: geometry presence, coordinates, property values and absent keys of one feature
//   - defect_count: number of defects, optionally of one kind
//   - error: the conversion must fail at the given stage
//
// A conversion error with no error assertion fails the scenario.
//
// # Golden Files
//
// If golden/<name>.golden exists next to the scenario, the GeoJSON output
// must match it byte for byte. `case2geojson test --update` rewrites it.
//
// # Determinism
//
// Every scenario runs with a fixed run ID and a fresh in-memory store, and
// CheckProperties reruns it to confirm identical output.
package harness
