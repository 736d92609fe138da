// Package engine runs one CASE-to-GeoJSON conversion.
//
// A run is strictly sequential:
//
//  1. Parse the input as JSON.
//  2. Expand it to RDF statements (JSON-LD, offline).
//  3. Extract default-graph statements into a fresh in-memory quad store.
//  4. Evaluate the location pattern against the store.
//  5. Build one GeoJSON Feature per solution row.
//
// Each run owns its store and closes it before returning. Nothing is shared
// between runs, so independent runs may execute concurrently (see
// internal/batch).
//
// Output is deterministic: the same input and config produce byte-identical
// GeoJSON. The run ID is used only in logs and reports.
//
// Failures are reported as *Error carrying the Stage that failed. Per-row
// problems that policy allows are returned as Defects on the Result.
package engine
