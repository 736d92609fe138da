// Package store provides the SQLite-backed graph store for a conversion run.
//
// The store holds a set of quads in the default graph:
//   - Inserts are idempotent: a quad is identified by term.QuadID and
//     ON CONFLICT(id) DO NOTHING reports whether it was new
//   - Nothing is ever removed
//   - Every row carries seq, its position in insertion order; reads
//     order by seq ASC, id COLLATE BINARY ASC so results never depend
//     on SQLite's physical row order
//
// # Database Configuration
//
//   - WAL mode for file-backed stores (in-memory stores ignore it)
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// A run normally uses Open(":memory:"); a file path is accepted so a run's
// graph can be kept for inspection.
package store
