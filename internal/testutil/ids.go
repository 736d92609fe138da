package testutil

import "sync"

// FixedRunIDGenerator returns predetermined run IDs in order, then keeps
// returning the last one.
//
// Log lines and reports that carry the run ID are then byte-identical
// across runs of the same test.
//
// Thread-safety: FixedRunIDGenerator is safe for concurrent use via internal mutex.
type FixedRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDGenerator creates a fixed generator.
// With no ids, Generate() returns "test-run-default".
//
//	gen := NewFixedRunIDGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // "run-2"
func NewFixedRunIDGenerator(ids ...string) *FixedRunIDGenerator {
	var kept []string
	for _, id := range ids {
		if id != "" {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		kept = []string{"test-run-default"}
	}
	return &FixedRunIDGenerator{ids: kept}
}

// Generate returns the next run ID.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.ids[g.idx]
	if g.idx < len(g.ids)-1 {
		g.idx++
	}
	return id
}
