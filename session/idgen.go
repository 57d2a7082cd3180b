package session

import (
	"sync"

	"github.com/google/uuid"
)

// UUIDv7Generator allocates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, so identifiers
// sort by allocation time - helpful when reading fact and activation
// logs.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NextID returns a new UUIDv7 as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NextID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedIDs returns predetermined identifiers for testing.
//
// Tests provide a known sequence and can then assert exact identifiers
// in results and golden output.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := session.NewFixedIDs("fact-1", "fact-2")
//	gen.NextID() // "fact-1"
//	gen.NextID() // "fact-2"
//	gen.NextID() // panic: all ids exhausted
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// NextID returns the next predetermined identifier.
//
// Panics when all ids are consumed. Fail-fast catches test
// misconfiguration (the test allocated more ids than it declared).
func (g *FixedIDs) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDs: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
