package testutil

import "fmt"

// SequenceIDGenerator returns "<prefix>-1", "<prefix>-2", ... so build
// records in tests have predictable ids.
//
// Implements store.IDGenerator. Safe for concurrent use.
type SequenceIDGenerator struct {
	prefix string
	clock  *DeterministicClock
}

// NewSequenceIDGenerator creates a generator. An empty prefix means "build".
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "build"
	}
	return &SequenceIDGenerator{prefix: prefix, clock: NewDeterministicClock()}
}

// Generate returns the next id.
func (g *SequenceIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.clock.Next())
}

// Reset restarts the sequence at 1.
func (g *SequenceIDGenerator) Reset() {
	g.clock.Reset()
}
