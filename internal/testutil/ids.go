// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs hands out predictable record ids for tests: prefix-001,
// prefix-002 and so on. Real stores use time-ordered UUIDs, which cannot be
// asserted on.
//
// Safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator whose first id is prefix-001.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next id.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n)
}

// Reset restarts the sequence so the next id is prefix-001 again.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
