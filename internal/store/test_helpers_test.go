package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/quilt/internal/program"
	"github.com/roach88/quilt/internal/testutil"
)

const calibratedQuil = `DECLARE ro BIT[2]
DEFCAL RX(%theta) q:
    SHIFT-PHASE q "rf" %theta
DEFCAL RX(pi / 2) 0:
    NONBLOCKING PULSE 0 "rf" drag_gaussian(alpha: -0.5, duration: 6e-08, sigma: 1.5e-08)
DEFCAL MEASURE 0 addr:
    PULSE 0 "ro_tx" flat(duration: 2e-06, iq: 1)
H 0
CNOT 0 1
MEASURE 0 ro[0]
`

// createTestStore creates a new file-backed store for testing.
// Record ids are sequential so ordering assertions are deterministic.
func createTestStore(t *testing.T, cacheSize int) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, nil, cacheSize)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	s.newID = testutil.NewSequentialIDs("prog").Next
	return s
}

// parseTestProgram parses Quil text or fails the test.
func parseTestProgram(t *testing.T, text string, opts ...program.Option) *program.Program {
	t.Helper()
	p, err := program.Parse(text, opts...)
	require.NoError(t, err)
	return p
}
