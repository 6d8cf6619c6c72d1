package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quilt/internal/program"
)

func TestSaveProgram(t *testing.T) {
	s := createTestStore(t, 0)
	ctx := context.Background()
	p := parseTestProgram(t, calibratedQuil, program.WithNumShots(100))

	rec, err := s.SaveProgram(ctx, "bell", p)
	require.NoError(t, err)

	assert.Equal(t, "prog-001", rec.ID)
	assert.Equal(t, "bell", rec.Name)
	assert.Equal(t, int64(1), rec.Seq)
	assert.Equal(t, uint64(100), rec.NumShots)
	assert.Equal(t, p.Hash(), rec.ContentHash)
	assert.Equal(t, "1", rec.IRVersion)
	assert.Equal(t, calibratedQuil, rec.Program.String())

	var quil string
	require.NoError(t, s.db.QueryRow("SELECT quil FROM programs WHERE id = ?", rec.ID).Scan(&quil))
	assert.Equal(t, calibratedQuil, quil)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM calibrations WHERE program_id = ?", rec.ID).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestSaveProgram_SeqIncrements(t *testing.T) {
	s := createTestStore(t, 0)
	ctx := context.Background()
	p := parseTestProgram(t, "H 0\n")

	for want := int64(1); want <= 3; want++ {
		rec, err := s.SaveProgram(ctx, "h", p)
		require.NoError(t, err)
		assert.Equal(t, want, rec.Seq)
	}
}

func TestSaveProgram_ReturnsIndependentCopy(t *testing.T) {
	s := createTestStore(t, 0)
	p := parseTestProgram(t, "H 0\n")

	rec, err := s.SaveProgram(context.Background(), "h", p)
	require.NoError(t, err)

	p.AddInstructions(parseTestProgram(t, "X 1\n").BodyInstructions())
	assert.Equal(t, "H 0\n", rec.Program.String())
}

func TestSaveProgram_Validation(t *testing.T) {
	s := createTestStore(t, 0)
	ctx := context.Background()

	_, err := s.SaveProgram(ctx, "", program.New())
	assert.Error(t, err)

	_, err = s.SaveProgram(ctx, "nil", nil)
	assert.Error(t, err)

	_, err = s.SaveProgram(ctx, "zero", program.New(program.WithNumShots(0)))
	assert.Error(t, err)

	_, err = s.SaveProgram(ctx, "huge", program.New(program.WithNumShots(1<<63)))
	assert.Error(t, err)

	programs, err := s.ListPrograms(ctx)
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestSaveProgram_DuplicateIDRollsBack(t *testing.T) {
	s := createTestStore(t, 0)
	ctx := context.Background()
	s.newID = func() string { return "fixed" }

	_, err := s.SaveProgram(ctx, "first", parseTestProgram(t, calibratedQuil))
	require.NoError(t, err)

	_, err = s.SaveProgram(ctx, "second", parseTestProgram(t, calibratedQuil))
	require.Error(t, err)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM calibrations").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestDeleteProgram(t *testing.T) {
	s := createTestStore(t, 8)
	ctx := context.Background()

	rec, err := s.SaveProgram(ctx, "bell", parseTestProgram(t, calibratedQuil))
	require.NoError(t, err)

	require.NoError(t, s.DeleteProgram(ctx, rec.ID))

	_, err = s.LoadProgram(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "cached copy must be evicted")

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM calibrations").Scan(&count))
	assert.Zero(t, count, "calibration rows must cascade")

	err = s.DeleteProgram(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
