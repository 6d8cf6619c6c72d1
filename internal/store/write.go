package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/quilt/internal/ir"
	"github.com/roach88/quilt/internal/program"
)

// ErrNotReparsable is returned by SaveProgram when a program's Quil text
// does not parse back to the same content, e.g. a Number that is not finite.
var ErrNotReparsable = errors.New("program text does not parse back to the same program")

// SaveProgram stores p under name and returns the new record.
//
// The program is stored as its canonical Quil text. Saving the same
// content twice creates two records with distinct ids and seqs; use
// FindByHash to detect duplicates first if needed.
func (s *Store) SaveProgram(ctx context.Context, name string, p *program.Program) (ProgramRecord, error) {
	if name == "" {
		return ProgramRecord{}, fmt.Errorf("program name must not be empty")
	}
	if p == nil {
		return ProgramRecord{}, fmt.Errorf("program must not be nil")
	}
	shots, err := shotsToColumn(p.NumShots)
	if err != nil {
		return ProgramRecord{}, err
	}

	quil := p.String()
	hash := p.Hash()
	if err := checkReparse(quil, hash); err != nil {
		return ProgramRecord{}, err
	}
	info := ProgramInfo{
		ID:          s.newID(),
		Name:        name,
		ContentHash: hash,
		NumShots:    p.NumShots,
		IRVersion:   ir.IRVersion,
		QuilVersion: ir.QuilVersion,
	}

	rows := IndexCalibrations(p)
	qubitJSON := make([]string, len(rows))
	for i, row := range rows {
		qubitJSON[i], err = marshalQubits(row.Qubits)
		if err != nil {
			return ProgramRecord{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProgramRecord{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM programs").Scan(&info.Seq); err != nil {
		return ProgramRecord{}, fmt.Errorf("allocate seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO programs (id, name, content_hash, num_shots, quil, seq, ir_version, quil_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, info.ID, info.Name, info.ContentHash, shots, quil, info.Seq, info.IRVersion, info.QuilVersion)
	if err != nil {
		return ProgramRecord{}, fmt.Errorf("insert program: %w", err)
	}

	for i, row := range rows {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO calibrations (program_id, position, kind, name, qubits, parameter_count, quil)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, info.ID, row.Position, row.Kind, row.Name, qubitJSON[i], row.ParameterCount, row.Quil)
		if err != nil {
			return ProgramRecord{}, fmt.Errorf("insert calibration %d: %w", row.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ProgramRecord{}, fmt.Errorf("commit: %w", err)
	}

	s.cachePut(info, p)
	s.logger.Info("program saved",
		zap.String("id", info.ID),
		zap.String("name", info.Name),
		zap.Int64("seq", info.Seq),
		zap.Int("calibrations", len(rows)),
	)

	return ProgramRecord{ProgramInfo: info, Program: p.Clone()}, nil
}

// checkReparse verifies that quil reads back to a program hashing to hash,
// which is what LoadProgram checks.
func checkReparse(quil, hash string) error {
	reparsed, err := program.Parse(quil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotReparsable, err)
	}
	if got := reparsed.Hash(); got != hash {
		return fmt.Errorf("%w: renders as %q", ErrNotReparsable, reparsed.String())
	}
	return nil
}

// DeleteProgram removes a stored program and its calibration rows.
// Returns ErrNotFound if no record has the given id.
func (s *Store) DeleteProgram(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM programs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if s.cache != nil {
		s.cache.Remove(id)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.logger.Info("program deleted", zap.String("id", id))
	return nil
}
