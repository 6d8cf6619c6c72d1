package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/quilt/internal/program"
)

// ProgramInfo is the metadata of a stored program.
type ProgramInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentHash string `json:"contentHash"`
	NumShots    uint64 `json:"numShots"`
	Seq         int64  `json:"seq"`
	IRVersion   string `json:"irVersion"`
	QuilVersion string `json:"quilVersion"`
}

// ProgramRecord is a stored program with its parsed content.
type ProgramRecord struct {
	ProgramInfo
	Program *program.Program `json:"-"`
}

// CalibrationRecord is one indexed calibration of a stored program.
type CalibrationRecord struct {
	ProgramID      string   `json:"programId"`
	ProgramName    string   `json:"programName"`
	Position       int      `json:"position"`
	Kind           string   `json:"kind"`
	Name           string   `json:"name"`
	Qubits         []string `json:"qubits"`
	ParameterCount int      `json:"parameterCount"`
	Quil           string   `json:"quil"`
}

type cachedProgram struct {
	info    ProgramInfo
	program *program.Program
}

func (s *Store) cachePut(info ProgramInfo, p *program.Program) {
	if s.cache == nil {
		return
	}
	s.cache.Add(info.ID, cachedProgram{info: info, program: p.Clone()})
}

const programColumns = "id, name, content_hash, num_shots, seq, ir_version, quil_version, quil"

// LoadProgram returns the stored program with the given id.
// Returns ErrNotFound if no record has that id.
func (s *Store) LoadProgram(ctx context.Context, id string) (ProgramRecord, error) {
	if s.cache != nil {
		if c, ok := s.cache.Get(id); ok {
			s.logger.Debug("program cache hit", zap.String("id", id))
			return ProgramRecord{ProgramInfo: c.info, Program: c.program.Clone()}, nil
		}
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+programColumns+" FROM programs WHERE id = ?", id)
	rec, err := s.scanProgram(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ProgramRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return ProgramRecord{}, err
	}
	return rec, nil
}

// LoadProgramByName returns the most recently saved program with the
// given name. Returns ErrNotFound if none exists.
func (s *Store) LoadProgramByName(ctx context.Context, name string) (ProgramRecord, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM programs
		WHERE name = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ProgramRecord{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return ProgramRecord{}, fmt.Errorf("query program by name: %w", err)
	}
	return s.LoadProgram(ctx, id)
}

// ListPrograms returns metadata for all stored programs.
// Results are ordered by seq ASC, id ASC COLLATE BINARY.
func (s *Store) ListPrograms(ctx context.Context) ([]ProgramInfo, error) {
	return s.queryInfos(ctx, "")
}

// FindByHash returns metadata for every stored program whose content hash
// equals hash, ordered like ListPrograms.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]ProgramInfo, error) {
	return s.queryInfos(ctx, "WHERE content_hash = ?", hash)
}

func (s *Store) queryInfos(ctx context.Context, where string, args ...any) ([]ProgramInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content_hash, num_shots, seq, ir_version, quil_version
		FROM programs `+where+`
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	// Initialize to empty slice (not nil) for consistent API behavior
	result := []ProgramInfo{}
	for rows.Next() {
		var info ProgramInfo
		var shots int64
		if err := rows.Scan(&info.ID, &info.Name, &info.ContentHash, &shots, &info.Seq, &info.IRVersion, &info.QuilVersion); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		info.NumShots = uint64(shots)
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	return result, nil
}

// FindCalibrations returns every stored calibration named name across all
// programs. Measure calibrations are found under the name "MEASURE".
// Results are ordered by the owning program's seq, then position.
func (s *Store) FindCalibrations(ctx context.Context, name string) ([]CalibrationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.program_id, p.name, c.position, c.kind, c.name, c.qubits, c.parameter_count, c.quil
		FROM calibrations c
		JOIN programs p ON p.id = c.program_id
		WHERE c.name = ?
		ORDER BY p.seq ASC, c.position ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query calibrations: %w", err)
	}
	defer rows.Close()

	result := []CalibrationRecord{}
	for rows.Next() {
		var rec CalibrationRecord
		var qubits string
		if err := rows.Scan(&rec.ProgramID, &rec.ProgramName, &rec.Position, &rec.Kind, &rec.Name, &qubits, &rec.ParameterCount, &rec.Quil); err != nil {
			return nil, fmt.Errorf("scan calibration: %w", err)
		}
		if rec.Qubits, err = unmarshalQubits(qubits); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calibrations: %w", err)
	}
	return result, nil
}

// scanProgram reads a programColumns row and reparses its Quil text.
// The reparsed program must hash to the stored content hash.
func (s *Store) scanProgram(row *sql.Row) (ProgramRecord, error) {
	var info ProgramInfo
	var shots int64
	var quil string
	if err := row.Scan(&info.ID, &info.Name, &info.ContentHash, &shots, &info.Seq, &info.IRVersion, &info.QuilVersion, &quil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProgramRecord{}, err
		}
		return ProgramRecord{}, fmt.Errorf("scan program: %w", err)
	}
	info.NumShots = uint64(shots)

	p, err := program.Parse(quil, program.WithNumShots(info.NumShots))
	if err != nil {
		return ProgramRecord{}, fmt.Errorf("program %s: %w", info.ID, err)
	}
	if got := p.Hash(); got != info.ContentHash {
		return ProgramRecord{}, fmt.Errorf("program %s: content hash mismatch: stored %s, computed %s", info.ID, info.ContentHash, got)
	}

	s.cachePut(info, p)
	return ProgramRecord{ProgramInfo: info, Program: p}, nil
}
