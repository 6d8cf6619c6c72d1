package store

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/roach88/quilt/internal/ir"
	"github.com/roach88/quilt/internal/program"
)

// Calibration kinds stored in calibrations.kind.
const (
	KindGate    = "gate"
	KindMeasure = "measure"
)

// IndexCalibrations lists p's calibrations as index records in definition
// order: gate calibrations first, then measure calibrations. Program fields
// are left empty.
func IndexCalibrations(p *program.Program) []CalibrationRecord {
	cals := p.Calibrations()
	measures := p.MeasureCalibrations()
	records := make([]CalibrationRecord, 0, len(cals)+len(measures))

	for _, c := range cals {
		records = append(records, CalibrationRecord{
			Position:       len(records),
			Kind:           KindGate,
			Name:           c.Name(),
			Qubits:         qubitStrings(c.Qubits()),
			ParameterCount: len(c.Parameters()),
			Quil:           c.String(),
		})
	}
	for _, m := range measures {
		count := 0
		if m.Parameter() != "" {
			count = 1
		}
		// A measure calibration without a qubit matches every qubit.
		qubits := []string{}
		if q := m.Qubit(); q != nil {
			qubits = []string{q.String()}
		}
		records = append(records, CalibrationRecord{
			Position:       len(records),
			Kind:           KindMeasure,
			Name:           "MEASURE",
			Qubits:         qubits,
			ParameterCount: count,
			Quil:           m.String(),
		})
	}
	return records
}

func qubitStrings(qubits []ir.Qubit) []string {
	out := make([]string, len(qubits))
	for i, q := range qubits {
		out[i] = q.String()
	}
	return out
}

// marshalQubits converts qubit labels to JSON TEXT for storage.
func marshalQubits(qubits []string) (string, error) {
	if qubits == nil {
		qubits = []string{}
	}
	data, err := json.Marshal(qubits)
	if err != nil {
		return "", fmt.Errorf("marshal qubits: %w", err)
	}
	return string(data), nil
}

// unmarshalQubits parses JSON TEXT back to qubit labels.
func unmarshalQubits(data string) ([]string, error) {
	qubits := []string{}
	if data == "" {
		return qubits, nil
	}
	if err := json.Unmarshal([]byte(data), &qubits); err != nil {
		return nil, fmt.Errorf("unmarshal qubits: %w", err)
	}
	return qubits, nil
}

// shotsToColumn converts a shot count to its INTEGER column value.
// SQLite integers are signed 64-bit.
func shotsToColumn(n uint64) (int64, error) {
	if n == 0 {
		return 0, fmt.Errorf("num shots must be at least 1")
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("num shots %d exceeds storable range", n)
	}
	return int64(n), nil
}
