package program

import "github.com/roach88/quilt/internal/ir"

// CalibrationSet is a program's calibration catalog, partitioned into gate
// calibrations and measurement calibrations. Both partitions keep insertion
// order. The zero value is an empty set ready to use.
type CalibrationSet struct {
	calibrations        []*ir.Calibration
	measureCalibrations []*ir.MeasureCalibration
}

// Insert appends a copy of a gate calibration.
func (s *CalibrationSet) Insert(cal *ir.Calibration) {
	s.calibrations = append(s.calibrations, cal.CloneCalibration())
}

// InsertMeasure appends a copy of a measurement calibration.
func (s *CalibrationSet) InsertMeasure(cal *ir.MeasureCalibration) {
	s.measureCalibrations = append(s.measureCalibrations, cal.CloneMeasureCalibration())
}

// Calibrations returns a snapshot of the gate calibrations.
func (s *CalibrationSet) Calibrations() []*ir.Calibration {
	out := make([]*ir.Calibration, len(s.calibrations))
	for i, c := range s.calibrations {
		out[i] = c.CloneCalibration()
	}
	return out
}

// MeasureCalibrations returns a snapshot of the measurement calibrations.
func (s *CalibrationSet) MeasureCalibrations() []*ir.MeasureCalibration {
	out := make([]*ir.MeasureCalibration, len(s.measureCalibrations))
	for i, c := range s.measureCalibrations {
		out[i] = c.CloneMeasureCalibration()
	}
	return out
}

// Len returns the total number of calibrations of both kinds.
func (s *CalibrationSet) Len() int {
	return len(s.calibrations) + len(s.measureCalibrations)
}

// IsEmpty reports whether the set holds no calibrations.
func (s *CalibrationSet) IsEmpty() bool {
	return s.Len() == 0
}

// Clone returns a deep copy.
func (s *CalibrationSet) Clone() *CalibrationSet {
	return &CalibrationSet{
		calibrations:        s.Calibrations(),
		measureCalibrations: s.MeasureCalibrations(),
	}
}

// instructions returns every calibration as an instruction, gate
// calibrations first.
func (s *CalibrationSet) instructions() []ir.Instruction {
	out := make([]ir.Instruction, 0, s.Len())
	for _, c := range s.calibrations {
		out = append(out, c.CloneCalibration())
	}
	for _, c := range s.measureCalibrations {
		out = append(out, c.CloneMeasureCalibration())
	}
	return out
}
