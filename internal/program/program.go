// Package program aggregates Quil instructions into a Program.
//
// A Program keeps memory declarations (keyed by region name, insertion
// ordered), frame definitions (keyed by frame), waveform definitions (keyed
// by name), a calibration catalog and the ordered body. Every instruction
// added is routed to exactly one of them. Declarations are hoisted:
// Instructions() always lists them ahead of the body regardless of where
// they appeared in the source. Frame and waveform definitions are hoisted
// the same way when the program is rendered.
//
// Programs are values. Every accessor returns copies, and Clone shares no
// storage with the receiver, so a Program is never aliased.
package program

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/quilt/internal/ir"
	"github.com/roach88/quilt/internal/parser"
)

// DefaultNumShots is the shot count of a Program unless set otherwise.
const DefaultNumShots uint64 = 1

// Program is a parsed or constructed Quil program.
type Program struct {
	// NumShots is how many times the program is meant to run. It is
	// independent of the program content.
	NumShots uint64

	memory       *definitions[*ir.Declaration]
	frames       *definitions[*ir.FrameDefinition]
	waveforms    *definitions[*ir.WaveformDefinition]
	calibrations *CalibrationSet
	body         []ir.Instruction
}

// Option configures a Program at construction.
type Option func(*Program)

// WithNumShots sets the shot count.
func WithNumShots(n uint64) Option {
	return func(p *Program) {
		p.NumShots = n
	}
}

// New returns an empty program.
func New(opts ...Option) *Program {
	p := &Program{
		NumShots:     DefaultNumShots,
		memory:       newMemoryRegions(),
		frames:       newFrameDefinitions(),
		waveforms:    newWaveformDefinitions(),
		calibrations: &CalibrationSet{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromInstruction returns a program holding a single instruction.
func FromInstruction(instr ir.Instruction, opts ...Option) *Program {
	p := New(opts...)
	p.AddInstruction(instr)
	return p
}

// FromInstructions returns a program holding instrs in order.
func FromInstructions(instrs []ir.Instruction, opts ...Option) *Program {
	p := New(opts...)
	p.AddInstructions(instrs)
	return p
}

// ParseError reports Quil text that could not be parsed. No partial program
// accompanies it.
type ParseError struct {
	Err *parser.ParseError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse Quil program: %s", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse builds a program from Quil text. Options are applied before any
// instruction is added.
func Parse(text string, opts ...Option) (*Program, error) {
	instrs, err := parser.ParseString(text)
	if err != nil {
		var perr *parser.ParseError
		if !errors.As(err, &perr) {
			perr = &parser.ParseError{Message: err.Error()}
		}
		return nil, &ParseError{Err: perr}
	}
	return FromInstructions(instrs, opts...), nil
}

// Clone returns a deep copy, including NumShots.
func (p *Program) Clone() *Program {
	return &Program{
		NumShots:     p.NumShots,
		memory:       p.memory.clone(),
		frames:       p.frames.clone(),
		waveforms:    p.waveforms.clone(),
		calibrations: p.calibrations.Clone(),
		body:         ir.CloneInstructions(p.body),
	}
}

// AddInstruction routes a copy of instr to the declaration, frame or
// waveform store, the calibration catalog or the body.
func (p *Program) AddInstruction(instr ir.Instruction) {
	switch v := instr.(type) {
	case *ir.Declaration:
		p.memory.insert(v.Name, v)
	case *ir.FrameDefinition:
		p.frames.insert(v.Frame.String(), v)
	case *ir.WaveformDefinition:
		p.waveforms.insert(v.Name, v)
	case *ir.Calibration:
		p.calibrations.Insert(v)
	case *ir.MeasureCalibration:
		p.calibrations.InsertMeasure(v)
	default:
		p.body = append(p.body, instr.Clone())
	}
}

// AddInstructions adds each instruction in order.
func (p *Program) AddInstructions(instrs []ir.Instruction) {
	for _, instr := range instrs {
		p.AddInstruction(instr)
	}
}

// Calibrations returns a snapshot of the gate calibrations.
func (p *Program) Calibrations() []*ir.Calibration {
	return p.calibrations.Calibrations()
}

// MeasureCalibrations returns a snapshot of the measurement calibrations.
func (p *Program) MeasureCalibrations() []*ir.MeasureCalibration {
	return p.calibrations.MeasureCalibrations()
}

// CalibrationSet returns a copy of the calibration catalog.
func (p *Program) CalibrationSet() *CalibrationSet {
	return p.calibrations.Clone()
}

// Declarations returns a copy of every declaration keyed by region name.
func (p *Program) Declarations() map[string]*ir.Declaration {
	out := make(map[string]*ir.Declaration, p.memory.len())
	for _, d := range p.memory.ordered() {
		out[d.Name] = d
	}
	return out
}

// DeclarationNames returns region names in declaration order.
func (p *Program) DeclarationNames() []string {
	return p.memory.names()
}

// FrameDefinitions returns copies of the frame definitions in definition
// order. Redefining a frame replaces it in place.
func (p *Program) FrameDefinitions() []*ir.FrameDefinition {
	return p.frames.ordered()
}

// WaveformDefinitions returns copies of the waveform definitions in
// definition order. Redefining a waveform name replaces it in place.
func (p *Program) WaveformDefinitions() []*ir.WaveformDefinition {
	return p.waveforms.ordered()
}

// BodyInstructions returns a copy of the body in program order.
func (p *Program) BodyInstructions() []ir.Instruction {
	out := ir.CloneInstructions(p.body)
	if out == nil {
		out = []ir.Instruction{}
	}
	return out
}

// Instructions returns the declarations, in declaration order, followed by
// the body in program order.
func (p *Program) Instructions() []ir.Instruction {
	out := make([]ir.Instruction, 0, p.memory.len()+len(p.body))
	for _, d := range p.memory.ordered() {
		out = append(out, d)
	}
	for _, instr := range p.body {
		out = append(out, instr.Clone())
	}
	return out
}

// String renders the program as Quil text: declarations, frame
// definitions, waveform definitions, calibrations, measurement calibrations
// and then the body, one instruction per line. The result parses back to an
// equal program.
func (p *Program) String() string {
	var b strings.Builder
	for _, d := range p.memory.ordered() {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	for _, f := range p.frames.ordered() {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	for _, w := range p.waveforms.ordered() {
		b.WriteString(w.String())
		b.WriteByte('\n')
	}
	for _, c := range p.calibrations.instructions() {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	for _, instr := range p.body {
		b.WriteString(instr.String())
		b.WriteByte('\n')
	}
	return b.String()
}
