package ir

import (
	"slices"
	"strconv"
	"strings"
)

// Instruction is a sealed interface over every operation a program can hold.
// Each variant owns its payload directly: a *Calibration is the calibration
// definition instruction, not a wrapper around a generic envelope.
//
// Variants: *Gate, *Measurement, *Reset, *Fence, *Pulse, *Capture,
// *RawCapture, *Delay, *SwapPhases, *FrameUpdate, *Pragma, *Halt, *Nop,
// *Declaration, *FrameDefinition, *WaveformDefinition, *Calibration,
// *MeasureCalibration.
type Instruction interface {
	String() string

	// Clone returns a deep copy sharing no mutable storage with the receiver.
	Clone() Instruction

	instruction() // Sealed - only these types implement it
}

// GateModifier qualifies a gate application.
type GateModifier string

const (
	ModifierControlled GateModifier = "CONTROLLED"
	ModifierDagger     GateModifier = "DAGGER"
	ModifierForked     GateModifier = "FORKED"
)

// ValidGateModifiers defines allowed modifiers.
var ValidGateModifiers = map[GateModifier]bool{
	ModifierControlled: true,
	ModifierDagger:     true,
	ModifierForked:     true,
}

// Gate applies a named gate to qubits.
type Gate struct {
	Name       string
	Parameters []Expression
	Qubits     []Qubit
	Modifiers  []GateModifier
}

func (*Gate) instruction() {}

// Clone returns a deep copy.
func (g *Gate) Clone() Instruction {
	return &Gate{
		Name:       g.Name,
		Parameters: cloneSlice(g.Parameters),
		Qubits:     cloneSlice(g.Qubits),
		Modifiers:  cloneSlice(g.Modifiers),
	}
}

func (g *Gate) String() string {
	var b strings.Builder
	writeModifiers(&b, g.Modifiers)
	b.WriteString(g.Name)
	writeExpressionList(&b, g.Parameters)
	if len(g.Qubits) > 0 {
		b.WriteByte(' ')
		b.WriteString(formatQubits(g.Qubits))
	}
	return b.String()
}

// Measurement measures a qubit, optionally storing the result.
type Measurement struct {
	Qubit  Qubit
	Target *MemoryReference // Optional; nil discards the result
}

func (*Measurement) instruction() {}

// Clone returns a deep copy.
func (m *Measurement) Clone() Instruction {
	out := &Measurement{Qubit: m.Qubit}
	if m.Target != nil {
		target := *m.Target
		out.Target = &target
	}
	return out
}

func (m *Measurement) String() string {
	if m.Target == nil {
		return "MEASURE " + m.Qubit.String()
	}
	return "MEASURE " + m.Qubit.String() + " " + m.Target.String()
}

// Reset resets one qubit, or every qubit when Qubit is nil.
type Reset struct {
	Qubit Qubit // Optional
}

func (*Reset) instruction() {}

// Clone returns a deep copy.
func (r *Reset) Clone() Instruction {
	return &Reset{Qubit: r.Qubit}
}

func (r *Reset) String() string {
	if r.Qubit == nil {
		return "RESET"
	}
	return "RESET " + r.Qubit.String()
}

// Fence synchronizes the listed qubits, or every qubit when empty.
type Fence struct {
	Qubits []Qubit
}

func (*Fence) instruction() {}

// Clone returns a deep copy.
func (f *Fence) Clone() Instruction {
	return &Fence{Qubits: cloneSlice(f.Qubits)}
}

func (f *Fence) String() string {
	if len(f.Qubits) == 0 {
		return "FENCE"
	}
	return "FENCE " + formatQubits(f.Qubits)
}

// Pragma carries a compiler directive.
type Pragma struct {
	Name      string
	Arguments []string
	Data      string // Optional; rendered as a quoted string when non-empty
}

func (*Pragma) instruction() {}

// Clone returns a deep copy.
func (p *Pragma) Clone() Instruction {
	return &Pragma{Name: p.Name, Arguments: cloneSlice(p.Arguments), Data: p.Data}
}

func (p *Pragma) String() string {
	var b strings.Builder
	b.WriteString("PRAGMA ")
	b.WriteString(p.Name)
	for _, arg := range p.Arguments {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	if p.Data != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(p.Data))
	}
	return b.String()
}

// Halt stops execution.
type Halt struct{}

func (*Halt) instruction() {}

// Clone returns a deep copy.
func (*Halt) Clone() Instruction { return &Halt{} }

func (*Halt) String() string { return "HALT" }

// Nop does nothing.
type Nop struct{}

func (*Nop) instruction() {}

// Clone returns a deep copy.
func (*Nop) Clone() Instruction { return &Nop{} }

func (*Nop) String() string { return "NOP" }

// CloneInstructions deep-copies every instruction in the slice.
func CloneInstructions(instrs []Instruction) []Instruction {
	if instrs == nil {
		return nil
	}
	out := make([]Instruction, len(instrs))
	for i, instr := range instrs {
		out[i] = instr.Clone()
	}
	return out
}

// cloneSlice copies a slice of immutable elements, preserving nil.
func cloneSlice[T any](s []T) []T {
	return slices.Clone(s)
}

func writeModifiers(b *strings.Builder, modifiers []GateModifier) {
	for _, m := range modifiers {
		b.WriteString(string(m))
		b.WriteByte(' ')
	}
}

func writeExpressionList(b *strings.Builder, exprs []Expression) {
	if len(exprs) == 0 {
		return
	}
	b.WriteByte('(')
	for i, e := range exprs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
}
