package ir

import (
	"strings"
)

// bodyIndent prefixes every body line of a DEFCAL block.
const bodyIndent = "    "

// Calibration defines how a gate call with matching name, parameter arity and
// qubit pattern expands into concrete instructions (DEFCAL).
//
// The name is fixed at construction. Parameters, qubits and body can be
// replaced wholesale; getters re-derive a fresh slice on every call, so callers
// never hold a view into the calibration's storage.
type Calibration struct {
	name         string
	parameters   []Expression
	qubits       []Qubit
	instructions []Instruction
	modifiers    []GateModifier
}

// NewCalibration creates a gate calibration.
// Parameters are stored as Expressions (see ToExpression); modifiers default
// to empty. Returns a *ConstructionError when name or a variable qubit is not
// a valid identifier, or when a modifier is unknown.
func NewCalibration(
	name string,
	parameters []Parameter,
	qubits []Qubit,
	instructions []Instruction,
	modifiers ...GateModifier,
) (*Calibration, error) {
	if err := ValidateIdentifier(name); err != nil {
		return nil, err
	}
	if err := validateQubits(qubits); err != nil {
		return nil, err
	}
	for _, m := range modifiers {
		if !ValidGateModifiers[m] {
			return nil, &ConstructionError{Message: "unknown gate modifier " + string(m)}
		}
	}

	return &Calibration{
		name:         name,
		parameters:   ParametersToExpressions(parameters),
		qubits:       cloneSlice(qubits),
		instructions: CloneInstructions(instructions),
		modifiers:    cloneSlice(modifiers),
	}, nil
}

// MustCalibration is like NewCalibration but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCalibration(name string, parameters []Parameter, qubits []Qubit, instructions []Instruction, modifiers ...GateModifier) *Calibration {
	c, err := NewCalibration(name, parameters, qubits, instructions, modifiers...)
	if err != nil {
		panic(err)
	}
	return c
}

func validateQubits(qubits []Qubit) error {
	for _, q := range qubits {
		if v, ok := q.(VariableQubit); ok {
			if err := ValidateIdentifier(string(v)); err != nil {
				return &ConstructionError{Message: "qubit variable: " + err.Error()}
			}
		}
	}
	return nil
}

func (*Calibration) instruction() {}

// Name returns the calibrated gate name.
func (c *Calibration) Name() string {
	return c.name
}

// Parameters re-derives the parameter list from the stored expressions.
func (c *Calibration) Parameters() []Parameter {
	return ExpressionsToParameters(c.parameters)
}

// ParameterExpressions returns a copy of the stored parameter expressions.
func (c *Calibration) ParameterExpressions() []Expression {
	return cloneSlice(c.parameters)
}

// SetParameters replaces the whole parameter list.
func (c *Calibration) SetParameters(parameters []Parameter) {
	c.parameters = ParametersToExpressions(parameters)
}

// Qubits returns a copy of the qubit pattern.
func (c *Calibration) Qubits() []Qubit {
	out := make([]Qubit, len(c.qubits))
	copy(out, c.qubits)
	return out
}

// SetQubits replaces the whole qubit pattern.
func (c *Calibration) SetQubits(qubits []Qubit) {
	c.qubits = cloneSlice(qubits)
}

// Instructions returns a deep copy of the body.
func (c *Calibration) Instructions() []Instruction {
	out := make([]Instruction, len(c.instructions))
	for i, instr := range c.instructions {
		out[i] = instr.Clone()
	}
	return out
}

// SetInstructions replaces the whole body.
func (c *Calibration) SetInstructions(instructions []Instruction) {
	c.instructions = CloneInstructions(instructions)
}

// Modifiers returns a copy of the gate modifiers.
func (c *Calibration) Modifiers() []GateModifier {
	out := make([]GateModifier, len(c.modifiers))
	copy(out, c.modifiers)
	return out
}

// Clone returns a deep copy.
func (c *Calibration) Clone() Instruction {
	return c.CloneCalibration()
}

// CloneCalibration is Clone with the concrete return type.
func (c *Calibration) CloneCalibration() *Calibration {
	return &Calibration{
		name:         c.name,
		parameters:   cloneSlice(c.parameters),
		qubits:       cloneSlice(c.qubits),
		instructions: CloneInstructions(c.instructions),
		modifiers:    cloneSlice(c.modifiers),
	}
}

func (c *Calibration) String() string {
	var b strings.Builder
	b.WriteString("DEFCAL ")
	writeModifiers(&b, c.modifiers)
	b.WriteString(c.name)
	writeExpressionList(&b, c.parameters)
	if len(c.qubits) > 0 {
		b.WriteByte(' ')
		b.WriteString(formatQubits(c.qubits))
	}
	b.WriteByte(':')
	writeBody(&b, c.instructions)
	return b.String()
}

// MeasureCalibration defines how a measurement expands (DEFCAL MEASURE).
// A nil qubit matches any qubit. The memory reference pattern is stored in
// its textual form.
type MeasureCalibration struct {
	qubit        Qubit
	parameter    string
	instructions []Instruction
}

// NewMeasureCalibration creates a measurement calibration. It always
// succeeds; the memory reference is stored as ref.String().
func NewMeasureCalibration(qubit Qubit, ref MemoryReference, instructions []Instruction) *MeasureCalibration {
	return NewMeasureCalibrationNamed(qubit, ref.String(), instructions)
}

// NewMeasureCalibrationNamed creates a measurement calibration from an
// already-rendered memory reference pattern, such as the bare name the
// parser reads from DEFCAL MEASURE 0 addr.
func NewMeasureCalibrationNamed(qubit Qubit, parameter string, instructions []Instruction) *MeasureCalibration {
	return &MeasureCalibration{
		qubit:        qubit,
		parameter:    parameter,
		instructions: CloneInstructions(instructions),
	}
}

func (*MeasureCalibration) instruction() {}

// Qubit returns the calibrated qubit, or nil when the calibration matches any qubit.
func (m *MeasureCalibration) Qubit() Qubit {
	return m.qubit
}

// SetQubit replaces the qubit; nil matches any qubit.
func (m *MeasureCalibration) SetQubit(qubit Qubit) {
	m.qubit = qubit
}

// Parameter returns the memory reference pattern.
func (m *MeasureCalibration) Parameter() string {
	return m.parameter
}

// Instructions returns a deep copy of the body.
func (m *MeasureCalibration) Instructions() []Instruction {
	out := make([]Instruction, len(m.instructions))
	for i, instr := range m.instructions {
		out[i] = instr.Clone()
	}
	return out
}

// SetInstructions replaces the whole body.
func (m *MeasureCalibration) SetInstructions(instructions []Instruction) {
	m.instructions = CloneInstructions(instructions)
}

// Clone returns a deep copy.
func (m *MeasureCalibration) Clone() Instruction {
	return m.CloneMeasureCalibration()
}

// CloneMeasureCalibration is Clone with the concrete return type.
func (m *MeasureCalibration) CloneMeasureCalibration() *MeasureCalibration {
	return &MeasureCalibration{
		qubit:        m.qubit,
		parameter:    m.parameter,
		instructions: CloneInstructions(m.instructions),
	}
}

func (m *MeasureCalibration) String() string {
	var b strings.Builder
	b.WriteString("DEFCAL MEASURE ")
	if m.qubit != nil {
		b.WriteString(m.qubit.String())
		b.WriteByte(' ')
	}
	b.WriteString(m.parameter)
	b.WriteByte(':')
	writeBody(&b, m.instructions)
	return b.String()
}

// writeBody writes each body instruction on its own indented line.
func writeBody(b *strings.Builder, body []Instruction) {
	for _, instr := range body {
		b.WriteByte('\n')
		b.WriteString(bodyIndent)
		b.WriteString(instr.String())
	}
}
