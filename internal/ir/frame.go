package ir

import (
	"slices"
	"strconv"
	"strings"
)

// FrameIdentifier names a frame on one or more qubits, e.g. 0 1 "cz".
type FrameIdentifier struct {
	Qubits []Qubit
	Name   string
}

func (f FrameIdentifier) clone() FrameIdentifier {
	return FrameIdentifier{Qubits: cloneSlice(f.Qubits), Name: f.Name}
}

func (f FrameIdentifier) String() string {
	return formatQubits(f.Qubits) + " " + strconv.Quote(f.Name)
}

// WaveformInvocation references a waveform with named parameters,
// e.g. flat(duration: 1e-06, iq: 1).
// Use SortedParameterNames() for deterministic iteration.
type WaveformInvocation struct {
	Name       string
	Parameters map[string]Expression
}

// SortedParameterNames returns parameter names in lexical order.
func (w WaveformInvocation) SortedParameterNames() []string {
	names := make([]string, 0, len(w.Parameters))
	for k := range w.Parameters {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (w WaveformInvocation) clone() WaveformInvocation {
	out := WaveformInvocation{Name: w.Name}
	if w.Parameters != nil {
		out.Parameters = make(map[string]Expression, len(w.Parameters))
		for k, v := range w.Parameters {
			out.Parameters[k] = v
		}
	}
	return out
}

func (w WaveformInvocation) String() string {
	if len(w.Parameters) == 0 {
		return w.Name
	}
	var b strings.Builder
	b.WriteString(w.Name)
	b.WriteByte('(')
	for i, name := range w.SortedParameterNames() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(w.Parameters[name].String())
	}
	b.WriteByte(')')
	return b.String()
}

// Pulse plays a waveform on a frame.
type Pulse struct {
	NonBlocking bool
	Frame       FrameIdentifier
	Waveform    WaveformInvocation
}

func (*Pulse) instruction() {}

// Clone returns a deep copy.
func (p *Pulse) Clone() Instruction {
	return &Pulse{NonBlocking: p.NonBlocking, Frame: p.Frame.clone(), Waveform: p.Waveform.clone()}
}

func (p *Pulse) String() string {
	prefix := "PULSE "
	if p.NonBlocking {
		prefix = "NONBLOCKING PULSE "
	}
	return prefix + p.Frame.String() + " " + p.Waveform.String()
}

// FrameOperation is the kind of frame state update.
type FrameOperation string

const (
	FrameSetPhase       FrameOperation = "SET-PHASE"
	FrameShiftPhase     FrameOperation = "SHIFT-PHASE"
	FrameSetFrequency   FrameOperation = "SET-FREQUENCY"
	FrameShiftFrequency FrameOperation = "SHIFT-FREQUENCY"
	FrameSetScale       FrameOperation = "SET-SCALE"
)

// ValidFrameOperations defines allowed frame updates.
var ValidFrameOperations = map[FrameOperation]bool{
	FrameSetPhase:       true,
	FrameShiftPhase:     true,
	FrameSetFrequency:   true,
	FrameShiftFrequency: true,
	FrameSetScale:       true,
}

// FrameUpdate sets or shifts a frame's phase, frequency or scale.
type FrameUpdate struct {
	Operation FrameOperation
	Frame     FrameIdentifier
	Value     Expression
}

func (*FrameUpdate) instruction() {}

// Clone returns a deep copy.
func (u *FrameUpdate) Clone() Instruction {
	return &FrameUpdate{Operation: u.Operation, Frame: u.Frame.clone(), Value: u.Value}
}

func (u *FrameUpdate) String() string {
	return string(u.Operation) + " " + u.Frame.String() + " " + u.Value.String()
}

// Capture records a waveform played on a frame into classical memory.
type Capture struct {
	NonBlocking bool
	Frame       FrameIdentifier
	Waveform    WaveformInvocation
	Target      MemoryReference
}

func (*Capture) instruction() {}

// Clone returns a deep copy.
func (c *Capture) Clone() Instruction {
	return &Capture{NonBlocking: c.NonBlocking, Frame: c.Frame.clone(), Waveform: c.Waveform.clone(), Target: c.Target}
}

func (c *Capture) String() string {
	prefix := "CAPTURE "
	if c.NonBlocking {
		prefix = "NONBLOCKING CAPTURE "
	}
	return prefix + c.Frame.String() + " " + c.Waveform.String() + " " + c.Target.String()
}

// RawCapture records raw samples from a frame for Duration seconds.
type RawCapture struct {
	NonBlocking bool
	Frame       FrameIdentifier
	Duration    Expression
	Target      MemoryReference
}

func (*RawCapture) instruction() {}

// Clone returns a deep copy.
func (c *RawCapture) Clone() Instruction {
	return &RawCapture{NonBlocking: c.NonBlocking, Frame: c.Frame.clone(), Duration: c.Duration, Target: c.Target}
}

func (c *RawCapture) String() string {
	prefix := "RAW-CAPTURE "
	if c.NonBlocking {
		prefix = "NONBLOCKING RAW-CAPTURE "
	}
	return prefix + c.Frame.String() + " " + c.Duration.String() + " " + c.Target.String()
}

// Delay idles the named frames on the qubits, or every frame on them when
// FrameNames is empty.
type Delay struct {
	Qubits     []Qubit
	FrameNames []string
	Duration   Expression
}

func (*Delay) instruction() {}

// Clone returns a deep copy.
func (d *Delay) Clone() Instruction {
	return &Delay{Qubits: cloneSlice(d.Qubits), FrameNames: cloneSlice(d.FrameNames), Duration: d.Duration}
}

// String parenthesizes a duration that would otherwise read as another
// qubit or fold into the last one, as in DELAY 0 1 (-1).
func (d *Delay) String() string {
	var b strings.Builder
	b.WriteString("DELAY ")
	b.WriteString(formatQubits(d.Qubits))
	for _, name := range d.FrameNames {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(name))
	}
	b.WriteByte(' ')
	b.WriteString(formatOperand(Simplify(d.Duration)))
	return b.String()
}

// SwapPhases exchanges the phases of two frames.
type SwapPhases struct {
	First  FrameIdentifier
	Second FrameIdentifier
}

func (*SwapPhases) instruction() {}

// Clone returns a deep copy.
func (s *SwapPhases) Clone() Instruction {
	return &SwapPhases{First: s.First.clone(), Second: s.Second.clone()}
}

func (s *SwapPhases) String() string {
	return "SWAP-PHASES " + s.First.String() + " " + s.Second.String()
}
