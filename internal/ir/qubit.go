package ir

import "strconv"

// Qubit is a sealed interface designating a qubit.
// FixedQubit names a physical index; VariableQubit is a placeholder bound when
// a calibration template is matched.
type Qubit interface {
	String() string
	qubit() // Sealed - only these types implement it
}

// FixedQubit is a qubit addressed by index.
type FixedQubit uint64

func (FixedQubit) qubit() {}

func (q FixedQubit) String() string {
	return strconv.FormatUint(uint64(q), 10)
}

// VariableQubit is a named qubit placeholder.
type VariableQubit string

func (VariableQubit) qubit() {}

func (q VariableQubit) String() string {
	return string(q)
}

// formatQubits renders qubits separated by single spaces.
func formatQubits(qubits []Qubit) string {
	buf := make([]byte, 0, len(qubits)*3)
	for i, q := range qubits {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, q.String()...)
	}
	return string(buf)
}
