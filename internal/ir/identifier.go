package ir

import (
	"fmt"
	"regexp"
)

// identifierPattern matches a Quil identifier. Dashes are allowed inside but
// not at either end.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_]([A-Za-z0-9\-_]*[A-Za-z0-9_])?$`)

// Keywords are the reserved words of Quil and Quil-T. They may not be used
// as user-defined names.
var Keywords = map[string]bool{
	"ADD": true, "AND": true, "AS": true, "CAPTURE": true, "CONTROLLED": true,
	"CONVERT": true, "DAGGER": true, "DECLARE": true, "DEFCAL": true,
	"DEFCIRCUIT": true, "DEFFRAME": true, "DEFGATE": true, "DEFWAVEFORM": true,
	"DELAY": true, "DIV": true, "EQ": true, "EXCHANGE": true, "FENCE": true,
	"FORKED": true, "GE": true, "GT": true, "HALT": true, "INCLUDE": true,
	"IOR": true, "JUMP": true, "JUMP-UNLESS": true, "JUMP-WHEN": true,
	"LABEL": true, "LE": true, "LOAD": true, "LT": true, "MATRIX": true,
	"MEASURE": true, "MOVE": true, "MUL": true, "NEG": true, "NONBLOCKING": true,
	"NOP": true, "NOT": true, "OFFSET": true, "PAULI-SUM": true,
	"PERMUTATION": true, "PRAGMA": true, "PULSE": true, "RAW-CAPTURE": true,
	"RESET": true, "SET-FREQUENCY": true, "SET-PHASE": true, "SET-SCALE": true,
	"SHARING": true, "SHIFT-FREQUENCY": true, "SHIFT-PHASE": true,
	"STORE": true, "SUB": true, "SWAP-PHASES": true, "WAIT": true, "XOR": true,
	"pi": true, "i": true,
}

// ConstructionError reports a structurally invalid definition.
// The message is surfaced verbatim to the caller.
type ConstructionError struct {
	Message string
}

func (e *ConstructionError) Error() string {
	return e.Message
}

// IsIdentifier reports whether s is a syntactically valid Quil identifier.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ValidateIdentifier checks that name is a valid, non-reserved identifier.
func ValidateIdentifier(name string) error {
	if !IsIdentifier(name) {
		return &ConstructionError{Message: fmt.Sprintf("invalid identifier %q", name)}
	}
	if Keywords[name] {
		return &ConstructionError{Message: fmt.Sprintf("%q is a reserved keyword", name)}
	}
	return nil
}
