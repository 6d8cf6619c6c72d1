package ir

import (
	"fmt"
	"strings"
)

// MemoryReference addresses one element of a named memory region.
type MemoryReference struct {
	Name  string `json:"name"`
	Index uint64 `json:"index"`
}

func (MemoryReference) parameter() {}

// String returns the canonical address form name[index].
func (m MemoryReference) String() string {
	return fmt.Sprintf("%s[%d]", m.Name, m.Index)
}

// ScalarType is the element type of a memory region.
type ScalarType string

const (
	ScalarBit     ScalarType = "BIT"
	ScalarOctet   ScalarType = "OCTET"
	ScalarInteger ScalarType = "INTEGER"
	ScalarReal    ScalarType = "REAL"
)

// ValidScalarTypes defines allowed region element types.
var ValidScalarTypes = map[ScalarType]bool{
	ScalarBit:     true,
	ScalarOctet:   true,
	ScalarInteger: true,
	ScalarReal:    true,
}

// Vector is the shape of a memory region.
type Vector struct {
	DataType ScalarType `json:"data_type"`
	Length   uint64     `json:"length"`
}

func (v Vector) String() string {
	return fmt.Sprintf("%s[%d]", v.DataType, v.Length)
}

// Offset is one element of a SHARING clause.
type Offset struct {
	Length   uint64     `json:"length"`
	DataType ScalarType `json:"data_type"`
}

// Sharing declares that a region aliases another region.
type Sharing struct {
	Name    string   `json:"name"`
	Offsets []Offset `json:"offsets,omitempty"`
}

// Declaration declares a named classical memory region.
type Declaration struct {
	Name    string   `json:"name"`
	Size    Vector   `json:"size"`
	Sharing *Sharing `json:"sharing,omitempty"` // Optional
}

// NewDeclaration creates a Declaration.
func NewDeclaration(name string, size Vector, sharing *Sharing) *Declaration {
	return &Declaration{Name: name, Size: size, Sharing: sharing}
}

func (*Declaration) instruction() {}

// Clone returns a deep copy.
func (d *Declaration) Clone() Instruction {
	return d.CloneDeclaration()
}

// CloneDeclaration is Clone with the concrete return type.
func (d *Declaration) CloneDeclaration() *Declaration {
	out := *d
	if d.Sharing != nil {
		sharing := Sharing{Name: d.Sharing.Name, Offsets: cloneSlice(d.Sharing.Offsets)}
		out.Sharing = &sharing
	}
	return &out
}

func (d *Declaration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DECLARE %s %s", d.Name, d.Size)
	if d.Sharing != nil {
		fmt.Fprintf(&b, " SHARING %s", d.Sharing.Name)
		for _, off := range d.Sharing.Offsets {
			fmt.Fprintf(&b, " OFFSET %d %s", off.Length, off.DataType)
		}
	}
	return b.String()
}
