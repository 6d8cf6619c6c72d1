package ir

import (
	"strconv"
	"strings"
)

// AttributeValue is the value of a frame attribute: a quoted string or an
// expression.
type AttributeValue struct {
	Text       string
	Expression Expression // nil when the value is the string Text
}

// TextAttribute creates a string-valued attribute.
func TextAttribute(s string) AttributeValue {
	return AttributeValue{Text: s}
}

// ExpressionAttribute creates an expression-valued attribute.
func ExpressionAttribute(e Expression) AttributeValue {
	return AttributeValue{Expression: e}
}

func (v AttributeValue) String() string {
	if v.Expression == nil {
		return strconv.Quote(v.Text)
	}
	return v.Expression.String()
}

// FrameAttribute is one NAME: value line of a DEFFRAME.
type FrameAttribute struct {
	Name  string
	Value AttributeValue
}

// FrameDefinition declares a frame and its attributes (DEFFRAME).
// Attributes keep their source order; names are unique.
type FrameDefinition struct {
	Frame      FrameIdentifier
	Attributes []FrameAttribute
}

func (*FrameDefinition) instruction() {}

// Attribute returns the value of the named attribute.
func (d *FrameDefinition) Attribute(name string) (AttributeValue, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return AttributeValue{}, false
}

// Clone returns a deep copy.
func (d *FrameDefinition) Clone() Instruction {
	return d.CloneFrameDefinition()
}

// CloneFrameDefinition is Clone with the concrete return type.
func (d *FrameDefinition) CloneFrameDefinition() *FrameDefinition {
	return &FrameDefinition{Frame: d.Frame.clone(), Attributes: cloneSlice(d.Attributes)}
}

func (d *FrameDefinition) String() string {
	var b strings.Builder
	b.WriteString("DEFFRAME ")
	b.WriteString(d.Frame.String())
	if len(d.Attributes) == 0 {
		return b.String()
	}
	b.WriteByte(':')
	for _, a := range d.Attributes {
		b.WriteByte('\n')
		b.WriteString(bodyIndent)
		b.WriteString(a.Name)
		b.WriteString(": ")
		b.WriteString(a.Value.String())
	}
	return b.String()
}

// WaveformDefinition defines a named waveform by its samples (DEFWAVEFORM).
// Parameters are variable names without the leading '%'.
type WaveformDefinition struct {
	Name       string
	Parameters []string
	Samples    []Expression
}

func (*WaveformDefinition) instruction() {}

// Clone returns a deep copy.
func (d *WaveformDefinition) Clone() Instruction {
	return d.CloneWaveformDefinition()
}

// CloneWaveformDefinition is Clone with the concrete return type.
func (d *WaveformDefinition) CloneWaveformDefinition() *WaveformDefinition {
	return &WaveformDefinition{Name: d.Name, Parameters: cloneSlice(d.Parameters), Samples: cloneSlice(d.Samples)}
}

// String renders every sample on a single indented line.
func (d *WaveformDefinition) String() string {
	var b strings.Builder
	b.WriteString("DEFWAVEFORM ")
	b.WriteString(d.Name)
	if len(d.Parameters) > 0 {
		b.WriteByte('(')
		for i, p := range d.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('%')
			b.WriteString(p)
		}
		b.WriteByte(')')
	}
	b.WriteString(":\n")
	b.WriteString(bodyIndent)
	for i, e := range d.Samples {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	return b.String()
}
