package ir

import (
	"math"
	"strconv"
	"strings"
)

// Expression is a sealed interface representing the symbolic arithmetic tree
// used wherever an instruction takes a parameter.
// Only Number, Variable, Address, Prefix, Infix, FunctionCall and PiConstant
// implement this. Expressions are immutable values.
//
// String renders the simplified form (see Simplify): RX(1 + 2) prints as
// RX(3), exactly as the parser would read it.
type Expression interface {
	String() string
	expression() // Sealed - only these types implement it
}

// PrefixOperator is a unary operator applied to an expression.
type PrefixOperator string

const (
	PrefixPlus  PrefixOperator = "+"
	PrefixMinus PrefixOperator = "-"
)

// InfixOperator is a binary operator joining two expressions.
type InfixOperator string

const (
	InfixPlus  InfixOperator = "+"
	InfixMinus InfixOperator = "-"
	InfixStar  InfixOperator = "*"
	InfixSlash InfixOperator = "/"
	InfixCaret InfixOperator = "^"
)

// ExpressionFunction is one of the builtin functions Quil allows in expressions.
type ExpressionFunction string

const (
	FunctionSine       ExpressionFunction = "sin"
	FunctionCosine     ExpressionFunction = "cos"
	FunctionExponent   ExpressionFunction = "exp"
	FunctionSquareRoot ExpressionFunction = "sqrt"
	FunctionCis        ExpressionFunction = "cis"
)

// ExpressionFunctions lists the builtin functions in rendering order.
var ExpressionFunctions = []ExpressionFunction{
	FunctionSine, FunctionCosine, FunctionExponent, FunctionSquareRoot, FunctionCis,
}

// LookupFunction resolves a function name case-insensitively.
func LookupFunction(name string) (ExpressionFunction, bool) {
	lower := ExpressionFunction(strings.ToLower(name))
	for _, fn := range ExpressionFunctions {
		if fn == lower {
			return fn, true
		}
	}
	return "", false
}

// Number is a complex-valued numeric literal.
type Number struct {
	Value complex128
}

func (Number) expression() {}

func (n Number) String() string {
	return formatComplex(n.Value)
}

// Variable references a named parameter, written %name.
type Variable struct {
	Name string
}

func (Variable) expression() {}

func (v Variable) String() string {
	return "%" + v.Name
}

// Address references a classical memory location.
type Address struct {
	Reference MemoryReference
}

func (Address) expression() {}

func (a Address) String() string {
	return a.Reference.String()
}

// Prefix applies a unary operator.
type Prefix struct {
	Operator PrefixOperator
	Operand  Expression
}

func (Prefix) expression() {}

func (p Prefix) String() string {
	return formatExpression(Simplify(p))
}

// Infix applies a binary operator.
type Infix struct {
	Left     Expression
	Operator InfixOperator
	Right    Expression
}

func (Infix) expression() {}

func (i Infix) String() string {
	return formatExpression(Simplify(i))
}

// FunctionCall applies a builtin function to a single argument.
type FunctionCall struct {
	Function ExpressionFunction
	Argument Expression
}

func (FunctionCall) expression() {}

func (f FunctionCall) String() string {
	return formatExpression(Simplify(f))
}

// PiConstant is the symbolic constant π.
type PiConstant struct{}

func (PiConstant) expression() {}

func (PiConstant) String() string {
	return "pi"
}

// NewNumber creates a real-valued Number.
func NewNumber(v float64) Number {
	return Number{Value: complex(v, 0)}
}

// NewVariable creates a Variable expression.
func NewVariable(name string) Variable {
	return Variable{Name: name}
}

// NewAddress creates an Address expression for name[index].
func NewAddress(name string, index uint64) Address {
	return Address{Reference: MemoryReference{Name: name, Index: index}}
}

// NewInfix creates an Infix expression.
func NewInfix(left Expression, op InfixOperator, right Expression) Infix {
	return Infix{Left: left, Operator: op, Right: right}
}

// formatExpression renders an already simplified expression. Infix
// operators get spaces on both sides: Quil identifiers may contain '-', so
// "%theta-1" would read back as a single variable.
func formatExpression(e Expression) string {
	switch v := e.(type) {
	case Prefix:
		return string(v.Operator) + formatOperand(v.Operand)
	case Infix:
		return formatOperand(v.Left) + " " + string(v.Operator) + " " + formatOperand(v.Right)
	case FunctionCall:
		return string(v.Function) + "(" + formatExpression(v.Argument) + ")"
	}
	return e.String()
}

// formatOperand parenthesizes nested operators and signed or complex numbers
// so that the rendered text parses back to the same tree.
func formatOperand(e Expression) string {
	switch v := e.(type) {
	case Infix, Prefix:
		return "(" + formatExpression(v) + ")"
	case Number:
		s := v.String()
		if strings.HasPrefix(s, "-") || real(v.Value) != 0 && imag(v.Value) != 0 {
			return "(" + s + ")"
		}
		return s
	default:
		return formatExpression(e)
	}
}

// formatComplex renders a complex number as Quil text.
func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	switch {
	case im == 0:
		return formatReal(re)
	case re == 0:
		return formatReal(im) + "i"
	case im < 0:
		return formatReal(re) + "-" + formatReal(math.Abs(im)) + "i"
	default:
		return formatReal(re) + "+" + formatReal(im) + "i"
	}
}

// formatReal uses the shortest representation that reads back exactly.
func formatReal(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
