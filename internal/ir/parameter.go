package ir

import (
	"fmt"
	"math"
)

// Parameter is a sealed interface over the ergonomic parameter forms accepted
// at construction boundaries: ExpressionParameter, MemoryReference, I64, U64,
// F64 and Complex.
//
// Every Parameter converts to an Expression without loss (ToExpression).
// The reverse (ParameterFromExpression) is total but canonicalizing.
type Parameter interface {
	parameter() // Sealed - only these types implement it
}

// ExpressionParameter wraps an arbitrary expression tree.
type ExpressionParameter struct {
	Expression Expression
}

func (ExpressionParameter) parameter() {}

// I64 is a signed integer parameter.
type I64 int64

func (I64) parameter() {}

// U64 is an unsigned integer parameter.
type U64 uint64

func (U64) parameter() {}

// F64 is a real parameter.
type F64 float64

func (F64) parameter() {}

// Complex is a complex parameter.
type Complex complex128

func (Complex) parameter() {}

// Bounds of exact integer conversion. Both are powers of two, so they are
// exactly representable as float64.
const (
	twoPow63 = 9223372036854775808.0
	twoPow64 = 18446744073709551616.0
)

// ToExpression converts a Parameter to its Expression form.
// Integers and reals become real Numbers; memory references become Addresses.
func ToExpression(p Parameter) Expression {
	switch val := p.(type) {
	case ExpressionParameter:
		return val.Expression
	case MemoryReference:
		return Address{Reference: val}
	case I64:
		return Number{Value: complex(float64(val), 0)}
	case U64:
		return Number{Value: complex(float64(val), 0)}
	case F64:
		return Number{Value: complex(float64(val), 0)}
	case Complex:
		return Number{Value: complex128(val)}
	default:
		panic(fmt.Sprintf("ir: unknown Parameter type %T", p))
	}
}

// ParameterFromExpression canonicalizes an Expression into a Parameter.
//
// A Number with zero imaginary part becomes I64 when its real part is an
// integer within int64 range, else U64 when it is a non-negative integer
// within uint64 range, else F64. A Number with nonzero imaginary part becomes
// Complex. An Address becomes a MemoryReference. Any other expression is
// wrapped unchanged in ExpressionParameter.
func ParameterFromExpression(e Expression) Parameter {
	switch val := e.(type) {
	case Number:
		if imag(val.Value) != 0 {
			return Complex(val.Value)
		}
		return realParameter(real(val.Value))
	case Address:
		return val.Reference
	default:
		return ExpressionParameter{Expression: e}
	}
}

// realParameter picks the narrowest exact form for a real number.
// NaN fails the integral check and stays F64.
//
// Numbers are float64, so integers above 2^53 are already rounded by the
// time they get here: I64(math.MaxInt64) arrives as 2^63 and comes back as
// U64(1<<63). U64(math.MaxUint64) arrives as 2^64, one past the uint64
// range, and saturates back to math.MaxUint64.
func realParameter(re float64) Parameter {
	if re == math.Trunc(re) {
		switch {
		case re >= -twoPow63 && re < twoPow63:
			return I64(int64(re))
		case re >= 0 && re < twoPow64:
			return U64(uint64(re))
		case re == twoPow64:
			return U64(math.MaxUint64)
		}
	}
	return F64(re)
}

// ParametersToExpressions converts each parameter with ToExpression.
func ParametersToExpressions(params []Parameter) []Expression {
	if params == nil {
		return nil
	}
	out := make([]Expression, len(params))
	for i, p := range params {
		out[i] = ToExpression(p)
	}
	return out
}

// ExpressionsToParameters converts each expression with ParameterFromExpression.
// A fresh slice is returned on every call.
func ExpressionsToParameters(exprs []Expression) []Parameter {
	out := make([]Parameter, len(exprs))
	for i, e := range exprs {
		out[i] = ParameterFromExpression(e)
	}
	return out
}
