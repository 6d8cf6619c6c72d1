package ir

import (
	"math"
	"math/cmplx"
)

// Simplify folds operators applied to literal numbers, bottom up. The parser
// builds every expression in this form and String renders it, so rendered
// text reads back to the same tree.
//
// Folding never produces a non-finite Number: division by zero and results
// that overflow stay symbolic.
func Simplify(e Expression) Expression {
	switch v := e.(type) {
	case Prefix:
		return FoldPrefix(v.Operator, Simplify(v.Operand))
	case Infix:
		return FoldInfix(Simplify(v.Left), v.Operator, Simplify(v.Right))
	case FunctionCall:
		return FunctionCall{Function: v.Function, Argument: Simplify(v.Argument)}
	}
	return e
}

// FoldPrefix applies op to operand. Unary plus is dropped and negating a
// Number yields a Number.
func FoldPrefix(op PrefixOperator, operand Expression) Expression {
	switch op {
	case PrefixPlus:
		return operand
	case PrefixMinus:
		if n, ok := operand.(Number); ok {
			return Number{Value: -n.Value}
		}
	}
	return Prefix{Operator: op, Operand: operand}
}

// FoldInfix evaluates op when both operands are Numbers and the result is
// finite; otherwise it returns the Infix node unchanged.
func FoldInfix(left Expression, op InfixOperator, right Expression) Expression {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return NewInfix(left, op, right)
	}

	var v complex128
	switch op {
	case InfixPlus:
		v = l.Value + r.Value
	case InfixMinus:
		v = l.Value - r.Value
	case InfixStar:
		v = l.Value * r.Value
	case InfixSlash:
		if r.Value == 0 {
			return NewInfix(left, op, right)
		}
		v = l.Value / r.Value
	case InfixCaret:
		v = power(l.Value, r.Value)
	default:
		return NewInfix(left, op, right)
	}
	if !isFinite(v) {
		return NewInfix(left, op, right)
	}
	return Number{Value: v}
}

// IsFinite reports whether every Number in e is finite.
func IsFinite(e Expression) bool {
	switch v := e.(type) {
	case Number:
		return isFinite(v.Value)
	case Prefix:
		return IsFinite(v.Operand)
	case Infix:
		return IsFinite(v.Left) && IsFinite(v.Right)
	case FunctionCall:
		return IsFinite(v.Argument)
	}
	return true
}

func isFinite(c complex128) bool {
	return !cmplx.IsInf(c) && !cmplx.IsNaN(c)
}

// power stays on the real line when the result is real, where cmplx.Pow
// would introduce rounding noise in the imaginary part.
func power(base, exp complex128) complex128 {
	b, e := real(base), real(exp)
	if imag(base) == 0 && imag(exp) == 0 && (b >= 0 || e == math.Trunc(e)) {
		return complex(math.Pow(b, e), 0)
	}
	return cmplx.Pow(base, exp)
}
