package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSealed(t *testing.T) {
	var _ Parameter = ExpressionParameter{Expression: PiConstant{}}
	var _ Parameter = MemoryReference{Name: "ro", Index: 0}
	var _ Parameter = I64(1)
	var _ Parameter = U64(1)
	var _ Parameter = F64(1.5)
	var _ Parameter = Complex(1 + 2i)
}

func TestParameterCanonicalization(t *testing.T) {
	tests := []struct {
		name string
		in   Parameter
		want Parameter
	}{
		{"integral float collapses to I64", F64(5.0), I64(5)},
		{"fractional float stays F64", F64(2.5), F64(2.5)},
		{"real complex collapses to I64", Complex(3 + 0i), I64(3)},
		{"complex with imaginary part stays Complex", Complex(1 + 2i), Complex(1 + 2i)},
		{"unsigned beyond int64 stays U64", U64(1 << 63), U64(1 << 63)},
		{"max uint64 saturates back to U64", U64(math.MaxUint64), U64(math.MaxUint64)},
		{"max int64 rounds to 2^63 and comes back as U64", I64(math.MaxInt64), U64(1 << 63)},
		{"integral float beyond uint64 stays F64", F64(2 * twoPow64), F64(2 * twoPow64)},
		{"small unsigned collapses to I64", U64(7), I64(7)},
		{"negative integer", I64(-42), I64(-42)},
		{"min int64", I64(math.MinInt64), I64(math.MinInt64)},
		{"negative float", F64(-0.25), F64(-0.25)},
		{"pure imaginary", Complex(2i), Complex(2i)},
		{"memory reference", MemoryReference{Name: "theta", Index: 3}, MemoryReference{Name: "theta", Index: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParameterFromExpression(ToExpression(tt.in))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParameterRoundTripCanonicalForms(t *testing.T) {
	for _, p := range []Parameter{I64(5), I64(0), I64(-1), F64(0.5), Complex(1 - 1i)} {
		assert.Equal(t, p, ParameterFromExpression(ToExpression(p)), "%v", p)
	}
}

func TestParameterNaNStaysFloat(t *testing.T) {
	got := ParameterFromExpression(NewNumber(math.NaN()))
	f, ok := got.(F64)
	require.True(t, ok, "expected F64, got %T", got)
	assert.True(t, math.IsNaN(float64(f)))
}

func TestParameterInfinityStaysFloat(t *testing.T) {
	assert.Equal(t, F64(math.Inf(1)), ParameterFromExpression(NewNumber(math.Inf(1))))
	assert.Equal(t, F64(math.Inf(-1)), ParameterFromExpression(NewNumber(math.Inf(-1))))
}

func TestParameterNonNumericExpressionUnchanged(t *testing.T) {
	exprs := []Expression{
		NewVariable("theta"),
		PiConstant{},
		NewInfix(PiConstant{}, InfixSlash, NewNumber(2)),
		Prefix{Operator: PrefixMinus, Operand: NewVariable("phi")},
		FunctionCall{Function: FunctionCosine, Argument: NewVariable("a")},
	}

	for _, e := range exprs {
		got := ParameterFromExpression(e)
		assert.Equal(t, ExpressionParameter{Expression: e}, got)
		assert.Equal(t, e, ToExpression(got))
	}
}

func TestToExpressionLossless(t *testing.T) {
	assert.Equal(t, Number{Value: complex(5, 0)}, ToExpression(I64(5)))
	assert.Equal(t, Number{Value: complex(float64(uint64(1<<63)), 0)}, ToExpression(U64(1<<63)))
	assert.Equal(t, Number{Value: 1 + 2i}, ToExpression(Complex(1+2i)))
	assert.Equal(t, NewAddress("ro", 1), ToExpression(MemoryReference{Name: "ro", Index: 1}))
}

func TestParameterSliceHelpers(t *testing.T) {
	assert.Nil(t, ParametersToExpressions(nil))

	exprs := ParametersToExpressions([]Parameter{F64(1), ExpressionParameter{Expression: PiConstant{}}})
	require.Len(t, exprs, 2)

	params := ExpressionsToParameters(exprs)
	assert.Equal(t, []Parameter{I64(1), ExpressionParameter{Expression: PiConstant{}}}, params)

	// Fresh slice each call.
	params[0] = I64(99)
	assert.Equal(t, I64(1), ExpressionsToParameters(exprs)[0])

	assert.NotNil(t, ExpressionsToParameters(nil))
	assert.Empty(t, ExpressionsToParameters(nil))
}
