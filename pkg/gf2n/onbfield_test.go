package gf2n

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestONBType(t *testing.T) {
	tests := []struct {
		degree int
		typ    int
	}{
		{2, 2}, {3, 2}, {4, 1}, {5, 2}, {6, 2}, {9, 2},
		{10, 1}, {11, 2}, {12, 1}, {233, 2},
	}
	for _, tt := range tests {
		f, err := NewONBField(tt.degree)
		require.NoError(t, err, "degree %d", tt.degree)
		assert.Equal(t, tt.typ, f.Type(), "degree %d", tt.degree)
		assert.True(t, HasONB(tt.degree))
		assert.Equal(t, NormalBasis, f.Basis())
		assert.True(t, f.FieldPolynomial().IsIrreducible(), "degree %d", tt.degree)
	}

	for _, n := range []int{7, 8, 16} {
		_, err := NewONBField(n)
		assert.ErrorIs(t, err, ErrNoONB, "degree %d", n)
		assert.False(t, HasONB(n))
	}
	_, err := NewONBField(1)
	assert.ErrorIs(t, err, ErrInvalidDegree)
}

func TestONBFieldPolynomial(t *testing.T) {
	f, err := NewONBField(3)
	require.NoError(t, err)
	// x^3 + x^2 + 1
	assert.Equal(t, "d", f.FieldPolynomial().BigInt().Text(16))

	f, err = NewONBField(4)
	require.NoError(t, err)
	// 1 + x + x^2 + x^3 + x^4
	assert.Equal(t, "1f", f.FieldPolynomial().BigInt().Text(16))
}

func onbFields(t *testing.T) []*ONBField {
	var out []*ONBField
	for _, n := range []int{2, 3, 4, 5, 10, 11, 12, 65, 233} {
		f, err := NewONBField(n)
		require.NoError(t, err)
		out = append(out, f)
	}
	return out
}

func TestONBElementArithmetic(t *testing.T) {
	src := seeded(t)
	for _, f := range onbFields(t) {
		n := f.Degree()
		one := f.One()
		assert.True(t, one.IsOne())
		assert.True(t, one.Multiply(one).IsOne(), "n=%d", n)

		for i := 0; i < 4; i++ {
			a, b, c := f.Random(src), f.Random(src), f.Random(src)

			assert.True(t, a.Multiply(one).Equal(a), "n=%d", n)
			assert.True(t, a.Multiply(b).Equal(b.Multiply(a)), "n=%d", n)
			assert.True(t, a.Multiply(b).Multiply(c).Equal(a.Multiply(b.Multiply(c))), "n=%d", n)
			assert.True(t, a.Multiply(b.Add(c)).Equal(a.Multiply(b).Add(a.Multiply(c))), "n=%d", n)
			assert.True(t, a.Square().Equal(a.Multiply(a)), "n=%d", n)
			assert.True(t, a.Square().SquareRoot().Equal(a), "n=%d", n)

			if a.IsZero() {
				continue
			}
			inv, err := a.Invert()
			require.NoError(t, err)
			assert.True(t, a.Multiply(inv).IsOne(), "n=%d", n)
		}
	}
}

func TestONBElementTraceAndQuadratic(t *testing.T) {
	src := seeded(t)
	for _, f := range onbFields(t) {
		n := f.Degree()
		assert.Equal(t, n&1, f.One().Trace(), "n=%d", n)

		for i := 0; i < 8; i++ {
			a, b := f.Random(src), f.Random(src)
			assert.Equal(t, a.Trace()^b.Trace(), a.Add(b).Trace(), "n=%d", n)

			z, err := a.SolveQuadraticEquation(src)
			if a.Trace() == 1 {
				assert.ErrorIs(t, err, ErrNoSolution, "n=%d", n)
				continue
			}
			require.NoError(t, err)
			assert.True(t, z.Square().Add(z).Equal(a), "n=%d", n)
		}
	}
}

func TestONBElementEncoding(t *testing.T) {
	src := seeded(t)
	f, err := NewONBField(11)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x07, 0xff}, f.One().Bytes())

	// the external least significant bit is coordinate n-1
	e, err := f.FromBigInt(big.NewInt(1))
	require.NoError(t, err)
	assert.True(t, e.TestRightmostBit())
	assert.True(t, e.TestBit(10))
	assert.False(t, e.TestBit(0))

	for i := 0; i < 5; i++ {
		a := f.Random(src)
		got, err := f.FromBytes(a.Bytes())
		require.NoError(t, err)
		assert.True(t, got.Equal(a))

		rev := a.Clone().(*ONBElement)
		rev.ReverseOrder()
		for j := 0; j < 11; j++ {
			assert.Equal(t, a.TestBit(j), rev.TestBit(10-j))
		}
		rev.ReverseOrder()
		assert.True(t, rev.Equal(a))
	}

	_, err = f.FromBigInt(big.NewInt(1 << 11))
	assert.ErrorIs(t, err, ErrInvalidElement)

	_, err = f.Zero().Invert()
	assert.ErrorIs(t, err, ErrZeroInverse)
}

func TestMixedBasisPanics(t *testing.T) {
	src := seeded(t)
	onb, err := NewONBField(11)
	require.NoError(t, err)
	poly, err := NewPolynomialField(11, src)
	require.NoError(t, err)

	assert.Panics(t, func() { onb.One().Add(poly.One()) })
	assert.Panics(t, func() { poly.One().Multiply(onb.One()) })
	assert.False(t, onb.One().Equal(poly.One()))
}
