package gf2n

import (
	"math/big"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/secure"
)

func seeded(t *testing.T) secure.Source {
	return secure.NewSeededSource([]byte(t.Name()))
}

// denseDegree8 returns an irreducible degree 8 polynomial that is neither a
// trinomial nor a pentanomial.
func denseDegree8(t *testing.T) *gf2x.Poly {
	for v := int64(0x100); v < 0x200; v++ {
		if bits.OnesCount64(uint64(v)) < 7 {
			continue
		}
		p := gf2x.FromBigInt(9, big.NewInt(v))
		if p.IsIrreducible() {
			return p
		}
	}
	t.Fatal("no dense irreducible polynomial of degree 8")
	return nil
}

func TestNewPolynomialField(t *testing.T) {
	src := seeded(t)

	f, err := NewPolynomialField(2, src)
	require.NoError(t, err)
	assert.True(t, f.IsTrinomial())
	assert.Equal(t, 1, f.Tc())
	assert.Equal(t, PolynomialBasis, f.Basis())

	f, err = NewPolynomialField(8, src)
	require.NoError(t, err)
	assert.False(t, f.IsTrinomial())
	assert.True(t, f.IsPentanomial())
	assert.True(t, f.FieldPolynomial().IsIrreducible())
	assert.Equal(t, 8, f.FieldPolynomial().Degree())

	f, err = NewPolynomialField(233, src)
	require.NoError(t, err)
	assert.True(t, f.IsTrinomial())

	_, err = NewPolynomialField(1, src)
	assert.ErrorIs(t, err, ErrInvalidDegree)
}

func TestNewPolynomialFieldWith(t *testing.T) {
	dense := denseDegree8(t)
	f, err := NewPolynomialFieldWith(8, dense)
	require.NoError(t, err)
	assert.False(t, f.IsTrinomial())
	assert.False(t, f.IsPentanomial())
	assert.True(t, f.FieldPolynomial().Equal(dense))

	// x^8 + x^4 + x^3 + x + 1
	aes := gf2x.FromBigInt(9, big.NewInt(0x11b))
	f, err = NewPolynomialFieldWith(8, aes)
	require.NoError(t, err)
	assert.True(t, f.IsPentanomial())
	assert.Equal(t, [3]int{1, 3, 4}, f.Pc())

	_, err = NewPolynomialFieldWith(8, gf2x.FromBigInt(9, big.NewInt(0x101)))
	assert.ErrorIs(t, err, ErrNotIrreducible)
	_, err = NewPolynomialFieldWith(9, aes)
	assert.ErrorIs(t, err, ErrInvalidDegree)
}

func TestPolynomialFieldAES(t *testing.T) {
	f, err := NewPolynomialFieldWith(8, gf2x.FromBigInt(9, big.NewInt(0x11b)))
	require.NoError(t, err)

	elem := func(v int64) Element {
		e, err := f.FromBigInt(big.NewInt(v))
		require.NoError(t, err)
		return e
	}
	assert.True(t, elem(0x57).Multiply(elem(0x83)).Equal(elem(0xc1)))
	assert.True(t, elem(0x53).Multiply(elem(0xca)).IsOne())

	inv, err := elem(0x53).Invert()
	require.NoError(t, err)
	assert.Equal(t, int64(0xca), inv.BigInt().Int64())
	assert.Equal(t, []byte{0xca}, inv.Bytes())
}

// polyFields covers trinomial, pentanomial and generic reduction.
func polyFields(t *testing.T, src secure.Source) []*PolynomialField {
	var out []*PolynomialField
	for _, n := range []int{2, 3, 8, 13, 64, 113, 163} {
		f, err := NewPolynomialField(n, src)
		require.NoError(t, err)
		out = append(out, f)
	}
	f, err := NewPolynomialFieldWith(8, denseDegree8(t))
	require.NoError(t, err)
	return append(out, f)
}

func TestPolynomialElementArithmetic(t *testing.T) {
	src := seeded(t)
	for _, f := range polyFields(t, src) {
		n := f.Degree()
		for i := 0; i < 5; i++ {
			a := f.Random(src).(*PolynomialElement)
			b := f.Random(src)
			c := f.Random(src)

			assert.True(t, a.Multiply(b).Multiply(c).Equal(a.Multiply(b.Multiply(c))), "n=%d", n)
			assert.True(t, a.Multiply(b).Equal(b.Multiply(a)), "n=%d", n)
			assert.True(t, a.Multiply(b.Add(c)).Equal(a.Multiply(b).Add(a.Multiply(c))), "n=%d", n)
			assert.True(t, a.Multiply(f.One()).Equal(a), "n=%d", n)
			assert.True(t, a.Add(a).IsZero(), "n=%d", n)

			sq := a.Multiply(a)
			assert.True(t, a.Square().Equal(sq), "n=%d", n)
			assert.True(t, a.SquareBitwise().Equal(sq), "n=%d", n)
			assert.True(t, a.SquareMatrix().Equal(sq), "n=%d", n)
			assert.True(t, sq.SquareRoot().Equal(a), "n=%d", n)

			if a.IsZero() {
				continue
			}
			maia, err := a.InvertMAIA()
			require.NoError(t, err)
			eea, err := a.InvertEEA()
			require.NoError(t, err)
			itoh, err := a.InvertSquare()
			require.NoError(t, err)
			assert.True(t, a.Multiply(maia).IsOne(), "n=%d", n)
			assert.True(t, maia.Equal(eea), "n=%d", n)
			assert.True(t, maia.Equal(itoh), "n=%d", n)

			inPlace := a.Clone()
			require.NoError(t, inPlace.InvertThis())
			assert.True(t, inPlace.Equal(maia), "n=%d", n)
		}
	}
}

func TestPolynomialElementPower(t *testing.T) {
	src := seeded(t)
	f, err := NewPolynomialField(13, src)
	require.NoError(t, err)

	a := f.Random(src).(*PolynomialElement)
	for a.IsZero() {
		a = f.Random(src).(*PolynomialElement)
	}
	assert.True(t, a.Power(0).IsOne())
	assert.True(t, a.Power(1).Equal(a))
	assert.True(t, a.Power(3).Equal(a.Multiply(a).Multiply(a)))
	assert.True(t, a.Power(1<<13-1).IsOne())

	x := f.X()
	assert.True(t, x.TestBit(1))
	assert.False(t, x.TestRightmostBit())
}

func TestPolynomialElementTrace(t *testing.T) {
	src := seeded(t)
	for _, f := range polyFields(t, src) {
		n := f.Degree()
		assert.Equal(t, n&1, f.One().Trace(), "n=%d", n)
		assert.Equal(t, 0, f.Zero().Trace(), "n=%d", n)
		for i := 0; i < 5; i++ {
			a, b := f.Random(src), f.Random(src)
			assert.Equal(t, a.Trace()^b.Trace(), a.Add(b).Trace(), "n=%d", n)
			assert.Equal(t, a.Trace(), a.Square().Trace(), "n=%d", n)
		}
	}
}

func TestPolynomialElementQuadratic(t *testing.T) {
	src := seeded(t)
	for _, f := range polyFields(t, src) {
		n := f.Degree()
		solved, unsolvable := 0, 0
		for i := 0; i < 12; i++ {
			a := f.Random(src)
			z, err := a.SolveQuadraticEquation(src)
			if a.Trace() == 1 {
				assert.ErrorIs(t, err, ErrNoSolution, "n=%d", n)
				unsolvable++
				continue
			}
			require.NoError(t, err, "n=%d", n)
			assert.True(t, z.Square().Add(z).Equal(a), "n=%d", n)
			solved++
		}
		assert.Equal(t, 12, solved+unsolvable)
	}

	f, err := NewPolynomialField(13, src)
	require.NoError(t, err)
	z, err := f.Zero().SolveQuadraticEquation(src)
	require.NoError(t, err)
	assert.True(t, z.IsZero())
}

func TestPolynomialElementHalfTrace(t *testing.T) {
	src := seeded(t)
	odd, err := NewPolynomialField(13, src)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		a := odd.Random(src).(*PolynomialElement)
		h, err := a.HalfTrace()
		require.NoError(t, err)
		// H(a)^2 + H(a) = a + Tr(a)
		want := a.Clone()
		if a.Trace() == 1 {
			want.AddToThis(odd.One())
		}
		assert.True(t, h.Square().Add(h).Equal(want))
	}

	even, err := NewPolynomialField(64, src)
	require.NoError(t, err)
	_, err = even.One().(*PolynomialElement).HalfTrace()
	assert.ErrorIs(t, err, ErrEvenDegree)
}

func TestPolynomialElementEncoding(t *testing.T) {
	src := seeded(t)
	f, err := NewPolynomialField(113, src)
	require.NoError(t, err)

	a := f.Random(src)
	bs := a.Bytes()
	assert.Len(t, bs, 15)
	got, err := f.FromBytes(bs)
	require.NoError(t, err)
	assert.True(t, got.Equal(a))

	got, err = f.FromBigInt(a.BigInt())
	require.NoError(t, err)
	assert.True(t, got.Equal(a))

	_, err = f.FromBigInt(new(big.Int).Lsh(big.NewInt(1), 113))
	assert.ErrorIs(t, err, ErrInvalidElement)
	_, err = f.FromBigInt(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidElement)

	_, err = f.NewElement(gf2x.One(200))
	require.NoError(t, err)
	_, err = f.NewElement(gf2x.FromBigInt(114, new(big.Int).Lsh(big.NewInt(1), 113)))
	assert.ErrorIs(t, err, ErrInvalidElement)
}

func TestPolynomialElementErrors(t *testing.T) {
	src := seeded(t)
	f, err := NewPolynomialField(13, src)
	require.NoError(t, err)
	g, err := NewPolynomialField(17, src)
	require.NoError(t, err)

	_, err = f.Zero().Invert()
	assert.ErrorIs(t, err, ErrZeroInverse)
	assert.ErrorIs(t, f.Zero().InvertThis(), ErrZeroInverse)
	_, err = f.Zero().(*PolynomialElement).InvertEEA()
	assert.ErrorIs(t, err, ErrZeroInverse)
	_, err = f.Zero().(*PolynomialElement).InvertSquare()
	assert.ErrorIs(t, err, ErrZeroInverse)

	assert.Panics(t, func() { f.One().Add(g.One()) })
	assert.Panics(t, func() { f.One().Multiply(g.One()) })
	assert.False(t, f.One().Equal(g.One()))

	// same polynomial in another instance is the same field
	h, err := NewPolynomialField(13, src)
	require.NoError(t, err)
	assert.NotEqual(t, f.ID(), h.ID())
	assert.True(t, f.One().Equal(h.One()))
	assert.NotPanics(t, func() { f.One().Add(h.One()) })
}
