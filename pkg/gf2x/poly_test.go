package gf2x

import (
	"math/big"
	"testing"

	"github.com/Davincible/goppa/pkg/secure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T) secure.Source {
	return secure.NewSeededSource([]byte(t.Name()))
}

// poly builds a polynomial from its set exponents.
func poly(length int, exps ...int) *Poly {
	p := New(length)
	for _, e := range exps {
		p.SetBit(e)
	}
	return p
}

func TestConstructors(t *testing.T) {
	z := New(70)
	assert.True(t, z.IsZero())
	assert.Equal(t, 70, z.Len())
	assert.Equal(t, -1, z.Degree())

	one := One(70)
	assert.True(t, one.IsOne())
	assert.Equal(t, 0, one.Degree())

	x := X(1)
	assert.Equal(t, 2, x.Len())
	assert.Equal(t, 1, x.Degree())

	all := AllOnes(37)
	assert.Equal(t, 36, all.Degree())
	for i := 0; i < 37; i++ {
		assert.True(t, all.TestBit(i))
	}
	assert.Equal(t, uint32(0x1f), all.Words()[1])

	r := Random(45, testSource(t))
	assert.LessOrEqual(t, r.Degree(), 44)
}

func TestBitAccess(t *testing.T) {
	p := New(40)
	p.SetBit(0)
	p.SetBit(33)
	assert.Equal(t, 1, p.Bit(33))
	assert.True(t, p.TestBit(0))

	p.XorBit(33)
	assert.Equal(t, 0, p.Bit(33))
	p.XorBit(39)
	p.ResetBit(0)
	assert.Equal(t, 39, p.Degree())

	// reads outside the length behave like an infinite zero-padded string
	assert.Equal(t, 0, p.Bit(40))
	assert.Equal(t, 0, p.Bit(-1))
	assert.False(t, p.TestBit(1000))

	assert.Panics(t, func() { p.SetBit(40) })
	assert.Panics(t, func() { p.ResetBit(-1) })
	assert.Panics(t, func() { p.XorBit(100) })
}

func TestAddIsInvolution(t *testing.T) {
	src := testSource(t)
	for _, la := range []int{1, 31, 32, 33, 100, 513} {
		for _, lb := range []int{1, 17, 64, 200} {
			a := Random(la, src)
			b := Random(lb, src)

			sum := a.Add(b)
			assert.Equal(t, max(la, lb), sum.Len())
			assert.True(t, sum.Add(b).Equal(a), "la=%d lb=%d", la, lb)
		}
	}
}

func TestMultiplySmall(t *testing.T) {
	// (x + 1)^2 = x^2 + 1
	a := poly(2, 0, 1)
	assert.True(t, a.Multiply(a).Equal(poly(3, 0, 2)))

	// (x^2 + 1)(x + 1) = x^3 + x^2 + x + 1
	b := poly(3, 0, 2)
	assert.True(t, b.Multiply(a).Equal(poly(4, 0, 1, 2, 3)))
	assert.True(t, b.MultiplyClassic(a).Equal(poly(4, 0, 1, 2, 3)))
}

func TestKaratsubaMatchesClassic(t *testing.T) {
	src := testSource(t)
	lengths := []int{
		1, 5, 31, 32, 33, 63, 64, 65, 100, 127, 128, 129,
		200, 255, 256, 257, 400, 511, 512, 513, 700, 1024, 1100, 2049,
	}
	for _, l := range lengths {
		for trial := 0; trial < 3; trial++ {
			a := Random(l, src)
			b := Random(l, src)

			k := a.Multiply(b)
			c := a.MultiplyClassic(b)
			require.Equal(t, 2*l, k.Len())
			require.True(t, k.Equal(c), "length %d", l)
		}
	}
}

func TestKaratsubaUnequalLengths(t *testing.T) {
	src := testSource(t)
	a := Random(77, src)
	b := Random(600, src)
	assert.True(t, a.Multiply(b).Equal(a.MultiplyClassic(b)))
	assert.True(t, a.Multiply(b).Equal(b.Multiply(a)))
}

func TestDivide(t *testing.T) {
	src := testSource(t)
	for _, l := range []int{3, 40, 130, 600} {
		a := Random(2*l, src)
		g := Random(l, src)
		g.SetBit(l - 1)

		q, r, err := a.Divide(g)
		require.NoError(t, err)
		assert.Less(t, r.Degree(), g.Degree())

		back := q.Multiply(g)
		back.AddToThis(r)
		assert.True(t, back.Equal(a))

		rem, err := a.Remainder(g)
		require.NoError(t, err)
		assert.True(t, rem.Equal(r))

		quo, err := a.Quotient(g)
		require.NoError(t, err)
		assert.True(t, quo.Equal(q))
	}

	_, err := One(4).Remainder(New(4))
	assert.ErrorIs(t, err, ErrDivisionByZero)
	_, _, err = One(4).Divide(New(9))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestGCD(t *testing.T) {
	// (x + 1)(x^2 + x + 1) and (x + 1)^2 share x + 1
	a := poly(2, 0, 1).Multiply(poly(3, 0, 1, 2))
	b := poly(2, 0, 1).Multiply(poly(2, 0, 1))

	g, err := a.GCD(b)
	require.NoError(t, err)
	assert.True(t, g.Equal(poly(2, 0, 1)))

	g, err = New(10).GCD(b)
	require.NoError(t, err)
	assert.True(t, g.Equal(b))

	_, err = New(5).GCD(New(7))
	assert.ErrorIs(t, err, ErrZeroGCD)
}

func TestIsIrreducible(t *testing.T) {
	tests := []struct {
		name string
		p    *Poly
		want bool
	}{
		{"x", poly(2, 1), true},
		{"x+1", poly(2, 0, 1), true},
		{"x^2+x+1", poly(3, 0, 1, 2), true},
		{"x^2+1", poly(3, 0, 2), false},
		{"x^3+x+1", poly(4, 0, 1, 3), true},
		{"x^4+x^2+1", poly(5, 0, 2, 4), false},
		{"AES x^8+x^4+x^3+x+1", poly(9, 0, 1, 3, 4, 8), true},
		{"x^8+x^4+x^3+x^2+1 padded", poly(40, 0, 2, 3, 4, 8), true},
		{"x^8+1", poly(9, 0, 8), false},
		{"B-163 pentanomial", poly(164, 0, 3, 6, 7, 163), true},
		{"B-233 trinomial", poly(234, 0, 74, 233), true},
		{"constant one", One(8), false},
		{"zero", New(8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.IsIrreducible())
		})
	}

	// a product of two irreducibles is reducible
	prod := poly(4, 0, 1, 3).Multiply(poly(3, 0, 1, 2))
	assert.False(t, prod.IsIrreducible())
}

func TestSquaringVariants(t *testing.T) {
	src := testSource(t)
	for _, l := range []int{1, 2, 31, 32, 33, 100, 257} {
		a := Random(l, src)
		want := a.Multiply(a)

		b := a.Clone()
		b.SquareThisBitwise()
		assert.Equal(t, 2*l-1, b.Len())
		assert.True(t, b.Equal(want), "bitwise length %d", l)

		c := a.Clone()
		c.SquareThisPreCalc()
		assert.Equal(t, 2*l-1, c.Len())
		assert.True(t, c.Equal(want), "table length %d", l)
	}
}

func TestReduceTrinomial(t *testing.T) {
	src := testSource(t)
	tests := []struct{ m, tc int }{
		{233, 74}, {7, 1}, {7, 6}, {64, 1}, {65, 18}, {127, 1}, {31, 3},
	}
	for _, tt := range tests {
		f := poly(tt.m+1, 0, tt.tc, tt.m)
		a := Random(2*tt.m-1, src)

		want, err := a.Remainder(f)
		require.NoError(t, err)

		got := a.Clone()
		got.ReduceTrinomial(tt.m, tt.tc)
		assert.Equal(t, tt.m, got.Len())
		assert.True(t, got.Equal(want), "m=%d tc=%d", tt.m, tt.tc)
	}

	assert.Panics(t, func() { New(4).ReduceTrinomial(5, 5) })
}

func TestReducePentanomial(t *testing.T) {
	src := testSource(t)
	tests := []struct {
		m  int
		pc [3]int
	}{
		{163, [3]int{3, 6, 7}},
		{8, [3]int{1, 3, 4}},
		{32, [3]int{2, 3, 7}},
		{96, [3]int{9, 10, 95}},
	}
	for _, tt := range tests {
		f := poly(tt.m+1, 0, tt.pc[0], tt.pc[1], tt.pc[2], tt.m)
		a := Random(2*tt.m-1, src)

		want, err := a.Remainder(f)
		require.NoError(t, err)

		got := a.Clone()
		got.ReducePentanomial(tt.m, tt.pc)
		assert.True(t, got.Equal(want), "m=%d pc=%v", tt.m, tt.pc)
	}

	// already reduced input is only resized
	small := poly(3, 0, 2)
	small.ReducePentanomial(8, [3]int{1, 3, 4})
	assert.Equal(t, 8, small.Len())
	assert.True(t, small.Equal(poly(3, 0, 2)))
}

func TestShifts(t *testing.T) {
	p := poly(40, 0, 31, 39)

	l := p.ShiftLeft()
	assert.Equal(t, 41, l.Len())
	assert.True(t, l.Equal(poly(41, 1, 32, 40)))

	lk := p.ShiftLeftBy(33)
	assert.True(t, lk.Equal(poly(73, 33, 64, 72)))

	r := l.ShiftRight()
	assert.Equal(t, 40, r.Len())
	assert.True(t, r.Equal(p))

	q := p.Clone()
	q.ShiftLeftThis()
	assert.True(t, q.Equal(l))
	q.ShiftRightThis()
	assert.True(t, q.Equal(p))

	acc := New(1)
	acc.ShiftLeftAddThis(p, 5)
	assert.True(t, acc.Equal(p.ShiftLeftBy(5)))
}

func TestByteAndBigIntRoundTrip(t *testing.T) {
	src := testSource(t)
	for _, l := range []int{1, 8, 9, 63, 160} {
		p := Random(l, src)

		assert.True(t, FromBytes(l, p.Bytes()).Equal(p))
		assert.True(t, FromBigInt(l, p.BigInt()).Equal(p))
		assert.True(t, FromWords(l, p.Words()).Equal(p))
	}

	p := FromBytes(16, []byte{0x01, 0x02})
	assert.True(t, p.Equal(poly(16, 1, 8)))
	assert.Equal(t, "0102", p.String())

	wide := FromBigInt(4, big.NewInt(0x1ff))
	assert.Equal(t, 9, wide.Len())
}

func TestVectorMult(t *testing.T) {
	a := poly(10, 0, 3, 9)
	b := poly(10, 3, 4, 9)
	assert.False(t, a.VectorMult(b))
	assert.True(t, a.VectorMult(poly(10, 3)))
	assert.Panics(t, func() { a.VectorMult(New(11)) })
}

func TestReduceAndExpand(t *testing.T) {
	p := poly(100, 3)
	p.ReduceN()
	assert.Equal(t, 4, p.Len())

	p.ExpandN(90)
	assert.Equal(t, 90, p.Len())
	assert.Equal(t, 3, p.Degree())
}

func BenchmarkMultiply(b *testing.B) {
	src := secure.NewSeededSource([]byte("bench"))
	x := Random(1024, src)
	y := Random(1024, src)

	b.Run("karatsuba", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			x.Multiply(y)
		}
	})
	b.Run("classic", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			x.MultiplyClassic(y)
		}
	})
}
