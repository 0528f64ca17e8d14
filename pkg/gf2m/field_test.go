package gf2m

import (
	"testing"

	"github.com/Davincible/goppa/pkg/secure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource(t testing.TB) secure.Source {
	return secure.NewSeededSource([]byte(t.Name()))
}

func mustField(t *testing.T, degree int) *Field {
	t.Helper()
	f, err := NewField(degree, testSource(t))
	require.NoError(t, err)
	return f
}

func TestRingFunctions(t *testing.T) {
	// (x + 1)(x^2 + x + 1) = x^3 + 1
	assert.Equal(t, int64(0x9), PolyMult(0x3, 0x7))
	assert.Equal(t, int64(0), PolyMult(0x3, 0))
	assert.Equal(t, 0, PolyRemainder(0x9, 0x3))
	assert.Equal(t, 1, PolyRemainder(0xb, 0x3))
	assert.Equal(t, 0, PolyRemainder(0x9, 0x7))
	assert.Equal(t, 0x7, PolyGCD(0x9, 0x7))
	assert.Equal(t, 3, Degree(0x9))
	assert.Equal(t, -1, Degree(0))
	assert.Equal(t, 0x6, PolyAdd(0x3, 0x5))

	// AES: 0x53 * 0xca = 1
	assert.Equal(t, 1, PolyMultMod(0x53, 0xca, 0x11b))
	assert.Equal(t, PolyMultMod(0x57, 0x83, 0x11b), PolyMod(PolyMult(0x57, 0x83), 0x11b))
	assert.Equal(t, 0xc1, PolyMultMod(0x57, 0x83, 0x11b))

	assert.Panics(t, func() { PolyRemainder(5, 0) })
}

func TestIsIrreducibleWord(t *testing.T) {
	tests := []struct {
		name string
		p    int
		want bool
	}{
		{"x+1", 0x3, true},
		{"x^2+x+1", 0x7, true},
		{"x^2+1", 0x5, false},
		{"AES", 0x11b, true},
		{"x^8+x^4+x^3+x^2+1", 0x11d, true},
		{"x^8+1", 0x101, false},
		{"x^3+x^2+x+1", 0xf, false},
		{"zero", 0, false},
		{"one", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIrreducible(tt.p))
		})
	}
}

func TestIrreduciblePolynomial(t *testing.T) {
	for deg := 1; deg <= 31; deg++ {
		p := IrreduciblePolynomial(deg, nil)
		assert.Equal(t, deg, Degree(p), "degree %d", deg)
		assert.True(t, IsIrreducible(p), "degree %d", deg)
	}
	// the ascending scan finds the smallest candidate
	assert.Equal(t, 0x7, IrreduciblePolynomial(2, nil))
	assert.Equal(t, 0xb, IrreduciblePolynomial(3, nil))
	assert.Equal(t, 0x11b, IrreduciblePolynomial(8, nil))

	assert.Equal(t, 0, IrreduciblePolynomial(0, nil))
	assert.Equal(t, 0, IrreduciblePolynomial(32, nil))
}

func TestNewField(t *testing.T) {
	f := mustField(t, 13)
	assert.Equal(t, 13, f.Degree())
	assert.True(t, IsIrreducible(f.Polynomial()))

	_, err := NewField(0, nil)
	assert.ErrorIs(t, err, ErrInvalidDegree)
	_, err = NewField(32, nil)
	assert.ErrorIs(t, err, ErrInvalidDegree)
	// GF(2^1) is GF(2) itself and not a small binary field
	_, err = NewField(1, testSource(t))
	assert.ErrorIs(t, err, ErrInvalidDegree)

	f = mustField(t, 2)
	assert.Equal(t, 0x7, f.Polynomial())
}

func TestNewFieldWithPolynomial(t *testing.T) {
	f, err := NewFieldWithPolynomial(8, 0x11b)
	require.NoError(t, err)
	assert.Equal(t, 0x11b, f.Polynomial())

	// a reducible word must not silently fall back to a default polynomial
	_, err = NewFieldWithPolynomial(8, 0x101)
	assert.ErrorIs(t, err, ErrNotIrreducible)

	_, err = NewFieldWithPolynomial(8, 0x7)
	assert.Error(t, err)

	_, err = NewFieldWithPolynomial(1, 0x3)
	assert.ErrorIs(t, err, ErrInvalidDegree)
}

func TestFieldEncoding(t *testing.T) {
	f, err := NewFieldWithPolynomial(8, 0x11b)
	require.NoError(t, err)

	enc := f.Encode()
	assert.Equal(t, []byte{0x1b, 0x01, 0x00, 0x00}, enc)

	g, err := DecodeField(enc)
	require.NoError(t, err)
	assert.True(t, f.Equal(g))

	_, err = DecodeField([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = DecodeField([]byte{0x01, 0x01, 0, 0})
	assert.ErrorIs(t, err, ErrNotIrreducible)
	_, err = DecodeField([]byte{0x03, 0, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidDegree)
}

func TestMultInverse(t *testing.T) {
	for _, deg := range []int{2, 3, 8, 11, 13} {
		f := mustField(t, deg)
		for a := 1; a < 1<<uint(deg) && a < 600; a++ {
			inv, err := f.Inverse(a)
			require.NoError(t, err)
			require.Equal(t, 1, f.Mult(a, inv), "degree %d element %d", deg, a)
		}
	}

	f := mustField(t, 8)
	_, err := f.Inverse(0)
	assert.ErrorIs(t, err, ErrZeroInverse)
}

func TestExp(t *testing.T) {
	f, err := NewFieldWithPolynomial(8, 0x11b)
	require.NoError(t, err)

	a := 0x57
	assert.Equal(t, 1, f.Exp(a, 0))
	assert.Equal(t, a, f.Exp(a, 1))
	assert.Equal(t, f.Mult(a, f.Mult(a, a)), f.Exp(a, 3))
	assert.Equal(t, 1, f.Exp(a, 255))

	inv, err := f.Inverse(a)
	require.NoError(t, err)
	assert.Equal(t, inv, f.Exp(a, -1))
	assert.Equal(t, f.Mult(inv, inv), f.Exp(a, -2))
	assert.Equal(t, 0, f.Exp(0, 5))
	assert.Equal(t, 1, f.Exp(0, 0))
	assert.Equal(t, 1, f.Exp(1, -7))
	// zero has no inverse, so a negative power of it must not come back as 0
	assert.Panics(t, func() { f.Exp(0, -1) })
	assert.Panics(t, func() { f.Exp(0, -4) })
}

func TestSqRoot(t *testing.T) {
	f := mustField(t, 10)
	for a := 0; a < 1<<10; a++ {
		r := f.SqRoot(a)
		require.Equal(t, a, f.Mult(r, r))
	}
}

func TestRandomElements(t *testing.T) {
	f := mustField(t, 5)
	src := testSource(t)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		e := f.RandomElement(src)
		require.True(t, f.IsElementOfThisField(e))
		seen[e] = true

		nz := f.RandomNonZeroElement(src)
		require.NotZero(t, nz)
		require.True(t, f.IsElementOfThisField(nz))
	}
	assert.Len(t, seen, 32)

	assert.False(t, f.IsElementOfThisField(32))
	assert.False(t, f.IsElementOfThisField(-1))
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestRandomNonZeroElementBrokenSource(t *testing.T) {
	f := mustField(t, 3)
	src := secure.NewReaderSource(zeroReader{})
	assert.Zero(t, f.RandomElement(src))
	// a constant source must not be masked by a fixed non-zero element
	assert.PanicsWithValue(t, "gf2m: randomness source returned only zero elements", func() {
		f.RandomNonZeroElement(src)
	})
}

func TestElementCodec(t *testing.T) {
	f := mustField(t, 13)
	enc := f.EncodeElement(0x1abc)
	assert.Equal(t, []byte{0xbc, 0x1a}, enc)

	e, err := f.DecodeElement(enc)
	require.NoError(t, err)
	assert.Equal(t, 0x1abc, e)

	_, err = f.DecodeElement([]byte{0xff, 0xff})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = f.DecodeElement([]byte{0x01})
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	assert.Equal(t, "1011000000000", f.ElementToString(0xd))
}
