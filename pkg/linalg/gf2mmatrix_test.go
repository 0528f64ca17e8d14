package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davincible/goppa/pkg/gf2m"
	"github.com/Davincible/goppa/pkg/secure"
)

func aesField(t *testing.T) *gf2m.Field {
	t.Helper()
	field, err := gf2m.NewFieldWithPolynomial(8, 0x11b)
	require.NoError(t, err)
	return field
}

// mulGF2m is a schoolbook product used to check inverses independently of
// the matrix type.
func mulGF2m(f *gf2m.Field, a, b *GF2mMatrix) [][]int {
	out := make([][]int, a.Rows())
	for i := range out {
		out[i] = make([]int, b.Cols())
		for j := range out[i] {
			var s int
			for k := 0; k < a.Cols(); k++ {
				s ^= f.Mult(a.At(i, k), b.At(k, j))
			}
			out[i][j] = s
		}
	}
	return out
}

func assertIdentity(t *testing.T, m [][]int) {
	t.Helper()
	for i := range m {
		for j := range m[i] {
			want := 0
			if i == j {
				want = 1
			}
			assert.Equal(t, want, m[i][j], "(%d,%d)", i, j)
		}
	}
}

// randomRegularGF2m returns P*L*U with L unit lower and U unit upper
// triangular over f and P a random row permutation, so it is regular and
// its diagonal may contain zeros.
func randomRegularGF2m(t *testing.T, f *gf2m.Field, n int, src secure.Source) *GF2mMatrix {
	t.Helper()
	lower := make([][]int, n)
	upper := make([][]int, n)
	for i := 0; i < n; i++ {
		lower[i] = make([]int, n)
		upper[i] = make([]int, n)
		lower[i][i], upper[i][i] = 1, 1
		for j := 0; j < i; j++ {
			lower[i][j] = f.RandomElement(src)
		}
		for j := i + 1; j < n; j++ {
			upper[i][j] = f.RandomElement(src)
		}
	}
	l, err := NewGF2mMatrix(f, lower)
	require.NoError(t, err)
	u, err := NewGF2mMatrix(f, upper)
	require.NoError(t, err)

	lu := mulGF2m(f, l, u)
	p := NewRandomPermutation(n, src).Vector()
	rows := make([][]int, n)
	for i := range rows {
		rows[i] = lu[p[i]]
	}
	a, err := NewGF2mMatrix(f, rows)
	require.NoError(t, err)
	return a
}

func TestGF2mMatrix(t *testing.T) {
	field := aesField(t)

	a, err := NewGF2mMatrix(field, [][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)

	inv, err := a.ComputeInverse()
	require.NoError(t, err)
	assertIdentity(t, mulGF2m(field, a, inv))

	t.Run("pivot swap", func(t *testing.T) {
		b, err := NewGF2mMatrix(field, [][]int{{0, 7}, {5, 0}})
		require.NoError(t, err)
		binv, err := b.ComputeInverse()
		require.NoError(t, err)
		i7, _ := field.Inverse(7)
		i5, _ := field.Inverse(5)
		assert.Equal(t, 0, binv.At(0, 0))
		assert.Equal(t, i5, binv.At(0, 1))
		assert.Equal(t, i7, binv.At(1, 0))
	})

	t.Run("singular", func(t *testing.T) {
		s, err := NewGF2mMatrix(field, [][]int{{1, 2}, {2, field.Mult(2, 2)}})
		require.NoError(t, err)
		_, err = s.ComputeInverse()
		assert.ErrorIs(t, err, ErrSingular)

		r, err := NewGF2mMatrix(field, [][]int{{1, 2, 3}, {4, 5, 6}})
		require.NoError(t, err)
		_, err = r.ComputeInverse()
		assert.ErrorIs(t, err, ErrSingular)
	})

	t.Run("encoding", func(t *testing.T) {
		enc := a.Encode()
		assert.Equal(t, []byte{2, 0, 0, 0, 1, 2, 3, 4}, enc)
		got, err := DecodeGF2mMatrix(field, enc)
		require.NoError(t, err)
		assert.True(t, a.Equal(got))

		_, err = DecodeGF2mMatrix(field, []byte{2, 0, 0, 0, 1, 2, 3})
		assert.ErrorIs(t, err, ErrInvalidEncoding)
		_, err = DecodeGF2mMatrix(field, []byte{0, 0, 0, 0, 1})
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("products", func(t *testing.T) {
		_, err := a.RightMultiply(a)
		assert.ErrorIs(t, err, ErrNotImplemented)
		_, err = a.RightMultiplyPermutation(NewIdentityPermutation(2))
		assert.ErrorIs(t, err, ErrNotImplemented)
	})
}

func TestGF2mMatrixInverseLarge(t *testing.T) {
	src := seeded(t)
	for _, tc := range []struct {
		poly, degree, n int
	}{
		{0x11b, 8, 8},
		{0x11b, 8, 16},
		{0x805, 11, 24},
	} {
		field, err := gf2m.NewFieldWithPolynomial(tc.degree, tc.poly)
		require.NoError(t, err)

		a := randomRegularGF2m(t, field, tc.n, src)
		inv, err := a.ComputeInverse()
		require.NoError(t, err, "n=%d", tc.n)
		assert.Equal(t, tc.n, inv.Rows())
		assert.Equal(t, tc.n, inv.Cols())

		assertIdentity(t, mulGF2m(field, a, inv))
		assertIdentity(t, mulGF2m(field, inv, a))

		back, err := inv.ComputeInverse()
		require.NoError(t, err)
		assert.True(t, a.Equal(back), "n=%d", tc.n)
	}
}

func TestGF2mMatrixSingularLarge(t *testing.T) {
	field := aesField(t)
	src := seeded(t)
	a := randomRegularGF2m(t, field, 10, src)

	// duplicate a scaled row to drop the rank
	rows := make([][]int, 10)
	for i := range rows {
		rows[i] = make([]int, 10)
		for j := range rows[i] {
			rows[i][j] = a.At(i, j)
		}
	}
	for j := range rows[7] {
		rows[7][j] = field.Mult(rows[2][j], 0x53)
	}
	s, err := NewGF2mMatrix(field, rows)
	require.NoError(t, err)
	_, err = s.ComputeInverse()
	assert.ErrorIs(t, err, ErrSingular)
}
