package gf2n

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/secure"
)

// evaluate computes g(u) by Horner's rule.
func evaluate(field Field, g *gf2x.Poly, u Element) Element {
	r := field.Zero()
	for i := g.Degree(); i >= 0; i-- {
		r.MultiplyThisBy(u)
		if g.TestBit(i) {
			r.AddToThis(field.One())
		}
	}
	return r
}

func TestRandomRoot(t *testing.T) {
	src := seeded(t)

	poly, err := NewPolynomialField(11, src)
	require.NoError(t, err)
	onb, err := NewONBField(11)
	require.NoError(t, err)
	other, err := NewPolynomialFieldWith(8, denseDegree8(t))
	require.NoError(t, err)
	pent, err := NewPolynomialField(8, src)
	require.NoError(t, err)

	cases := []struct {
		in Field
		g  *gf2x.Poly
	}{
		{poly, onb.FieldPolynomial()},
		{onb, poly.FieldPolynomial()},
		{onb, onb.FieldPolynomial()},
		{pent, other.FieldPolynomial()},
		{other, pent.FieldPolynomial()},
	}
	for _, tc := range cases {
		name := fmt.Sprintf("%s root of %s", tc.in, tc.g)
		u, err := tc.in.RandomRoot(tc.g, src)
		require.NoError(t, err, name)
		assert.True(t, evaluate(tc.in, tc.g, u).IsZero(), name)
	}

	_, err = poly.RandomRoot(pent.FieldPolynomial(), src)
	assert.ErrorIs(t, err, ErrNoRoot)
}

// checkConversion converts a few elements from -> to -> from and checks
// that the map is a ring homomorphism.
func checkConversion(t *testing.T, from, to Field, src secure.Source) {
	t.Helper()

	one, err := Convert(from.One(), to, src)
	require.NoError(t, err)
	assert.True(t, one.IsOne())

	zero, err := Convert(from.Zero(), to, src)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	for i := 0; i < 5; i++ {
		a, b := from.Random(src), from.Random(src)
		ca, err := Convert(a, to, src)
		require.NoError(t, err)
		cb, err := Convert(b, to, src)
		require.NoError(t, err)
		assert.Equal(t, to.ID(), ca.Field().ID())

		cab, err := Convert(a.Multiply(b), to, src)
		require.NoError(t, err)
		assert.True(t, cab.Equal(ca.Multiply(cb)), "%s -> %s", from, to)

		sum, err := Convert(a.Add(b), to, src)
		require.NoError(t, err)
		assert.True(t, sum.Equal(ca.Add(cb)), "%s -> %s", from, to)

		back, err := Convert(ca, from, src)
		require.NoError(t, err)
		assert.True(t, back.Equal(a), "%s -> %s -> back", from, to)
	}
}

func TestConvertPolynomialToONB(t *testing.T) {
	src := seeded(t)
	for _, n := range []int{2, 4, 10, 11} {
		poly, err := NewPolynomialField(n, src)
		require.NoError(t, err)
		onb, err := NewONBField(n)
		require.NoError(t, err)

		checkConversion(t, poly, onb, src)
		assert.Equal(t, 1, CachedConversions(poly), "n=%d", n)
		assert.Equal(t, 1, CachedConversions(onb), "n=%d", n)
	}
}

func TestConvertONBToPolynomial(t *testing.T) {
	src := seeded(t)
	onb, err := NewONBField(12)
	require.NoError(t, err)
	poly, err := NewPolynomialField(12, src)
	require.NoError(t, err)

	checkConversion(t, onb, poly, src)
	assert.Equal(t, 1, CachedConversions(onb))
	assert.Equal(t, 1, CachedConversions(poly))

	// the same element converted through the field method
	a := onb.Random(src)
	viaField, err := onb.Convert(a, poly, src)
	require.NoError(t, err)
	viaPackage, err := Convert(a, poly, src)
	require.NoError(t, err)
	assert.True(t, viaField.Equal(viaPackage))
}

func TestConvertBetweenPolynomials(t *testing.T) {
	src := seeded(t)
	pent, err := NewPolynomialField(8, src)
	require.NoError(t, err)
	dense, err := NewPolynomialFieldWith(8, denseDegree8(t))
	require.NoError(t, err)

	checkConversion(t, pent, dense, src)
	assert.Equal(t, 1, CachedConversions(pent))
	assert.Equal(t, 1, CachedConversions(dense))

	_, err = Convert(pent.One(), mustONB(t, 10), src)
	assert.ErrorIs(t, err, ErrDegreeMismatch)
	assert.Equal(t, 1, CachedConversions(pent))
}

func TestConvertSameField(t *testing.T) {
	src := seeded(t)
	f, err := NewPolynomialField(13, src)
	require.NoError(t, err)
	g, err := NewPolynomialField(13, src)
	require.NoError(t, err)

	a := f.Random(src)
	b, err := Convert(a, g, src)
	require.NoError(t, err)
	assert.Equal(t, g.ID(), b.Field().ID())
	assert.True(t, b.Equal(a))
	assert.Equal(t, 0, CachedConversions(f))
	assert.Equal(t, 0, CachedConversions(g))

	// the copy is independent
	b.AddToThis(g.One())
	assert.False(t, b.Equal(a))
}

func TestComputeCOBMatrix(t *testing.T) {
	src := seeded(t)
	poly, err := NewPolynomialField(5, src)
	require.NoError(t, err)
	onb, err := NewONBField(5)
	require.NoError(t, err)

	m, err := ComputeCOBMatrix(poly, onb, src)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Rows())
	assert.Equal(t, 5, m.Cols())

	// a later pair loses to the cached one
	again, err := ComputeCOBMatrix(poly, onb, src)
	require.NoError(t, err)
	assert.True(t, again.Equal(m))
	assert.Equal(t, 1, CachedConversions(poly))
	assert.Equal(t, 1, CachedConversions(onb))

	// column 0 is the image of 1
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, m.Bit(i, 0))
	}

	_, err = ComputeCOBMatrix(poly, mustONB(t, 6), src)
	assert.ErrorIs(t, err, ErrDegreeMismatch)
}

func mustONB(t *testing.T, n int) *ONBField {
	f, err := NewONBField(n)
	require.NoError(t, err)
	return f
}

func TestConvertConcurrent(t *testing.T) {
	src := seeded(t)
	poly, err := NewPolynomialField(11, src)
	require.NoError(t, err)
	onb, err := NewONBField(11)
	require.NoError(t, err)
	a := poly.Random(src)

	const workers = 8
	results := make([]Element, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := secure.NewSeededSource([]byte(fmt.Sprintf("%s/%d", t.Name(), i)))
			results[i], errs[i] = Convert(a, onb, s)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Equal(results[0]))
	}
	assert.Equal(t, 1, CachedConversions(poly))
	assert.Equal(t, 1, CachedConversions(onb))
}
