package gf2n

import (
	"fmt"
	"log/slog"
	"math/big"
	"math/bits"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/secure"
)

// PolynomialField is GF(2^n) = GF(2)[x] / f(x) in polynomial basis.
type PolynomialField struct {
	baseField

	isTrinomial   bool
	isPentanomial bool
	tc            int
	pc            [3]int

	// squaring[i] bit j is coefficient i of x^(2j) mod f.
	squaring []*gf2x.Poly
}

// NewPolynomialField returns GF(2^degree), degree >= 2. The defining
// polynomial is the first irreducible trinomial, else the first
// irreducible pentanomial, else a random irreducible polynomial from src.
func NewPolynomialField(degree int, src secure.Source) (*PolynomialField, error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: polynomial basis needs degree >= 2, got %d", ErrInvalidDegree, degree)
	}
	f := &PolynomialField{}
	switch {
	case f.findTrinomial(degree):
		slog.Debug("gf2n: field polynomial", "degree", degree, "kind", "trinomial", "tc", f.tc)
	case f.findPentanomial(degree):
		slog.Debug("gf2n: field polynomial", "degree", degree, "kind", "pentanomial", "pc", f.pc)
	default:
		attempts := f.findRandom(degree, src)
		slog.Debug("gf2n: field polynomial", "degree", degree, "kind", "random", "attempts", attempts)
	}
	f.computeSquaringMatrix()
	return f, nil
}

// NewPolynomialFieldWith returns GF(2^degree) defined by poly, which must
// be irreducible of exactly that degree.
func NewPolynomialFieldWith(degree int, poly *gf2x.Poly) (*PolynomialField, error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: polynomial basis needs degree >= 2, got %d", ErrInvalidDegree, degree)
	}
	if poly.Degree() != degree {
		return nil, fmt.Errorf("%w: polynomial has degree %d, want %d", ErrInvalidDegree, poly.Degree(), degree)
	}
	if !poly.IsIrreducible() {
		return nil, ErrNotIrreducible
	}

	p := gf2x.FromWords(degree+1, poly.Words())
	var middle []int
	for i := 1; i < degree; i++ {
		if p.TestBit(i) {
			middle = append(middle, i)
		}
	}

	f := &PolynomialField{}
	f.init(degree, p)
	switch len(middle) {
	case 1:
		f.isTrinomial = true
		f.tc = middle[0]
	case 3:
		f.isPentanomial = true
		copy(f.pc[:], middle)
	}
	f.computeSquaringMatrix()
	return f, nil
}

func (f *PolynomialField) findTrinomial(n int) bool {
	for tc := 1; tc < n; tc++ {
		p := gf2x.New(n + 1)
		p.SetBit(0)
		p.SetBit(tc)
		p.SetBit(n)
		if p.IsIrreducible() {
			f.init(n, p)
			f.isTrinomial = true
			f.tc = tc
			return true
		}
	}
	return false
}

func (f *PolynomialField) findPentanomial(n int) bool {
	for a := 1; a <= n-3; a++ {
		for b := a + 1; b <= n-2; b++ {
			for c := b + 1; c <= n-1; c++ {
				p := gf2x.New(n + 1)
				p.SetBit(0)
				p.SetBit(a)
				p.SetBit(b)
				p.SetBit(c)
				p.SetBit(n)
				if p.IsIrreducible() {
					f.init(n, p)
					f.isPentanomial = true
					f.pc = [3]int{a, b, c}
					return true
				}
			}
		}
	}
	return false
}

func (f *PolynomialField) findRandom(n int, src secure.Source) int {
	for attempts := 1; ; attempts++ {
		p := gf2x.Random(n+1, src)
		p.SetBit(0)
		p.SetBit(n)
		if p.IsIrreducible() {
			f.init(n, p)
			return attempts
		}
	}
}

func (f *PolynomialField) computeSquaringMatrix() {
	n := f.degree
	f.squaring = make([]*gf2x.Poly, n)
	for i := range f.squaring {
		f.squaring[i] = gf2x.New(n)
	}
	col := gf2x.One(n)
	x2 := gf2x.New(n + 1)
	x2.SetBit(2)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if col.TestBit(i) {
				f.squaring[i].SetBit(j)
			}
		}
		next := col.Multiply(x2)
		col = f.reduce(next)
	}
}

// reduce returns p mod f with length n. p may be modified.
func (f *PolynomialField) reduce(p *gf2x.Poly) *gf2x.Poly {
	switch {
	case f.isTrinomial:
		p.ReduceTrinomial(f.degree, f.tc)
		return p
	case f.isPentanomial:
		p.ReducePentanomial(f.degree, f.pc)
		return p
	}
	r, err := p.Remainder(f.poly)
	if err != nil {
		// the field polynomial is never zero
		panic(err)
	}
	r.ExpandN(f.degree)
	return r
}

func (f *PolynomialField) Basis() Basis {
	return PolynomialBasis
}

func (f *PolynomialField) IsTrinomial() bool {
	return f.isTrinomial
}

func (f *PolynomialField) IsPentanomial() bool {
	return f.isPentanomial
}

// Tc returns the middle exponent of a trinomial field polynomial.
func (f *PolynomialField) Tc() int {
	return f.tc
}

// Pc returns the middle exponents of a pentanomial field polynomial.
func (f *PolynomialField) Pc() [3]int {
	return f.pc
}

// SquaringMatrix returns copies of the rows of the squaring matrix.
func (f *PolynomialField) SquaringMatrix() []*gf2x.Poly {
	out := make([]*gf2x.Poly, len(f.squaring))
	for i, r := range f.squaring {
		out[i] = r.Clone()
	}
	return out
}

func (f *PolynomialField) Zero() Element {
	return f.newElement(gf2x.New(f.degree))
}

func (f *PolynomialField) One() Element {
	return f.newElement(gf2x.One(f.degree))
}

// X returns the class of x, a root of the field polynomial.
func (f *PolynomialField) X() Element {
	return f.newElement(gf2x.X(f.degree))
}

func (f *PolynomialField) Random(src secure.Source) Element {
	return f.newElement(gf2x.Random(f.degree, src))
}

func (f *PolynomialField) FromBytes(bs []byte) (Element, error) {
	return f.FromBigInt(new(big.Int).SetBytes(bs))
}

func (f *PolynomialField) FromBigInt(v *big.Int) (Element, error) {
	if v.Sign() < 0 || v.BitLen() > f.degree {
		return nil, fmt.Errorf("%w: %s has more than %d bits", ErrInvalidElement, v.Text(16), f.degree)
	}
	return f.newElement(gf2x.FromBigInt(f.degree, v)), nil
}

// NewElement wraps a GF(2) polynomial of degree < n.
func (f *PolynomialField) NewElement(p *gf2x.Poly) (*PolynomialElement, error) {
	if p.Degree() >= f.degree {
		return nil, fmt.Errorf("%w: degree %d >= %d", ErrInvalidElement, p.Degree(), f.degree)
	}
	return f.newElement(gf2x.FromWords(f.degree, p.Words())), nil
}

func (f *PolynomialField) newElement(p *gf2x.Poly) *PolynomialElement {
	return &PolynomialElement{field: f, poly: p}
}

func (f *PolynomialField) fromCoords(c *gf2x.Poly) Element {
	return f.newElement(gf2x.FromWords(f.degree, c.Words()))
}

func (f *PolynomialField) Convert(e Element, to Field, src secure.Source) (Element, error) {
	checkSameField("conversion", f, e.Field())
	return Convert(e, to, src)
}

func (f *PolynomialField) RandomRoot(g *gf2x.Poly, src secure.Source) (Element, error) {
	return randomRoot(f, g, src)
}

func (f *PolynomialField) String() string {
	return fmt.Sprintf("GF(2^%d) polynomial basis mod %s", f.degree, f.poly)
}

// parity is the GF(2) inner product of two word slices of equal length.
func parity(a, b []uint32) int {
	var acc uint32
	for i := range a {
		acc ^= a[i] & b[i]
	}
	return bits.OnesCount32(acc) & 1
}
