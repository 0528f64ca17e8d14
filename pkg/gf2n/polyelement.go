package gf2n

import (
	"math/big"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/secure"
)

// PolynomialElement is an element of a PolynomialField, a GF(2)
// polynomial of degree < n held at length n.
type PolynomialElement struct {
	field *PolynomialField
	poly  *gf2x.Poly
}

func (e *PolynomialElement) Field() Field {
	return e.field
}

func (e *PolynomialElement) Basis() Basis {
	return PolynomialBasis
}

func (e *PolynomialElement) Clone() Element {
	return e.clone()
}

func (e *PolynomialElement) clone() *PolynomialElement {
	return &PolynomialElement{field: e.field, poly: e.poly.Clone()}
}

// Polynomial returns a copy of the underlying GF(2) polynomial.
func (e *PolynomialElement) Polynomial() *gf2x.Poly {
	return e.poly.Clone()
}

func (e *PolynomialElement) coords() *gf2x.Poly {
	return e.poly.Clone()
}

func (e *PolynomialElement) IsZero() bool {
	return e.poly.IsZero()
}

func (e *PolynomialElement) IsOne() bool {
	return e.poly.IsOne()
}

func (e *PolynomialElement) Equal(b Element) bool {
	o, ok := b.(*PolynomialElement)
	if !ok || !sameField(e.field, o.field) {
		return false
	}
	return e.poly.Equal(o.poly)
}

func (e *PolynomialElement) TestBit(i int) bool {
	return e.poly.TestBit(i)
}

func (e *PolynomialElement) TestRightmostBit() bool {
	return e.poly.TestBit(0)
}

func (e *PolynomialElement) other(op string, b Element) *PolynomialElement {
	o, ok := b.(*PolynomialElement)
	if !ok {
		panic("gf2n: " + op + " of polynomial and normal basis elements")
	}
	checkSameField(op, e.field, o.field)
	return o
}

func (e *PolynomialElement) Add(b Element) Element {
	r := e.clone()
	r.AddToThis(b)
	return r
}

func (e *PolynomialElement) AddToThis(b Element) {
	e.poly.AddToThis(e.other("addition", b).poly)
}

func (e *PolynomialElement) Multiply(b Element) Element {
	r := e.clone()
	r.MultiplyThisBy(b)
	return r
}

// MultiplyThisBy multiplies with Karatsuba and reduces by the trinomial,
// pentanomial or generic field polynomial.
func (e *PolynomialElement) MultiplyThisBy(b Element) {
	o := e.other("multiplication", b)
	e.poly = e.field.reduce(e.poly.Multiply(o.poly))
}

func (e *PolynomialElement) Square() Element {
	r := e.clone()
	r.SquareThis()
	return r
}

// SquareThis squares with the 8-to-16 bit table.
func (e *PolynomialElement) SquareThis() {
	e.SquareThisPreCalc()
}

func (e *PolynomialElement) SquarePreCalc() *PolynomialElement {
	r := e.clone()
	r.SquareThisPreCalc()
	return r
}

func (e *PolynomialElement) SquareThisPreCalc() {
	e.poly.SquareThisPreCalc()
	e.poly = e.field.reduce(e.poly)
}

func (e *PolynomialElement) SquareBitwise() *PolynomialElement {
	r := e.clone()
	r.SquareThisBitwise()
	return r
}

func (e *PolynomialElement) SquareThisBitwise() {
	e.poly.SquareThisBitwise()
	e.poly = e.field.reduce(e.poly)
}

func (e *PolynomialElement) SquareMatrix() *PolynomialElement {
	r := e.clone()
	r.SquareThisMatrix()
	return r
}

// SquareThisMatrix squares by multiplying the coefficient vector with the
// field's precomputed squaring matrix.
func (e *PolynomialElement) SquareThisMatrix() {
	n := e.field.degree
	a := e.poly.Words()
	r := gf2x.New(n)
	for i, row := range e.field.squaring {
		if parity(row.Words(), a) == 1 {
			r.SetBit(i)
		}
	}
	e.poly = r
}

func (e *PolynomialElement) Invert() (Element, error) {
	r := e.clone()
	if err := r.InvertThis(); err != nil {
		return nil, err
	}
	return r, nil
}

// InvertThis inverts with the modified almost inverse algorithm.
func (e *PolynomialElement) InvertThis() error {
	inv, err := e.InvertMAIA()
	if err != nil {
		return err
	}
	e.poly = inv.poly
	return nil
}

// InvertMAIA returns the inverse computed by the modified almost inverse
// algorithm, a binary variant of the extended gcd.
func (e *PolynomialElement) InvertMAIA() (*PolynomialElement, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	n := e.field.degree
	f := e.field.poly
	b := gf2x.One(n)
	c := gf2x.New(n)
	u := e.poly.Clone()
	v := f.Clone()

	for {
		for !u.TestBit(0) {
			u.ShiftRightThis()
			if b.TestBit(0) {
				b.AddToThis(f)
			}
			b.ShiftRightThis()
		}
		if u.IsOne() {
			if b.Degree() >= n {
				b = e.field.reduce(b)
			}
			return e.field.newElement(gf2x.FromWords(n, b.Words())), nil
		}
		if u.Degree() < v.Degree() {
			u, v = v, u
			b, c = c, b
		}
		u.AddToThis(v)
		b.AddToThis(c)
	}
}

// InvertEEA returns the inverse computed by the extended Euclidean
// algorithm.
func (e *PolynomialElement) InvertEEA() (*PolynomialElement, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	n := e.field.degree
	b := gf2x.One(1)
	c := gf2x.New(1)
	u := e.poly.Clone()
	u.ReduceN()
	v := e.field.poly.Clone()

	for u.Degree() > 0 {
		j := u.Degree() - v.Degree()
		if j < 0 {
			u, v = v, u
			b, c = c, b
			j = -j
		}
		u.ShiftLeftAddThis(v, j)
		b.ShiftLeftAddThis(c, j)
	}
	b.ReduceN()
	if b.Degree() >= n {
		b = e.field.reduce(b)
	}
	return e.field.newElement(gf2x.FromWords(n, b.Words())), nil
}

// InvertSquare returns a^(2^n - 2) computed with an Itoh-Tsujii addition
// chain on n-1: with b = a^(2^r - 1), doubling r costs r squarings and a
// multiplication, incrementing r a squaring and a multiplication.
func (e *PolynomialElement) InvertSquare() (*PolynomialElement, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	return e.itohTsujii(), nil
}

func (e *PolynomialElement) itohTsujii() *PolynomialElement {
	n1 := e.field.degree - 1
	b := e.clone()
	r := 1
	for i := bitLen(n1) - 2; i >= 0; i-- {
		t := b.clone()
		for k := 0; k < r; k++ {
			t.SquareThis()
		}
		b.MultiplyThisBy(t)
		r <<= 1
		if n1>>uint(i)&1 == 1 {
			b.SquareThis()
			b.MultiplyThisBy(e)
			r++
		}
	}
	b.SquareThis()
	return b
}

// Power returns e^k for k >= 0.
func (e *PolynomialElement) Power(k int) *PolynomialElement {
	result := e.field.newElement(gf2x.One(e.field.degree))
	base := e.clone()
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			result.MultiplyThisBy(base)
		}
		base.SquareThis()
	}
	return result
}

func (e *PolynomialElement) SquareRoot() Element {
	r := e.clone()
	r.SquareRootThis()
	return r
}

// SquareRootThis squares n-1 times; the inverse of the Frobenius map.
func (e *PolynomialElement) SquareRootThis() {
	for i := 1; i < e.field.degree; i++ {
		e.SquareThis()
	}
}

func (e *PolynomialElement) Trace() int {
	t := e.clone()
	for i := 1; i < e.field.degree; i++ {
		t.SquareThis()
		t.AddToThis(e)
	}
	if t.IsOne() {
		return 1
	}
	return 0
}

// HalfTrace returns sum of e^(4^i) for i <= (n-1)/2. Only defined for odd
// n.
func (e *PolynomialElement) HalfTrace() (*PolynomialElement, error) {
	n := e.field.degree
	if n&1 == 0 {
		return nil, ErrEvenDegree
	}
	h := e.clone()
	for i := 1; i <= (n-1)>>1; i++ {
		h.SquareThis()
		h.SquareThis()
		h.AddToThis(e)
	}
	return h, nil
}

// SolveQuadraticEquation returns z with z^2 + z = e. A solution exists
// iff Tr(e) = 0; the other solution is z + 1. For odd n the half-trace
// is returned; for even n the randomized method of IEEE 1363 A.4.7 is
// used.
func (e *PolynomialElement) SolveQuadraticEquation(src secure.Source) (Element, error) {
	if e.IsZero() {
		return e.field.Zero(), nil
	}
	if e.Trace() != 0 {
		return nil, ErrNoSolution
	}
	n := e.field.degree
	if n&1 == 1 {
		h, err := e.HalfTrace()
		if err != nil {
			return nil, err
		}
		return h, nil
	}

	for {
		tau := e.field.newElement(gf2x.Random(n, src))
		z := e.field.newElement(gf2x.New(n))
		w := tau.clone()
		for i := 1; i < n; i++ {
			z.SquareThis()
			w.SquareThis()
			z.AddToThis(w.Multiply(e))
			w.AddToThis(tau)
		}
		if !w.IsZero() {
			return z, nil
		}
	}
}

// Bytes returns the big-endian encoding of the polynomial in ceil(n/8)
// bytes.
func (e *PolynomialElement) Bytes() []byte {
	return e.poly.Bytes()
}

func (e *PolynomialElement) BigInt() *big.Int {
	return e.poly.BigInt()
}

func (e *PolynomialElement) String() string {
	return e.poly.String()
}

func bitLen(n int) int {
	l := 0
	for ; n > 0; n >>= 1 {
		l++
	}
	return l
}
