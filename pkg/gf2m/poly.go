package gf2m

import (
	"fmt"
	"strings"

	"github.com/Davincible/goppa/pkg/secure"
)

// Poly is a polynomial over GF(2^m). Coefficients are kept in normal
// form: the slice is trimmed so the last entry is non-zero, and the zero
// polynomial is the single coefficient 0 with degree -1.
type Poly struct {
	field  *Field
	degree int
	coeffs []int
}

// NewPoly returns the polynomial with coefficients c[0] + c[1]x + ...
func NewPoly(field *Field, coeffs []int) *Poly {
	for _, c := range coeffs {
		field.checkElement(c)
	}
	p := &Poly{field: field, coeffs: normalForm(coeffs)}
	p.computeDegree()
	return p
}

// NewZeroPoly returns the zero polynomial over field.
func NewZeroPoly(field *Field) *Poly {
	return &Poly{field: field, degree: -1, coeffs: []int{0}}
}

// NewConstant returns the constant polynomial c.
func NewConstant(field *Field, c int) *Poly {
	return NewPoly(field, []int{c})
}

// NewMonomial returns x^degree.
func NewMonomial(field *Field, degree int) *Poly {
	c := make([]int, degree+1)
	c[degree] = 1
	return &Poly{field: field, degree: degree, coeffs: c}
}

// NewRandomMonic returns a monic polynomial of the given degree with
// uniformly random lower coefficients and a non-zero constant term.
func NewRandomMonic(field *Field, degree int, src secure.Source) *Poly {
	c := make([]int, degree+1)
	c[degree] = 1
	if degree > 0 {
		c[0] = field.RandomNonZeroElement(src)
	}
	for i := 1; i < degree; i++ {
		c[i] = field.RandomElement(src)
	}
	return &Poly{field: field, degree: degree, coeffs: c}
}

// NewRandomIrreducible returns a random monic irreducible polynomial of
// the given degree. Single coefficients of a random monic start are
// redrawn until the irreducibility test passes.
func NewRandomIrreducible(field *Field, degree int, src secure.Source) *Poly {
	if degree < 1 {
		panic(fmt.Sprintf("gf2m: no irreducible polynomial of degree %d", degree))
	}
	p := NewRandomMonic(field, degree, src)
	for !isIrreducible(field, p.coeffs) {
		n := secure.Intn(src, degree)
		if n == 0 {
			p.coeffs[0] = field.RandomNonZeroElement(src)
		} else {
			p.coeffs[n] = field.RandomElement(src)
		}
	}
	return p
}

// DecodePoly reads coefficients of ceil(m/8) little-endian bytes each,
// lowest degree first. The encoding must be in normal form.
func DecodePoly(field *Field, enc []byte) (*Poly, error) {
	w := field.ElementBytes()
	if len(enc) == 0 || len(enc)%w != 0 {
		return nil, fmt.Errorf("%w: polynomial encoding length %d is not a multiple of %d", ErrInvalidEncoding, len(enc), w)
	}
	coeffs := make([]int, len(enc)/w)
	for i := range coeffs {
		c := field.decodeElement(enc[i*w : (i+1)*w])
		if !field.IsElementOfThisField(c) {
			return nil, fmt.Errorf("%w: coefficient %d is not an element of GF(2^%d)", ErrInvalidEncoding, c, field.degree)
		}
		coeffs[i] = c
	}
	if len(coeffs) > 1 && coeffs[len(coeffs)-1] == 0 {
		return nil, fmt.Errorf("%w: polynomial not in normal form", ErrInvalidEncoding)
	}
	p := &Poly{field: field, coeffs: coeffs}
	p.computeDegree()
	return p, nil
}

// Clone returns a deep copy of p.
func (p *Poly) Clone() *Poly {
	c := make([]int, len(p.coeffs))
	copy(c, p.coeffs)
	return &Poly{field: p.field, degree: p.degree, coeffs: c}
}

func (p *Poly) Field() *Field {
	return p.field
}

// Degree returns the degree, -1 for the zero polynomial.
func (p *Poly) Degree() int {
	return p.degree
}

func (p *Poly) HeadCoefficient() int {
	if p.degree == -1 {
		return 0
	}
	return p.coeffs[p.degree]
}

// Coefficient returns the coefficient of x^i, 0 beyond the degree.
func (p *Poly) Coefficient(i int) int {
	if i < 0 || i > p.degree {
		return 0
	}
	return p.coeffs[i]
}

// Coefficients returns a copy of the normal-form coefficient slice.
func (p *Poly) Coefficients() []int {
	c := make([]int, len(p.coeffs))
	copy(c, p.coeffs)
	return c
}

// Encode writes every coefficient as ceil(m/8) little-endian bytes.
func (p *Poly) Encode() []byte {
	w := p.field.ElementBytes()
	out := make([]byte, w*len(p.coeffs))
	for i, c := range p.coeffs {
		p.field.encodeElement(out[i*w:(i+1)*w], c)
	}
	return out
}

// Evaluate returns p(e) by Horner's rule.
func (p *Poly) Evaluate(e int) int {
	p.field.checkElement(e)
	result := p.coeffs[len(p.coeffs)-1]
	for i := len(p.coeffs) - 2; i >= 0; i-- {
		result = p.field.Mult(result, e) ^ p.coeffs[i]
	}
	return result
}

func (p *Poly) Add(b *Poly) *Poly {
	p.checkField(b)
	return p.wrap(add(p.coeffs, b.coeffs))
}

func (p *Poly) AddToThis(b *Poly) {
	p.checkField(b)
	p.coeffs = add(p.coeffs, b.coeffs)
	p.computeDegree()
}

// AddMonomial returns p + x^k.
func (p *Poly) AddMonomial(k int) *Poly {
	m := make([]int, k+1)
	m[k] = 1
	return p.wrap(add(p.coeffs, m))
}

// MultWithElement returns e*p.
func (p *Poly) MultWithElement(e int) *Poly {
	p.field.checkElement(e)
	return p.wrap(multWithElement(p.field, p.coeffs, e))
}

func (p *Poly) MultThisWithElement(e int) {
	p.field.checkElement(e)
	p.coeffs = multWithElement(p.field, p.coeffs, e)
	p.computeDegree()
}

// MultWithMonomial returns p*x^k.
func (p *Poly) MultWithMonomial(k int) *Poly {
	return p.wrap(multWithMonomial(p.coeffs, k))
}

func (p *Poly) Multiply(b *Poly) *Poly {
	p.checkField(b)
	return p.wrap(multiply(p.field, p.coeffs, b.coeffs))
}

// Divide returns quotient and remainder of p divided by f.
func (p *Poly) Divide(f *Poly) (q, r *Poly, err error) {
	p.checkField(f)
	if f.degree == -1 {
		return nil, nil, ErrDivisionByZero
	}
	qc, rc := div(p.field, p.coeffs, f.coeffs)
	return p.wrap(qc), p.wrap(rc), nil
}

// Mod returns p mod f.
func (p *Poly) Mod(f *Poly) (*Poly, error) {
	p.checkField(f)
	if f.degree == -1 {
		return nil, ErrDivisionByZero
	}
	return p.wrap(mod(p.field, p.coeffs, f.coeffs)), nil
}

// GCD returns the monic greatest common divisor of p and f. The gcd of
// two zero polynomials is zero.
func (p *Poly) GCD(f *Poly) *Poly {
	p.checkField(f)
	return p.wrap(gcd(p.field, p.coeffs, f.coeffs))
}

// IsIrreducible reports whether p is irreducible over GF(2^m). For each
// i up to deg(p)/2 it raises u = x to the power 2^m modulo p and checks
// gcd(u - x, p) = 1.
func (p *Poly) IsIrreducible() bool {
	return isIrreducible(p.field, p.coeffs)
}

// ModMultiply returns p*b mod g.
func (p *Poly) ModMultiply(b, g *Poly) (*Poly, error) {
	p.checkField(b)
	p.checkField(g)
	if g.degree == -1 {
		return nil, ErrDivisionByZero
	}
	return p.wrap(modMultiply(p.field, p.coeffs, b.coeffs, g.coeffs)), nil
}

// ModInverse returns p^-1 mod g.
func (p *Poly) ModInverse(g *Poly) (*Poly, error) {
	p.checkField(g)
	if g.degree == -1 {
		return nil, ErrDivisionByZero
	}
	s, err := modDiv(p.field, []int{1}, p.coeffs, g.coeffs)
	if err != nil {
		return nil, err
	}
	return p.wrap(s), nil
}

// ModDivide returns p / divisor mod g.
func (p *Poly) ModDivide(divisor, g *Poly) (*Poly, error) {
	p.checkField(divisor)
	p.checkField(g)
	if g.degree == -1 {
		return nil, ErrDivisionByZero
	}
	s, err := modDiv(p.field, p.coeffs, divisor.coeffs, g.coeffs)
	if err != nil {
		return nil, err
	}
	return p.wrap(s), nil
}

// ModSquareMatrix returns p^2 mod g, where matrix[j] = x^(2j) mod g and
// len(matrix) = deg(g). p must already be reduced modulo g.
func (p *Poly) ModSquareMatrix(matrix []*Poly) *Poly {
	n := len(matrix)
	if p.degree >= n {
		panic(fmt.Sprintf("gf2m: degree %d polynomial needs reduction before squaring with a %d-column matrix", p.degree, n))
	}
	squared := make([]int, n)
	for i, c := range p.coeffs {
		squared[i] = p.field.Mult(c, c)
	}
	result := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			col := matrix[j].coeffs
			if i >= len(col) {
				continue
			}
			result[i] ^= p.field.Mult(col[i], squared[j])
		}
	}
	return p.wrap(normalForm(result))
}

// ModSquareRootMatrix returns the square root of p mod g, where matrix is
// the inverse of the squaring matrix.
func (p *Poly) ModSquareRootMatrix(matrix []*Poly) *Poly {
	n := len(matrix)
	if p.degree >= n {
		panic(fmt.Sprintf("gf2m: degree %d polynomial needs reduction before rooting with a %d-column matrix", p.degree, n))
	}
	result := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n && j < len(p.coeffs); j++ {
			col := matrix[j].coeffs
			if i >= len(col) {
				continue
			}
			result[i] ^= p.field.Mult(col[i], p.coeffs[j])
		}
	}
	for i := range result {
		result[i] = p.field.SqRoot(result[i])
	}
	return p.wrap(normalForm(result))
}

// ModSquareRoot returns the square root of p mod g by squaring until the
// sequence returns to p.
func (p *Poly) ModSquareRoot(g *Poly) (*Poly, error) {
	p.checkField(g)
	if g.degree == -1 {
		return nil, ErrDivisionByZero
	}
	start := mod(p.field, p.coeffs, g.coeffs)
	root := start
	next := modMultiply(p.field, root, root, g.coeffs)
	for !equalCoeffs(next, start) {
		root = next
		next = modMultiply(p.field, root, root, g.coeffs)
	}
	return p.wrap(root), nil
}

// ModPolynomialToFraction runs the extended Euclidean algorithm on (g, p)
// until the remainder has degree at most deg(g)/2, returning a and b with
// a = b*p mod g.
func (p *Poly) ModPolynomialToFraction(g *Poly) (a, b *Poly, err error) {
	p.checkField(g)
	if g.degree == -1 {
		return nil, nil, ErrDivisionByZero
	}
	f := p.field
	dg := g.degree >> 1
	a0 := normalForm(g.coeffs)
	a1 := mod(f, p.coeffs, g.coeffs)
	b0 := []int{0}
	b1 := []int{1}
	for computeDegree(a1) > dg {
		q, r := div(f, a0, a1)
		a0, a1 = a1, r
		b0, b1 = b1, add(b0, modMultiply(f, q, b1, g.coeffs))
	}
	return p.wrap(a1), p.wrap(b1), nil
}

// Equal reports whether p and b are the same polynomial over the same
// field.
func (p *Poly) Equal(b *Poly) bool {
	if b == nil || !p.field.Equal(b.field) {
		return false
	}
	return equalCoeffs(p.coeffs, b.coeffs)
}

func (p *Poly) IsZero() bool {
	return p.degree == -1
}

// Wipe zeroes the coefficients of a secret polynomial and leaves p equal
// to the zero polynomial.
func (p *Poly) Wipe() {
	secure.ZeroInts(p.coeffs)
	p.coeffs = p.coeffs[:1]
	p.degree = -1
}

func (p *Poly) String() string {
	if p.degree == -1 {
		return "0"
	}
	var terms []string
	for i := p.degree; i >= 0; i-- {
		c := p.coeffs[i]
		if c == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, fmt.Sprintf("%#x", c))
		case 1:
			terms = append(terms, fmt.Sprintf("%#x*x", c))
		default:
			terms = append(terms, fmt.Sprintf("%#x*x^%d", c, i))
		}
	}
	return strings.Join(terms, " + ")
}

func (p *Poly) wrap(coeffs []int) *Poly {
	r := &Poly{field: p.field, coeffs: coeffs}
	r.computeDegree()
	return r
}

func (p *Poly) computeDegree() {
	p.degree = computeDegree(p.coeffs)
}

func (p *Poly) checkField(b *Poly) {
	if !p.field.Equal(b.field) {
		panic(fmt.Sprintf("gf2m: polynomials over different fields %v and %v", p.field, b.field))
	}
}

func computeDegree(a []int) int {
	d := len(a) - 1
	for d >= 0 && a[d] == 0 {
		d--
	}
	return d
}

func headCoefficient(a []int) int {
	d := computeDegree(a)
	if d == -1 {
		return 0
	}
	return a[d]
}

// normalForm returns a copy of a trimmed to degree+1 entries, or {0}.
func normalForm(a []int) []int {
	d := computeDegree(a)
	if d == -1 {
		return []int{0}
	}
	out := make([]int, d+1)
	copy(out, a[:d+1])
	return out
}

func equalCoeffs(a, b []int) bool {
	da, db := computeDegree(a), computeDegree(b)
	if da != db {
		return false
	}
	for i := 0; i <= da; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func add(a, b []int) []int {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]int, len(a))
	copy(out, a)
	for i, c := range b {
		out[i] ^= c
	}
	return normalForm(out)
}

func multWithElement(f *Field, a []int, e int) []int {
	d := computeDegree(a)
	if d == -1 || e == 0 {
		return []int{0}
	}
	if e == 1 {
		return normalForm(a)
	}
	out := make([]int, d+1)
	for i := 0; i <= d; i++ {
		out[i] = f.Mult(a[i], e)
	}
	return out
}

func multWithMonomial(a []int, k int) []int {
	d := computeDegree(a)
	if d == -1 {
		return []int{0}
	}
	out := make([]int, d+k+1)
	copy(out[k:], a[:d+1])
	return out
}

// multiply splits the longer operand to the length of the shorter one,
// and splits equal-length operands in half with one Karatsuba step.
func multiply(f *Field, a, b []int) []int {
	x, y := a, b
	if computeDegree(x) < computeDegree(y) {
		x, y = y, x
	}
	x = normalForm(x)
	y = normalForm(y)
	if len(y) == 1 {
		return multWithElement(f, x, y[0])
	}

	d1, d2 := len(x), len(y)
	if d1 != d2 {
		lo := multiply(f, x[:d2], y)
		hi := multiply(f, x[d2:], y)
		return add(lo, multWithMonomial(hi, d2))
	}

	h := (d1 + 1) >> 1
	x0, x1 := x[:h], x[h:]
	y0, y1 := y[:h], y[h:]

	lo := multiply(f, x0, y0)
	mid := multiply(f, add(x0, x1), add(y0, y1))
	hi := multiply(f, x1, y1)

	// mid + lo + hi is the cross term
	mid = add(add(mid, lo), hi)
	r := add(mid, multWithMonomial(hi, h))
	r = multWithMonomial(r, h)
	return add(r, lo)
}

// div returns quotient and remainder of a / b, b non-zero.
func div(f *Field, a, b []int) (q, r []int) {
	db := computeDegree(b)
	hcInv := f.inverse(headCoefficient(b))
	q = []int{0}
	r = normalForm(a)
	for dr := computeDegree(r); dr >= db; dr = computeDegree(r) {
		c := f.Mult(headCoefficient(r), hcInv)
		n := dr - db
		t := multWithMonomial(multWithElement(f, b, c), n)
		q = add(q, multWithMonomial([]int{c}, n))
		r = add(r, t)
	}
	return q, r
}

func mod(f *Field, a, g []int) []int {
	dg := computeDegree(g)
	if dg == -1 {
		panic("gf2m: division by zero polynomial")
	}
	hcInv := f.inverse(headCoefficient(g))
	r := normalForm(a)
	for dr := computeDegree(r); dr >= dg; dr = computeDegree(r) {
		c := f.Mult(headCoefficient(r), hcInv)
		r = add(r, multWithMonomial(multWithElement(f, g, c), dr-dg))
	}
	return r
}

func gcd(f *Field, a, b []int) []int {
	if computeDegree(a) == -1 {
		if computeDegree(b) == -1 {
			return []int{0}
		}
		return multWithElement(f, b, f.inverse(headCoefficient(b)))
	}
	x, y := normalForm(a), normalForm(b)
	for computeDegree(y) != -1 {
		x, y = y, mod(f, x, y)
	}
	return multWithElement(f, x, f.inverse(headCoefficient(x)))
}

func modMultiply(f *Field, a, b, g []int) []int {
	return mod(f, multiply(f, a, b), g)
}

// modDiv returns a/b mod g. Throughout the loop s_i*b = r_i*a mod g.
func modDiv(f *Field, a, b, g []int) ([]int, error) {
	r0 := normalForm(g)
	r1 := mod(f, b, g)
	s0 := []int{0}
	s1 := mod(f, a, g)
	for computeDegree(r1) != -1 {
		q, r := div(f, r0, r1)
		r0, r1 = r1, r
		s0, s1 = s1, add(s0, modMultiply(f, q, s1, g))
	}
	if computeDegree(r0) != 0 {
		return nil, ErrNotInvertible
	}
	return multWithElement(f, s0, f.inverse(headCoefficient(r0))), nil
}

func isIrreducible(f *Field, a []int) bool {
	d := computeDegree(a)
	if d < 1 {
		return false
	}
	if d == 1 {
		return true
	}
	if a[0] == 0 {
		return false
	}

	x := []int{0, 1}
	u := x
	for i := 0; i < d>>1; i++ {
		for j := 0; j < f.degree; j++ {
			u = modMultiply(f, u, u, a)
		}
		if computeDegree(gcd(f, add(u, x), a)) != 0 {
			return false
		}
	}
	return true
}
