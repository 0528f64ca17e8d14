package gf2n

import (
	"encoding/hex"
	"math/big"
	"math/bits"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/secure"
)

// ONBElement is an element of an ONBField. Coordinate i, the coefficient
// of beta^(2^i), is bit i of pol. The external integer form reverses the
// order: coordinate 0 is its most significant bit.
type ONBElement struct {
	field *ONBField
	pol   []uint64
}

func (e *ONBElement) Field() Field {
	return e.field
}

func (e *ONBElement) Basis() Basis {
	return NormalBasis
}

func (e *ONBElement) Clone() Element {
	return e.clone()
}

func (e *ONBElement) clone() *ONBElement {
	pol := make([]uint64, len(e.pol))
	copy(pol, e.pol)
	return &ONBElement{field: e.field, pol: pol}
}

func (e *ONBElement) bit(i int) uint64 {
	return e.pol[i>>6] >> uint(i&63) & 1
}

func (e *ONBElement) setBit(i int) {
	e.pol[i>>6] |= 1 << uint(i&63)
}

func (e *ONBElement) clearUnused() {
	if r := e.field.degree & 63; r != 0 {
		e.pol[len(e.pol)-1] &= 1<<uint(r) - 1
	}
}

func (e *ONBElement) coords() *gf2x.Poly {
	w := make([]uint32, 2*len(e.pol))
	for i, v := range e.pol {
		w[2*i] = uint32(v)
		w[2*i+1] = uint32(v >> 32)
	}
	return gf2x.FromWords(e.field.degree, w)
}

func (e *ONBElement) IsZero() bool {
	for _, v := range e.pol {
		if v != 0 {
			return false
		}
	}
	return true
}

func (e *ONBElement) IsOne() bool {
	return e.Equal(e.field.One())
}

func (e *ONBElement) Equal(b Element) bool {
	o, ok := b.(*ONBElement)
	if !ok || !sameField(e.field, o.field) {
		return false
	}
	for i := range e.pol {
		if e.pol[i] != o.pol[i] {
			return false
		}
	}
	return true
}

func (e *ONBElement) TestBit(i int) bool {
	if i < 0 || i >= e.field.degree {
		return false
	}
	return e.bit(i) == 1
}

func (e *ONBElement) TestRightmostBit() bool {
	return e.bit(e.field.degree-1) == 1
}

func (e *ONBElement) other(op string, b Element) *ONBElement {
	o, ok := b.(*ONBElement)
	if !ok {
		panic("gf2n: " + op + " of normal and polynomial basis elements")
	}
	checkSameField(op, e.field, o.field)
	return o
}

func (e *ONBElement) Add(b Element) Element {
	r := e.clone()
	r.AddToThis(b)
	return r
}

func (e *ONBElement) AddToThis(b Element) {
	o := e.other("addition", b)
	for i := range e.pol {
		e.pol[i] ^= o.pol[i]
	}
}

func (e *ONBElement) Multiply(b Element) Element {
	r := e.clone()
	r.MultiplyThisBy(b)
	return r
}

// MultiplyThisBy runs n rounds; round k yields coordinate k as the inner
// product of a rotated by k with b gathered through the multiplication
// table, both rotated one more position per round.
func (e *ONBElement) MultiplyThisBy(b Element) {
	o := e.other("multiplication", b)
	n := e.field.degree
	a := e.clone()
	bb := o.clone()
	gathered := make([]uint64, len(e.pol))
	c := make([]uint64, len(e.pol))

	for k := 0; k < n; k++ {
		for i := range gathered {
			gathered[i] = 0
		}
		for i, t := range e.field.mult {
			v := bb.bit(t[0])
			if t[1] >= 0 {
				v ^= bb.bit(t[1])
			}
			gathered[i>>6] |= v << uint(i&63)
		}

		var acc uint64
		for i := range gathered {
			acc ^= a.pol[i] & gathered[i]
		}
		if bits.OnesCount64(acc)&1 == 1 {
			c[k>>6] |= 1 << uint(k&63)
		}

		a.rotateDown()
		bb.rotateDown()
	}
	e.pol = c
}

// rotateUp moves coordinate i to i+1 and n-1 to 0; this is squaring.
func (e *ONBElement) rotateUp() {
	n := e.field.degree
	top := e.bit(n - 1)
	var carry uint64
	for i := range e.pol {
		next := e.pol[i] >> 63
		e.pol[i] = e.pol[i]<<1 | carry
		carry = next
	}
	e.clearUnused()
	e.pol[0] |= top
}

// rotateDown moves coordinate i+1 to i and 0 to n-1; this is the square
// root.
func (e *ONBElement) rotateDown() {
	n := e.field.degree
	low := e.pol[0] & 1
	for i := range e.pol {
		e.pol[i] >>= 1
		if i+1 < len(e.pol) {
			e.pol[i] |= e.pol[i+1] << 63
		}
	}
	if low == 1 {
		e.setBit(n - 1)
	}
}

func (e *ONBElement) Square() Element {
	r := e.clone()
	r.SquareThis()
	return r
}

func (e *ONBElement) SquareThis() {
	e.rotateUp()
}

func (e *ONBElement) SquareRoot() Element {
	r := e.clone()
	r.SquareRootThis()
	return r
}

func (e *ONBElement) SquareRootThis() {
	e.rotateDown()
}

func (e *ONBElement) Invert() (Element, error) {
	r := e.clone()
	if err := r.InvertThis(); err != nil {
		return nil, err
	}
	return r, nil
}

// InvertThis computes a^(2^n - 2) with the addition chain driven by the
// bits of n-1, keeping b = a^(2^r - 1). Squarings are rotations.
func (e *ONBElement) InvertThis() error {
	if e.IsZero() {
		return ErrZeroInverse
	}
	n1 := e.field.degree - 1
	a := e.clone()
	b := e.clone()
	r := 1
	for i := bitLen(n1) - 2; i >= 0; i-- {
		t := b.clone()
		for k := 0; k < r; k++ {
			t.rotateUp()
		}
		b.MultiplyThisBy(t)
		r <<= 1
		if n1>>uint(i)&1 == 1 {
			b.rotateUp()
			b.MultiplyThisBy(a)
			r++
		}
	}
	b.rotateUp()
	e.pol = b.pol
	return nil
}

// Trace is the parity of the coordinates, since Tr(beta_i) = 1.
func (e *ONBElement) Trace() int {
	var acc uint64
	for _, v := range e.pol {
		acc ^= v
	}
	return bits.OnesCount64(acc) & 1
}

// SolveQuadraticEquation returns z with z^2 + z = e. In a normal basis
// this is the linear recurrence z_i = z_(i-1) + e_i with z_0 = 0, which
// closes iff Tr(e) = 0. src is not used.
func (e *ONBElement) SolveQuadraticEquation(src secure.Source) (Element, error) {
	if e.Trace() != 0 {
		return nil, ErrNoSolution
	}
	z := e.field.newElement(make([]uint64, len(e.pol)))
	var prev uint64
	for i := 1; i < e.field.degree; i++ {
		prev ^= e.bit(i)
		if prev == 1 {
			z.setBit(i)
		}
	}
	return z, nil
}

// ReverseOrder reverses the coordinates in place, switching between the
// internal and the external bit order.
func (e *ONBElement) ReverseOrder() {
	n := e.field.degree
	r := make([]uint64, len(e.pol))
	for i := 0; i < n; i++ {
		if e.bit(i) == 1 {
			j := n - 1 - i
			r[j>>6] |= 1 << uint(j&63)
		}
	}
	e.pol = r
}

// Bytes returns the external big-endian form in ceil(n/8) bytes.
func (e *ONBElement) Bytes() []byte {
	rev := e.clone()
	rev.ReverseOrder()
	return rev.coords().Bytes()
}

func (e *ONBElement) BigInt() *big.Int {
	return new(big.Int).SetBytes(e.Bytes())
}

func (e *ONBElement) String() string {
	return hex.EncodeToString(e.Bytes())
}
