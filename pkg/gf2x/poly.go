// Package gf2x implements arbitrary-length polynomials over GF(2) packed
// into 32-bit words.
//
// A Poly carries a logical bit length that may exceed its true degree.
// Bits at positions >= Len() are always zero. Operations ending in "This"
// mutate the receiver; the others leave their operands untouched and
// return a fresh polynomial.
package gf2x

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/Davincible/goppa/pkg/secure"
)

var (
	// ErrDivisionByZero is returned when dividing by the zero polynomial.
	ErrDivisionByZero = errors.New("gf2x: division by zero polynomial")
	// ErrZeroGCD is returned for gcd(0, 0), which is undefined.
	ErrZeroGCD = errors.New("gf2x: gcd of two zero polynomials is undefined")
)

// Poly is a polynomial over GF(2). Bit i of the packed words is the
// coefficient of x^i.
type Poly struct {
	len   int
	value []uint32
}

func wordsFor(length int) int {
	return ((length - 1) >> 5) + 1
}

// New returns the zero polynomial with the given bit length.
func New(length int) *Poly {
	if length < 1 {
		length = 1
	}
	return &Poly{len: length, value: make([]uint32, wordsFor(length))}
}

// One returns the constant polynomial 1.
func One(length int) *Poly {
	p := New(length)
	p.value[0] = 1
	return p
}

// X returns the monomial x. The length is raised to 2 if necessary.
func X(length int) *Poly {
	if length < 2 {
		length = 2
	}
	p := New(length)
	p.value[0] = 2
	return p
}

// AllOnes returns the polynomial with every coefficient below length set.
func AllOnes(length int) *Poly {
	p := New(length)
	for i := range p.value {
		p.value[i] = 0xffffffff
	}
	p.zeroUnusedBits()
	return p
}

// Random returns a polynomial with uniformly random coefficients below length.
func Random(length int, src secure.Source) *Poly {
	p := New(length)
	for i := range p.value {
		p.value[i] = src.Uint32()
	}
	p.zeroUnusedBits()
	return p
}

// FromWords builds a polynomial from little-endian packed words. Words
// beyond the length are ignored and stray high bits are cleared.
func FromWords(length int, words []uint32) *Poly {
	p := New(length)
	copy(p.value, words)
	p.zeroUnusedBits()
	return p
}

// FromBytes interprets bs as a big-endian bit string: the last byte holds
// the coefficients of x^0..x^7.
func FromBytes(length int, bs []byte) *Poly {
	p := New(length)
	for i := 0; i < len(bs); i++ {
		bitPos := (len(bs) - 1 - i) << 3
		if bitPos >= p.len {
			continue
		}
		p.value[bitPos>>5] |= uint32(bs[i]) << (bitPos & 31)
	}
	p.zeroUnusedBits()
	return p
}

// FromBigInt reads the binary expansion of |v|. The length grows to hold
// every bit of v.
func FromBigInt(length int, v *big.Int) *Poly {
	abs := new(big.Int).Abs(v)
	if bl := abs.BitLen(); bl > length {
		length = bl
	}
	return FromBytes(length, abs.Bytes())
}

func (p *Poly) zeroUnusedBits() {
	if r := p.len & 31; r != 0 {
		p.value[len(p.value)-1] &= (1 << uint(r)) - 1
	}
}

func (p *Poly) checkIndex(i int) {
	if i < 0 || i >= p.len {
		panic(fmt.Sprintf("gf2x: bit index %d out of range [0,%d)", i, p.len))
	}
}

// Len returns the logical bit length.
func (p *Poly) Len() int {
	return p.len
}

// Clone returns a deep copy of p.
func (p *Poly) Clone() *Poly {
	v := make([]uint32, len(p.value))
	copy(v, p.value)
	return &Poly{len: p.len, value: v}
}

// Words returns a copy of the packed words.
func (p *Poly) Words() []uint32 {
	v := make([]uint32, len(p.value))
	copy(v, p.value)
	return v
}

// Equal reports whether p and b represent the same polynomial. The
// logical lengths may differ.
func (p *Poly) Equal(b *Poly) bool {
	if b == nil {
		return false
	}
	short, long := p.value, b.value
	if len(short) > len(long) {
		short, long = long, short
	}
	for i := range short {
		if short[i] != long[i] {
			return false
		}
	}
	for _, w := range long[len(short):] {
		if w != 0 {
			return false
		}
	}
	return true
}

func (p *Poly) IsZero() bool {
	for _, w := range p.value {
		if w != 0 {
			return false
		}
	}
	return true
}

func (p *Poly) IsOne() bool {
	if p.value[0] != 1 {
		return false
	}
	for _, w := range p.value[1:] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Degree returns the true degree of p, or -1 for the zero polynomial.
func (p *Poly) Degree() int {
	for i := len(p.value) - 1; i >= 0; i-- {
		if w := p.value[i]; w != 0 {
			return i<<5 + bits.Len32(w) - 1
		}
	}
	return -1
}

// Bit returns coefficient i. Indices outside [0, Len()) read as 0, so a
// polynomial behaves as an infinite bit string padded with zeros.
func (p *Poly) Bit(i int) int {
	if i < 0 || i >= p.len {
		return 0
	}
	return int(p.value[i>>5]>>uint(i&31)) & 1
}

// TestBit reports whether coefficient i is set. Out-of-range indices read
// as false.
func (p *Poly) TestBit(i int) bool {
	return p.Bit(i) == 1
}

// SetBit sets coefficient i. It panics if i is outside [0, Len()).
func (p *Poly) SetBit(i int) {
	p.checkIndex(i)
	p.value[i>>5] |= 1 << uint(i&31)
}

// ResetBit clears coefficient i. It panics if i is outside [0, Len()).
func (p *Poly) ResetBit(i int) {
	p.checkIndex(i)
	p.value[i>>5] &^= 1 << uint(i&31)
}

// XorBit flips coefficient i. It panics if i is outside [0, Len()).
func (p *Poly) XorBit(i int) {
	p.checkIndex(i)
	p.value[i>>5] ^= 1 << uint(i&31)
}

// ReduceN shrinks the length to degree+1 (at least 1).
func (p *Poly) ReduceN() {
	d := p.Degree()
	if d < 0 {
		d = 0
	}
	p.len = d + 1
	p.value = p.value[:wordsFor(p.len)]
}

// ExpandN grows the length to l. Shorter targets are ignored.
func (p *Poly) ExpandN(l int) {
	if l <= p.len {
		return
	}
	p.len = l
	for n := wordsFor(l); len(p.value) < n; {
		p.value = append(p.value, 0)
	}
}

func (p *Poly) truncate(l int) {
	if l < 1 {
		l = 1
	}
	p.len = l
	p.value = p.value[:wordsFor(l)]
	p.zeroUnusedBits()
}

// AddToThis sets p = p + b. The length grows to the longer operand.
func (p *Poly) AddToThis(b *Poly) {
	p.ExpandN(b.len)
	for i, w := range b.value {
		p.value[i] ^= w
	}
}

// Add returns p + b.
func (p *Poly) Add(b *Poly) *Poly {
	r := p.Clone()
	r.AddToThis(b)
	return r
}

// SubtractFromThis is AddToThis; subtraction in characteristic 2 is addition.
func (p *Poly) SubtractFromThis(b *Poly) {
	p.AddToThis(b)
}

func (p *Poly) Subtract(b *Poly) *Poly {
	return p.Add(b)
}

// xorShifted adds src * x^k into dst. Carries past the end of dst are
// dropped; callers size dst so that those bits are zero.
func xorShifted(dst, src []uint32, k int) {
	w, s := k>>5, uint(k&31)
	if s == 0 {
		for i, v := range src {
			if i+w < len(dst) {
				dst[i+w] ^= v
			}
		}
		return
	}
	for i, v := range src {
		if i+w < len(dst) {
			dst[i+w] ^= v << s
		}
		if i+w+1 < len(dst) {
			dst[i+w+1] ^= v >> (32 - s)
		}
	}
}

// ShiftLeftAddThis sets p = p + b*x^k.
func (p *Poly) ShiftLeftAddThis(b *Poly, k int) {
	p.ExpandN(b.len + k)
	xorShifted(p.value, b.value, k)
}

// ShiftLeft returns p*x with length Len()+1.
func (p *Poly) ShiftLeft() *Poly {
	return p.ShiftLeftBy(1)
}

// ShiftLeftBy returns p*x^k with length Len()+k.
func (p *Poly) ShiftLeftBy(k int) *Poly {
	r := New(p.len + k)
	xorShifted(r.value, p.value, k)
	return r
}

// ShiftLeftThis sets p = p*x, growing the length by one.
func (p *Poly) ShiftLeftThis() {
	p.ExpandN(p.len + 1)
	for i := len(p.value) - 1; i > 0; i-- {
		p.value[i] = p.value[i]<<1 | p.value[i-1]>>31
	}
	p.value[0] <<= 1
}

// ShiftRightThis drops the constant coefficient and shortens the length by one.
func (p *Poly) ShiftRightThis() {
	for i := 0; i < len(p.value)-1; i++ {
		p.value[i] = p.value[i]>>1 | p.value[i+1]<<31
	}
	p.value[len(p.value)-1] >>= 1
	p.truncate(p.len - 1)
}

// ShiftRight returns p/x (truncating division) with length Len()-1.
func (p *Poly) ShiftRight() *Poly {
	r := p.Clone()
	r.ShiftRightThis()
	return r
}

// VectorMult returns the GF(2) inner product of the coefficient vectors.
// It panics if the lengths differ.
func (p *Poly) VectorMult(b *Poly) bool {
	if p.len != b.len {
		panic(fmt.Sprintf("gf2x: inner product of lengths %d and %d", p.len, b.len))
	}
	var acc uint32
	for i, w := range p.value {
		acc ^= w & b.value[i]
	}
	return bits.OnesCount32(acc)&1 == 1
}

// Bytes returns the big-endian encoding of p in ceil(Len()/8) bytes.
func (p *Poly) Bytes() []byte {
	n := ((p.len - 1) >> 3) + 1
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		bitPos := i << 3
		out[n-1-i] = byte(p.value[bitPos>>5] >> uint(bitPos&31))
	}
	return out
}

// BigInt returns the integer whose binary expansion is p.
func (p *Poly) BigInt() *big.Int {
	return new(big.Int).SetBytes(p.Bytes())
}

// String returns the big-endian hex encoding.
func (p *Poly) String() string {
	return hex.EncodeToString(p.Bytes())
}
