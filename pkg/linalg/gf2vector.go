package linalg

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/Davincible/goppa/pkg/gf2m"
	"github.com/Davincible/goppa/pkg/secure"
)

// GF2Vector is a bit vector of fixed length packed into 32-bit words, bit
// i in word i/32 at position i%32.
type GF2Vector struct {
	length int
	v      []uint32
}

func wordsFor(length int) int {
	return (length + 31) >> 5
}

// NewGF2Vector returns the zero vector.
func NewGF2Vector(length int) *GF2Vector {
	if length < 0 {
		panic(fmt.Sprintf("linalg: negative vector length %d", length))
	}
	return &GF2Vector{length: length, v: make([]uint32, wordsFor(length))}
}

// NewRandomGF2Vector returns a uniformly random vector.
func NewRandomGF2Vector(length int, src secure.Source) *GF2Vector {
	r := NewGF2Vector(length)
	for i := range r.v {
		r.v[i] = src.Uint32()
	}
	r.clearUnused()
	return r
}

// NewRandomGF2VectorWithWeight returns a random vector with exactly t ones,
// choosing positions without replacement.
func NewRandomGF2VectorWithWeight(length, t int, src secure.Source) *GF2Vector {
	if t < 0 || t > length {
		panic(fmt.Sprintf("linalg: weight %d out of range for length %d", t, length))
	}
	r := NewGF2Vector(length)
	pool := make([]int, length)
	for i := range pool {
		pool[i] = i
	}
	m := length
	for i := 0; i < t; i++ {
		j := secure.Intn(src, m)
		r.SetBit(pool[j])
		m--
		pool[j] = pool[m]
	}
	return r
}

// GF2VectorFromWords copies packed words; bits at or past length are
// cleared.
func GF2VectorFromWords(length int, words []uint32) *GF2Vector {
	r := NewGF2Vector(length)
	copy(r.v, words)
	r.clearUnused()
	return r
}

// DecodeGF2Vector reads a vector of the given length from little-endian
// bytes, at most ceil(length/8) of them.
func DecodeGF2Vector(length int, enc []byte) (*GF2Vector, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: negative vector length %d", ErrInvalidEncoding, length)
	}
	if len(enc) > (length+7)>>3 {
		return nil, fmt.Errorf("%w: %d bytes for a vector of length %d", ErrInvalidEncoding, len(enc), length)
	}
	r := NewGF2Vector(length)
	for i, b := range enc {
		r.v[i>>2] |= uint32(b) << (8 * uint(i&3))
	}
	if r.hasUnusedBits() {
		return nil, fmt.Errorf("%w: bits set past length %d", ErrInvalidEncoding, length)
	}
	return r, nil
}

func (v *GF2Vector) hasUnusedBits() bool {
	if r := v.length & 31; r != 0 {
		return v.v[len(v.v)-1]>>uint(r) != 0
	}
	return false
}

func (v *GF2Vector) clearUnused() {
	if r := v.length & 31; r != 0 {
		v.v[len(v.v)-1] &= 1<<uint(r) - 1
	}
}

func (v *GF2Vector) Len() int {
	return v.length
}

// Words returns a copy of the packed words.
func (v *GF2Vector) Words() []uint32 {
	w := make([]uint32, len(v.v))
	copy(w, v.v)
	return w
}

func (v *GF2Vector) Clone() *GF2Vector {
	return GF2VectorFromWords(v.length, v.v)
}

func (v *GF2Vector) checkIndex(i int) {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("linalg: index %d out of range for vector of length %d", i, v.length))
	}
}

// Bit returns bit i as 0 or 1.
func (v *GF2Vector) Bit(i int) int {
	v.checkIndex(i)
	return int(v.v[i>>5] >> uint(i&31) & 1)
}

func (v *GF2Vector) SetBit(i int) {
	v.checkIndex(i)
	v.v[i>>5] |= 1 << uint(i&31)
}

func (v *GF2Vector) HammingWeight() int {
	w := 0
	for _, x := range v.v {
		w += bits.OnesCount32(x)
	}
	return w
}

func (v *GF2Vector) IsZero() bool {
	for _, x := range v.v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Add returns v + b.
func (v *GF2Vector) Add(b *GF2Vector) *GF2Vector {
	if v.length != b.length {
		panic(fmt.Sprintf("linalg: adding vectors of length %d and %d", v.length, b.length))
	}
	r := v.Clone()
	for i := range r.v {
		r.v[i] ^= b.v[i]
	}
	return r
}

// MultiplyPermutation returns the vector with bit i equal to bit p(i) of v.
func (v *GF2Vector) MultiplyPermutation(p *Permutation) *GF2Vector {
	if p.Len() != v.length {
		panic(fmt.Sprintf("linalg: permutation of length %d applied to vector of length %d", p.Len(), v.length))
	}
	r := NewGF2Vector(v.length)
	for i, j := range p.perm {
		if v.v[j>>5]>>uint(j&31)&1 == 1 {
			r.v[i>>5] |= 1 << uint(i&31)
		}
	}
	return r
}

// ExtractVector returns the bits of v at the given positions, in order.
func (v *GF2Vector) ExtractVector(positions []int) *GF2Vector {
	r := NewGF2Vector(len(positions))
	for i, j := range positions {
		if v.Bit(j) == 1 {
			r.v[i>>5] |= 1 << uint(i&31)
		}
	}
	return r
}

// ExtractLeftVector returns the first k bits.
func (v *GF2Vector) ExtractLeftVector(k int) *GF2Vector {
	if k < 0 || k > v.length {
		panic(fmt.Sprintf("linalg: cannot extract %d bits from a vector of length %d", k, v.length))
	}
	return GF2VectorFromWords(k, v.v)
}

// ExtractRightVector returns the last k bits.
func (v *GF2Vector) ExtractRightVector(k int) *GF2Vector {
	if k < 0 || k > v.length {
		panic(fmt.Sprintf("linalg: cannot extract %d bits from a vector of length %d", k, v.length))
	}
	r := NewGF2Vector(k)
	off := v.length - k
	for i := 0; i < k; i++ {
		j := off + i
		if v.v[j>>5]>>uint(j&31)&1 == 1 {
			r.v[i>>5] |= 1 << uint(i&31)
		}
	}
	return r
}

// ToExtensionFieldVector packs consecutive runs of m bits into elements
// of field, m its degree. The first run fills the last element, the
// first bit of a run being its most significant bit.
func (v *GF2Vector) ToExtensionFieldVector(field *gf2m.Field) (*GF2mVector, error) {
	m := field.Degree()
	if v.length%m != 0 {
		return nil, fmt.Errorf("%w: vector length %d is not a multiple of field degree %d", ErrLengthMismatch, v.length, m)
	}
	t := v.length / m
	elems := make([]int, t)
	pos := 0
	for i := t - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if v.v[pos>>5]>>uint(pos&31)&1 == 1 {
				elems[i] ^= 1 << uint(j)
			}
			pos++
		}
	}
	return &GF2mVector{field: field, v: elems}, nil
}

// Encode writes ceil(length/8) little-endian bytes.
func (v *GF2Vector) Encode() []byte {
	out := make([]byte, (v.length+7)>>3)
	for i := range out {
		out[i] = byte(v.v[i>>2] >> (8 * uint(i&3)))
	}
	return out
}

func (v *GF2Vector) Equal(b *GF2Vector) bool {
	if b == nil || v.length != b.length {
		return false
	}
	for i := range v.v {
		if v.v[i] != b.v[i] {
			return false
		}
	}
	return true
}

// Wipe zeroes the vector in place.
func (v *GF2Vector) Wipe() {
	secure.ZeroWords(v.v)
}

func (v *GF2Vector) String() string {
	var sb strings.Builder
	for i := 0; i < v.length; i++ {
		if i > 0 && i&7 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte('0' + v.Bit(i)))
	}
	return sb.String()
}
