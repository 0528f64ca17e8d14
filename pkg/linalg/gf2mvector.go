package linalg

import (
	"fmt"
	"strings"

	"github.com/Davincible/goppa/pkg/gf2m"
)

// GF2mVector is a vector over a small field GF(2^m).
type GF2mVector struct {
	field *gf2m.Field
	v     []int
}

// NewGF2mVector validates and copies elems.
func NewGF2mVector(field *gf2m.Field, elems []int) (*GF2mVector, error) {
	for i, e := range elems {
		if !field.IsElementOfThisField(e) {
			return nil, fmt.Errorf("%w: entry %d = %d is not in GF(2^%d)", ErrInvalidEncoding, i, e, field.Degree())
		}
	}
	v := make([]int, len(elems))
	copy(v, elems)
	return &GF2mVector{field: field, v: v}, nil
}

// DecodeGF2mVector reads consecutive elements of ceil(m/8) little-endian
// bytes each.
func DecodeGF2mVector(field *gf2m.Field, enc []byte) (*GF2mVector, error) {
	size := field.ElementBytes()
	if len(enc)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte element size", ErrInvalidEncoding, len(enc), size)
	}
	v := make([]int, len(enc)/size)
	for i := range v {
		e, err := field.DecodeElement(enc[i*size : (i+1)*size])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidEncoding, i, err)
		}
		v[i] = e
	}
	return &GF2mVector{field: field, v: v}, nil
}

func (v *GF2mVector) Field() *gf2m.Field {
	return v.field
}

func (v *GF2mVector) Len() int {
	return len(v.v)
}

// Elements returns a copy of the entries.
func (v *GF2mVector) Elements() []int {
	out := make([]int, len(v.v))
	copy(out, v.v)
	return out
}

func (v *GF2mVector) Encode() []byte {
	size := v.field.ElementBytes()
	out := make([]byte, 0, len(v.v)*size)
	for _, e := range v.v {
		out = append(out, v.field.EncodeElement(e)...)
	}
	return out
}

func (v *GF2mVector) IsZero() bool {
	for _, e := range v.v {
		if e != 0 {
			return false
		}
	}
	return true
}

// MultiplyPermutation returns the vector with entry i equal to entry p(i).
func (v *GF2mVector) MultiplyPermutation(p *Permutation) *GF2mVector {
	if p.Len() != len(v.v) {
		panic(fmt.Sprintf("linalg: permutation of length %d applied to vector of length %d", p.Len(), len(v.v)))
	}
	r := make([]int, len(v.v))
	for i, j := range p.perm {
		r[i] = v.v[j]
	}
	return &GF2mVector{field: v.field, v: r}
}

// ToGF2Vector expands each element into m bits, undoing
// GF2Vector.ToExtensionFieldVector.
func (v *GF2mVector) ToGF2Vector() *GF2Vector {
	m := v.field.Degree()
	r := NewGF2Vector(len(v.v) * m)
	pos := 0
	for i := len(v.v) - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if v.v[i]>>uint(j)&1 == 1 {
				r.v[pos>>5] |= 1 << uint(pos&31)
			}
			pos++
		}
	}
	return r
}

func (v *GF2mVector) Equal(b *GF2mVector) bool {
	if b == nil || !v.field.Equal(b.field) || len(v.v) != len(b.v) {
		return false
	}
	for i := range v.v {
		if v.v[i] != b.v[i] {
			return false
		}
	}
	return true
}

func (v *GF2mVector) String() string {
	parts := make([]string, len(v.v))
	for i, e := range v.v {
		parts[i] = v.field.ElementToString(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
