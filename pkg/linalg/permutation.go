package linalg

import (
	"fmt"
	"strings"

	"github.com/Davincible/goppa/pkg/secure"
)

// Permutation is a bijection on {0, ..., n-1}, stored as its image
// vector.
type Permutation struct {
	perm []int
}

// NewIdentityPermutation returns the identity on n points.
func NewIdentityPermutation(n int) *Permutation {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &Permutation{perm: p}
}

// NewPermutation validates vec as a bijection and copies it.
func NewPermutation(vec []int) (*Permutation, error) {
	if !isPermutation(vec) {
		return nil, fmt.Errorf("%w: %v", ErrNotBijective, vec)
	}
	p := make([]int, len(vec))
	copy(p, vec)
	return &Permutation{perm: p}, nil
}

// NewRandomPermutation draws a uniform permutation by sampling without
// replacement from a shrinking pool.
func NewRandomPermutation(n int, src secure.Source) *Permutation {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	p := make([]int, n)
	k := n
	for j := 0; j < n; j++ {
		i := secure.Intn(src, k)
		k--
		p[j] = pool[i]
		pool[i] = pool[k]
	}
	return &Permutation{perm: p}
}

// DecodePermutation reads a 4-byte little-endian count n followed by n
// entries of ceilLog256(n-1) little-endian bytes.
func DecodePermutation(enc []byte) (*Permutation, error) {
	if len(enc) <= 4 {
		return nil, fmt.Errorf("%w: permutation encoding too short", ErrInvalidEncoding)
	}
	n := int(leUint32(enc))
	size := ceilLog256(n - 1)
	if n <= 0 || len(enc) != 4+n*size {
		return nil, fmt.Errorf("%w: permutation of %d entries needs %d bytes, got %d", ErrInvalidEncoding, n, 4+n*size, len(enc))
	}
	p := make([]int, n)
	for i := range p {
		off := 4 + i*size
		v := 0
		for j := 0; j < size; j++ {
			v |= int(enc[off+j]) << uint(8*j)
		}
		p[i] = v
	}
	if !isPermutation(p) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, ErrNotBijective)
	}
	return &Permutation{perm: p}, nil
}

// Len returns n.
func (p *Permutation) Len() int {
	return len(p.perm)
}

// Vector returns a copy of the image vector.
func (p *Permutation) Vector() []int {
	v := make([]int, len(p.perm))
	copy(v, p.perm)
	return v
}

// At returns p(i).
func (p *Permutation) At(i int) int {
	return p.perm[i]
}

func (p *Permutation) Encode() []byte {
	n := len(p.perm)
	size := ceilLog256(n - 1)
	out := make([]byte, 4+n*size)
	putLEUint32(out, uint32(n))
	for i, v := range p.perm {
		off := 4 + i*size
		for j := 0; j < size; j++ {
			out[off+j] = byte(v >> uint(8*j))
		}
	}
	return out
}

// ComputeInverse returns q with q[p[i]] = i.
func (p *Permutation) ComputeInverse() *Permutation {
	inv := make([]int, len(p.perm))
	for i, v := range p.perm {
		inv[v] = i
	}
	return &Permutation{perm: inv}
}

// RightMultiply returns the composition p∘q, (p∘q)[i] = p[q[i]].
func (p *Permutation) RightMultiply(q *Permutation) *Permutation {
	if len(p.perm) != len(q.perm) {
		panic(fmt.Sprintf("linalg: composing permutations of length %d and %d", len(p.perm), len(q.perm)))
	}
	r := make([]int, len(p.perm))
	for i, v := range q.perm {
		r[i] = p.perm[v]
	}
	return &Permutation{perm: r}
}

func (p *Permutation) IsIdentity() bool {
	for i, v := range p.perm {
		if v != i {
			return false
		}
	}
	return true
}

func (p *Permutation) Equal(q *Permutation) bool {
	if q == nil || len(p.perm) != len(q.perm) {
		return false
	}
	for i := range p.perm {
		if p.perm[i] != q.perm[i] {
			return false
		}
	}
	return true
}

// Wipe zeroes the permutation vector. The permutation is unusable
// afterwards.
func (p *Permutation) Wipe() {
	secure.ZeroInts(p.perm)
}

func (p *Permutation) String() string {
	parts := make([]string, len(p.perm))
	for i, v := range p.perm {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func isPermutation(vec []int) bool {
	seen := make([]bool, len(vec))
	for _, v := range vec {
		if v < 0 || v >= len(vec) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// ceilLog256 is the number of bytes needed for n, at least one.
func ceilLog256(n int) int {
	if n == 0 {
		return 1
	}
	if n < 0 {
		n = -n
	}
	d := 0
	for ; n > 0; n >>= 8 {
		d++
	}
	return d
}
