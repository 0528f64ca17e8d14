package linalg

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/Davincible/goppa/pkg/secure"
)

// GF2Matrix is a dense matrix over GF(2). Each row is packed into 32-bit
// words, column j in word j/32 at bit j%32.
type GF2Matrix struct {
	rows, cols int
	words      int
	m          [][]uint32
}

// NewZeroGF2Matrix returns the rows x cols zero matrix.
func NewZeroGF2Matrix(rows, cols int) *GF2Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("linalg: invalid matrix size %dx%d", rows, cols))
	}
	w := wordsFor(cols)
	m := make([][]uint32, rows)
	for i := range m {
		m[i] = make([]uint32, w)
	}
	return &GF2Matrix{rows: rows, cols: cols, words: w, m: m}
}

// NewUnitGF2Matrix returns the n x n identity.
func NewUnitGF2Matrix(n int) *GF2Matrix {
	a := NewZeroGF2Matrix(n, n)
	for i := 0; i < n; i++ {
		a.m[i][i>>5] = 1 << uint(i&31)
	}
	return a
}

// NewRandomGF2Matrix returns a random n x n triangular matrix with a unit
// diagonal; such a matrix is always invertible.
func NewRandomGF2Matrix(n int, typ MatrixType, src secure.Source) *GF2Matrix {
	a := NewZeroGF2Matrix(n, n)
	for i := 0; i < n; i++ {
		q, r := i>>5, uint(i&31)
		row := a.m[i]
		switch typ {
		case MatrixLower:
			for j := 0; j < q; j++ {
				row[j] = src.Uint32()
			}
			row[q] = src.Uint32()>>(31-r) | 1<<r
		case MatrixUpper:
			row[q] = src.Uint32()<<r | 1<<r
			for j := q + 1; j < a.words; j++ {
				row[j] = src.Uint32()
			}
			a.clearUnused(row)
		default:
			panic(fmt.Sprintf("linalg: unknown matrix type %d", typ))
		}
	}
	return a
}

// NewRandomRegularGF2MatrixAndInverse returns a random invertible n x n
// matrix A and its inverse. A is a row permutation of L*U for random unit
// lower and upper triangular L and U, so A^-1 = U^-1 * L^-1 * P^-1 needs
// no elimination.
func NewRandomRegularGF2MatrixAndInverse(n int, src secure.Source) (a, inv *GF2Matrix) {
	lower := NewRandomGF2Matrix(n, MatrixLower, src)
	upper := NewRandomGF2Matrix(n, MatrixUpper, src)
	p := NewRandomPermutation(n, src)
	a = lower.RightMultiply(upper).LeftMultiplyPermutation(p)

	invLower := NewUnitGF2Matrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if lower.Bit(j, i) == 1 {
				xorRow(invLower.m[j], invLower.m[i])
			}
		}
	}
	invUpper := NewUnitGF2Matrix(n)
	for i := n - 1; i >= 0; i-- {
		for j := i - 1; j >= 0; j-- {
			if upper.Bit(j, i) == 1 {
				xorRow(invUpper.m[j], invUpper.m[i])
			}
		}
	}

	inv = invUpper.RightMultiply(invLower.RightMultiplyPermutation(p.ComputeInverse()))
	return a, inv
}

// NewGF2MatrixFromRows builds a matrix from packed rows, copying them.
func NewGF2MatrixFromRows(cols int, rows [][]uint32) *GF2Matrix {
	a := NewZeroGF2Matrix(len(rows), cols)
	for i, r := range rows {
		copy(a.m[i], r)
		a.clearUnused(a.m[i])
	}
	return a
}

// DecodeGF2Matrix reads the row count and column count as 4-byte
// little-endian integers, then each row as ceil(cols/8) little-endian
// bytes.
func DecodeGF2Matrix(enc []byte) (*GF2Matrix, error) {
	if len(enc) < 9 {
		return nil, fmt.Errorf("%w: GF(2) matrix encoding needs at least 9 bytes, got %d", ErrInvalidEncoding, len(enc))
	}
	rows := int(leUint32(enc))
	cols := int(leUint32(enc[4:]))
	rowBytes := (cols + 7) >> 3
	if rows <= 0 || cols <= 0 || rowBytes*rows != len(enc)-8 {
		return nil, fmt.Errorf("%w: %d bytes for a %dx%d GF(2) matrix", ErrInvalidEncoding, len(enc), rows, cols)
	}

	a := NewZeroGF2Matrix(rows, cols)
	off := 8
	for i := 0; i < rows; i++ {
		row := a.m[i]
		for k := 0; k < rowBytes; k++ {
			row[k>>2] |= uint32(enc[off+k]) << (8 * uint(k&3))
		}
		off += rowBytes
		if r := cols & 31; r != 0 && row[a.words-1]>>uint(r) != 0 {
			return nil, fmt.Errorf("%w: row %d has bits past column %d", ErrInvalidEncoding, i, cols)
		}
	}
	return a, nil
}

func (a *GF2Matrix) Encode() []byte {
	rowBytes := (a.cols + 7) >> 3
	out := make([]byte, 8+rowBytes*a.rows)
	putLEUint32(out, uint32(a.rows))
	putLEUint32(out[4:], uint32(a.cols))
	off := 8
	for _, row := range a.m {
		for k := 0; k < rowBytes; k++ {
			out[off+k] = byte(row[k>>2] >> (8 * uint(k&3)))
		}
		off += rowBytes
	}
	return out
}

func (a *GF2Matrix) clearUnused(row []uint32) {
	if r := a.cols & 31; r != 0 && len(row) > 0 {
		row[len(row)-1] &= 1<<uint(r) - 1
	}
}

func (a *GF2Matrix) Rows() int {
	return a.rows
}

func (a *GF2Matrix) Cols() int {
	return a.cols
}

// Row returns a copy of row i.
func (a *GF2Matrix) Row(i int) *GF2Vector {
	return GF2VectorFromWords(a.cols, a.m[i])
}

func (a *GF2Matrix) checkIndex(i, j int) {
	if i < 0 || i >= a.rows || j < 0 || j >= a.cols {
		panic(fmt.Sprintf("linalg: index (%d,%d) out of range for %dx%d matrix", i, j, a.rows, a.cols))
	}
}

func (a *GF2Matrix) Bit(i, j int) int {
	a.checkIndex(i, j)
	return int(a.m[i][j>>5] >> uint(j&31) & 1)
}

func (a *GF2Matrix) SetBit(i, j int) {
	a.checkIndex(i, j)
	a.m[i][j>>5] |= 1 << uint(j&31)
}

func (a *GF2Matrix) Clone() *GF2Matrix {
	return NewGF2MatrixFromRows(a.cols, a.m)
}

// ComputeInverse inverts a square matrix by Gauss-Jordan elimination with
// row swaps.
func (a *GF2Matrix) ComputeInverse() (*GF2Matrix, error) {
	if a.rows != a.cols {
		return nil, fmt.Errorf("%w: %dx%d matrix is not square", ErrSingular, a.rows, a.cols)
	}
	n := a.rows
	tmp := a.Clone()
	inv := NewUnitGF2Matrix(n)

	for i := 0; i < n; i++ {
		q, mask := i>>5, uint32(1)<<uint(i&31)
		if tmp.m[i][q]&mask == 0 {
			pivot := -1
			for j := i + 1; j < n; j++ {
				if tmp.m[j][q]&mask != 0 {
					pivot = j
					break
				}
			}
			if pivot < 0 {
				return nil, ErrSingular
			}
			tmp.m[i], tmp.m[pivot] = tmp.m[pivot], tmp.m[i]
			inv.m[i], inv.m[pivot] = inv.m[pivot], inv.m[i]
		}
		for j := 0; j < n; j++ {
			if j != i && tmp.m[j][q]&mask != 0 {
				xorRow(tmp.m[j], tmp.m[i])
				xorRow(inv.m[j], inv.m[i])
			}
		}
	}
	return inv, nil
}

// Transpose returns the cols x rows transpose.
func (a *GF2Matrix) Transpose() *GF2Matrix {
	t := NewZeroGF2Matrix(a.cols, a.rows)
	for i, row := range a.m {
		for j := 0; j < a.cols; j++ {
			if row[j>>5]>>uint(j&31)&1 == 1 {
				t.m[j][i>>5] |= 1 << uint(i&31)
			}
		}
	}
	return t
}

// RightMultiply returns a*b.
func (a *GF2Matrix) RightMultiply(b *GF2Matrix) *GF2Matrix {
	if a.cols != b.rows {
		panic(fmt.Sprintf("linalg: multiplying %dx%d by %dx%d matrix", a.rows, a.cols, b.rows, b.cols))
	}
	r := NewZeroGF2Matrix(a.rows, b.cols)
	for i, row := range a.m {
		for k := 0; k < a.cols; k++ {
			if row[k>>5]>>uint(k&31)&1 == 1 {
				xorRow(r.m[i], b.m[k])
			}
		}
	}
	return r
}

// LeftMultiplyVector returns the row vector v*a.
func (a *GF2Matrix) LeftMultiplyVector(v *GF2Vector) *GF2Vector {
	if v.length != a.rows {
		panic(fmt.Sprintf("linalg: vector of length %d times %dx%d matrix", v.length, a.rows, a.cols))
	}
	r := NewGF2Vector(a.cols)
	for i, row := range a.m {
		if v.v[i>>5]>>uint(i&31)&1 == 1 {
			xorRow(r.v, row)
		}
	}
	return r
}

// RightMultiplyVector returns the column vector a*v.
func (a *GF2Matrix) RightMultiplyVector(v *GF2Vector) *GF2Vector {
	if v.length != a.cols {
		panic(fmt.Sprintf("linalg: %dx%d matrix times vector of length %d", a.rows, a.cols, v.length))
	}
	r := NewGF2Vector(a.rows)
	for i, row := range a.m {
		var acc uint32
		for k, w := range row {
			acc ^= w & v.v[k]
		}
		if bits.OnesCount32(acc)&1 == 1 {
			r.v[i>>5] |= 1 << uint(i&31)
		}
	}
	return r
}

// LeftMultiplyPermutation returns P*a, whose row i is row p(i) of a.
func (a *GF2Matrix) LeftMultiplyPermutation(p *Permutation) *GF2Matrix {
	if p.Len() != a.rows {
		panic(fmt.Sprintf("linalg: permutation of length %d times %dx%d matrix", p.Len(), a.rows, a.cols))
	}
	r := NewZeroGF2Matrix(a.rows, a.cols)
	for i, j := range p.perm {
		copy(r.m[i], a.m[j])
	}
	return r
}

// RightMultiplyPermutation returns a*P, which moves column i of a to
// column p(i).
func (a *GF2Matrix) RightMultiplyPermutation(p *Permutation) *GF2Matrix {
	if p.Len() != a.cols {
		panic(fmt.Sprintf("linalg: %dx%d matrix times permutation of length %d", a.rows, a.cols, p.Len()))
	}
	r := NewZeroGF2Matrix(a.rows, a.cols)
	for i, pi := range p.perm {
		q, s := i>>5, uint(i&31)
		for k, row := range a.m {
			r.m[k][pi>>5] |= (row[q] >> s & 1) << uint(pi&31)
		}
	}
	return r
}

// LeftSubMatrix returns the square matrix of the first rows columns. It
// needs more columns than rows.
func (a *GF2Matrix) LeftSubMatrix() *GF2Matrix {
	if a.cols <= a.rows {
		panic(fmt.Sprintf("linalg: %dx%d matrix has no proper left submatrix", a.rows, a.cols))
	}
	return NewGF2MatrixFromRows(a.rows, a.m)
}

// RightSubMatrix returns the columns from index rows onwards. It needs
// more columns than rows.
func (a *GF2Matrix) RightSubMatrix() *GF2Matrix {
	if a.cols <= a.rows {
		panic(fmt.Sprintf("linalg: %dx%d matrix has no proper right submatrix", a.rows, a.cols))
	}
	r := NewZeroGF2Matrix(a.rows, a.cols-a.rows)
	for i, row := range a.m {
		for j := a.rows; j < a.cols; j++ {
			if row[j>>5]>>uint(j&31)&1 == 1 {
				k := j - a.rows
				r.m[i][k>>5] |= 1 << uint(k&31)
			}
		}
	}
	return r
}

// ExtendLeftCompactForm returns (A | I), the identity appended on the
// right.
func (a *GF2Matrix) ExtendLeftCompactForm() *GF2Matrix {
	r := NewZeroGF2Matrix(a.rows, a.cols+a.rows)
	for i, row := range a.m {
		copy(r.m[i], row)
		j := a.cols + i
		r.m[i][j>>5] |= 1 << uint(j&31)
	}
	return r
}

// ExtendRightCompactForm returns (I | A), the identity prepended on the
// left.
func (a *GF2Matrix) ExtendRightCompactForm() *GF2Matrix {
	r := NewZeroGF2Matrix(a.rows, a.rows+a.cols)
	for i, row := range a.m {
		r.m[i][i>>5] |= 1 << uint(i&31)
		for j := 0; j < a.cols; j++ {
			if row[j>>5]>>uint(j&31)&1 == 1 {
				k := a.rows + j
				r.m[i][k>>5] |= 1 << uint(k&31)
			}
		}
	}
	return r
}

// HammingWeight returns the number of ones.
func (a *GF2Matrix) HammingWeight() int {
	w := 0
	for _, row := range a.m {
		for _, x := range row {
			w += bits.OnesCount32(x)
		}
	}
	return w
}

// Density returns the fraction of entries equal to one.
func (a *GF2Matrix) Density() float64 {
	if a.rows == 0 || a.cols == 0 {
		return 0
	}
	return float64(a.HammingWeight()) / float64(a.rows*a.cols)
}

func (a *GF2Matrix) IsZero() bool {
	for _, row := range a.m {
		for _, x := range row {
			if x != 0 {
				return false
			}
		}
	}
	return true
}

func (a *GF2Matrix) Equal(b *GF2Matrix) bool {
	if b == nil || a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.m {
		for k := range a.m[i] {
			if a.m[i][k] != b.m[i][k] {
				return false
			}
		}
	}
	return true
}

// Wipe zeroes the matrix in place, for secret scrambling matrices.
func (a *GF2Matrix) Wipe() {
	for _, row := range a.m {
		secure.ZeroWords(row)
	}
}

func (a *GF2Matrix) String() string {
	var sb strings.Builder
	for i, row := range a.m {
		fmt.Fprintf(&sb, "%d: ", i)
		for j := 0; j < a.cols; j++ {
			sb.WriteByte(byte('0' + row[j>>5]>>uint(j&31)&1))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func xorRow(dst, src []uint32) {
	for k := range dst {
		dst[k] ^= src[k]
	}
}
