package linalg

import (
	"fmt"
	"strings"

	"github.com/Davincible/goppa/pkg/gf2m"
)

// GF2mMatrix is a dense matrix over a small field GF(2^m). Only
// encoding and inversion are supported; products return
// ErrNotImplemented.
type GF2mMatrix struct {
	field      *gf2m.Field
	rows, cols int
	m          [][]int
}

// NewGF2mMatrix validates and copies the given rows, which must all have
// the same length.
func NewGF2mMatrix(field *gf2m.Field, rows [][]int) (*GF2mMatrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: matrix without rows", ErrInvalidEncoding)
	}
	cols := len(rows[0])
	m := make([][]int, len(rows))
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrLengthMismatch, i, len(row), cols)
		}
		for j, e := range row {
			if !field.IsElementOfThisField(e) {
				return nil, fmt.Errorf("%w: entry (%d,%d) = %d is not in GF(2^%d)", ErrInvalidEncoding, i, j, e, field.Degree())
			}
		}
		m[i] = make([]int, cols)
		copy(m[i], row)
	}
	return &GF2mMatrix{field: field, rows: len(rows), cols: cols, m: m}, nil
}

// DecodeGF2mMatrix reads the row count as a 4-byte little-endian integer
// followed by the entries row by row, ceil(m/8) bytes each. The column
// count is implied by the length.
func DecodeGF2mMatrix(field *gf2m.Field, enc []byte) (*GF2mMatrix, error) {
	if len(enc) < 5 {
		return nil, fmt.Errorf("%w: GF(2^m) matrix encoding needs at least 5 bytes, got %d", ErrInvalidEncoding, len(enc))
	}
	size := field.ElementBytes()
	rows := int(leUint32(enc))
	if rows <= 0 || (len(enc)-4)%(rows*size) != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %d rows over GF(2^%d)", ErrInvalidEncoding, len(enc), rows, field.Degree())
	}
	cols := (len(enc) - 4) / (rows * size)

	m := make([][]int, rows)
	off := 4
	for i := range m {
		m[i] = make([]int, cols)
		for j := range m[i] {
			e, err := field.DecodeElement(enc[off : off+size])
			if err != nil {
				return nil, fmt.Errorf("%w: entry (%d,%d): %w", ErrInvalidEncoding, i, j, err)
			}
			m[i][j] = e
			off += size
		}
	}
	return &GF2mMatrix{field: field, rows: rows, cols: cols, m: m}, nil
}

func (a *GF2mMatrix) Encode() []byte {
	out := make([]byte, 4, 4+a.rows*a.cols*a.field.ElementBytes())
	putLEUint32(out, uint32(a.rows))
	for _, row := range a.m {
		for _, e := range row {
			out = append(out, a.field.EncodeElement(e)...)
		}
	}
	return out
}

func (a *GF2mMatrix) Field() *gf2m.Field {
	return a.field
}

func (a *GF2mMatrix) Rows() int {
	return a.rows
}

func (a *GF2mMatrix) Cols() int {
	return a.cols
}

func (a *GF2mMatrix) At(i, j int) int {
	return a.m[i][j]
}

func (a *GF2mMatrix) IsZero() bool {
	for _, row := range a.m {
		for _, e := range row {
			if e != 0 {
				return false
			}
		}
	}
	return true
}

// ComputeInverse inverts a square matrix by Gauss-Jordan elimination,
// scaling each pivot row to a unit pivot.
func (a *GF2mMatrix) ComputeInverse() (*GF2mMatrix, error) {
	if a.rows != a.cols {
		return nil, fmt.Errorf("%w: %dx%d matrix is not square", ErrSingular, a.rows, a.cols)
	}
	n := a.rows
	f := a.field
	tmp := make([][]int, n)
	inv := make([][]int, n)
	for i := range tmp {
		tmp[i] = make([]int, n)
		copy(tmp[i], a.m[i])
		inv[i] = make([]int, n)
		inv[i][i] = 1
	}

	for i := 0; i < n; i++ {
		if tmp[i][i] == 0 {
			pivot := -1
			for j := i + 1; j < n; j++ {
				if tmp[j][i] != 0 {
					pivot = j
					break
				}
			}
			if pivot < 0 {
				return nil, ErrSingular
			}
			tmp[i], tmp[pivot] = tmp[pivot], tmp[i]
			inv[i], inv[pivot] = inv[pivot], inv[i]
		}

		s, err := f.Inverse(tmp[i][i])
		if err != nil {
			return nil, err
		}
		scaleRow(f, tmp[i], s)
		scaleRow(f, inv[i], s)

		for j := 0; j < n; j++ {
			if c := tmp[j][i]; j != i && c != 0 {
				addScaledRow(f, tmp[j], tmp[i], c)
				addScaledRow(f, inv[j], inv[i], c)
			}
		}
	}
	return &GF2mMatrix{field: f, rows: n, cols: n, m: inv}, nil
}

func (a *GF2mMatrix) RightMultiply(*GF2mMatrix) (*GF2mMatrix, error) {
	return nil, ErrNotImplemented
}

func (a *GF2mMatrix) RightMultiplyVector(*GF2mVector) (*GF2mVector, error) {
	return nil, ErrNotImplemented
}

func (a *GF2mMatrix) LeftMultiplyVector(*GF2mVector) (*GF2mVector, error) {
	return nil, ErrNotImplemented
}

func (a *GF2mMatrix) RightMultiplyPermutation(*Permutation) (*GF2mMatrix, error) {
	return nil, ErrNotImplemented
}

func (a *GF2mMatrix) Equal(b *GF2mMatrix) bool {
	if b == nil || !a.field.Equal(b.field) || a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.m {
		for j := range a.m[i] {
			if a.m[i][j] != b.m[i][j] {
				return false
			}
		}
	}
	return true
}

func (a *GF2mMatrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d matrix over %s\n", a.rows, a.cols, a.field)
	for _, row := range a.m {
		for j, e := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(a.field.ElementToString(e))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func scaleRow(f *gf2m.Field, row []int, s int) {
	for j, e := range row {
		row[j] = f.Mult(e, s)
	}
}

func addScaledRow(f *gf2m.Field, dst, src []int, c int) {
	for j, e := range src {
		dst[j] ^= f.Mult(e, c)
	}
}
