// Package linalg provides dense matrices and vectors over GF(2) and
// GF(2^m), and permutations, as used by the McEliece family of code-based
// schemes: scrambling matrices, generator and parity-check matrices and
// their permutations.
package linalg

import (
	"encoding/binary"
	"errors"
)

var (
	ErrSingular        = errors.New("linalg: matrix is not invertible")
	ErrInvalidEncoding = errors.New("linalg: invalid encoding")
	ErrNotBijective    = errors.New("linalg: not a permutation")
	ErrLengthMismatch  = errors.New("linalg: length mismatch")
	ErrNotImplemented  = errors.New("linalg: operation not implemented for GF(2^m) matrices")
)

// MatrixType selects the shape of a random square matrix.
type MatrixType int

const (
	// MatrixLower is lower triangular with a unit diagonal.
	MatrixLower MatrixType = iota + 1
	// MatrixUpper is upper triangular with a unit diagonal.
	MatrixUpper
)

func leUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func putLEUint32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}
