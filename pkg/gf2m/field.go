// Package gf2m implements the small binary field GF(2^m), m < 32, with
// elements held in a single machine word, and polynomials over it
// (Goppa polynomials).
package gf2m

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/Davincible/goppa/pkg/secure"
)

var (
	ErrNotIrreducible   = errors.New("gf2m: field polynomial is not irreducible")
	ErrInvalidDegree    = errors.New("gf2m: field degree must be in [2,31]")
	ErrZeroInverse      = errors.New("gf2m: zero has no inverse")
	ErrInvalidEncoding  = errors.New("gf2m: invalid encoding")
	ErrDivisionByZero   = errors.New("gf2m: division by zero polynomial")
	ErrNotInvertible    = errors.New("gf2m: polynomial is not invertible modulo g")
	ErrSingularSquaring = errors.New("gf2m: squaring matrix is not invertible")
)

// maxNonZeroDraws caps RandomNonZeroElement. A working source hits that
// many zero draws with probability 2^-(m*2^20).
const maxNonZeroDraws = 1 << 20

// Field is GF(2^m) defined by an irreducible polynomial of degree m.
type Field struct {
	degree     int
	polynomial int
}

// NewField returns GF(2^degree) with a default irreducible polynomial.
func NewField(degree int, src secure.Source) (*Field, error) {
	if degree < 2 || degree > 31 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, degree)
	}
	return &Field{degree: degree, polynomial: IrreduciblePolynomial(degree, src)}, nil
}

// NewFieldWithPolynomial returns GF(2^degree) defined by poly. The
// polynomial must have exactly the given degree and be irreducible.
func NewFieldWithPolynomial(degree, poly int) (*Field, error) {
	if degree < 2 || degree > 31 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, degree)
	}
	if Degree(poly) != degree {
		return nil, fmt.Errorf("gf2m: polynomial %#x has degree %d, want %d", poly, Degree(poly), degree)
	}
	if !IsIrreducible(poly) {
		return nil, fmt.Errorf("%w: %#x", ErrNotIrreducible, poly)
	}
	return &Field{degree: degree, polynomial: poly}, nil
}

// DecodeField reads the 4-byte little-endian field polynomial.
func DecodeField(enc []byte) (*Field, error) {
	if len(enc) != 4 {
		return nil, fmt.Errorf("%w: field encoding must be 4 bytes, got %d", ErrInvalidEncoding, len(enc))
	}
	poly := int(binary.LittleEndian.Uint32(enc))
	return NewFieldWithPolynomial(Degree(poly), poly)
}

// Degree returns m.
func (f *Field) Degree() int {
	return f.degree
}

// Polynomial returns the defining polynomial as a bit word.
func (f *Field) Polynomial() int {
	return f.polynomial
}

// Encode returns the polynomial as 4 little-endian bytes.
func (f *Field) Encode() []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(f.polynomial))
	return out
}

// ElementBytes is the width of one encoded element, ceil(m/8).
func (f *Field) ElementBytes() int {
	return (f.degree + 7) >> 3
}

func (f *Field) Add(a, b int) int {
	return a ^ b
}

func (f *Field) Mult(a, b int) int {
	return PolyMultMod(a, b, f.polynomial)
}

// Exp returns a^k by square-and-multiply. Negative exponents use the
// inverse of a and panic for a = 0; zero raised to a positive power is
// zero.
func (f *Field) Exp(a, k int) int {
	if k == 0 {
		return 1
	}
	if k < 0 {
		a = f.inverse(a)
		k = -k
	}
	if a == 0 {
		return 0
	}
	if a == 1 {
		return 1
	}
	result := 1
	for k != 0 {
		if k&1 == 1 {
			result = f.Mult(result, a)
		}
		a = f.Mult(a, a)
		k >>= 1
	}
	return result
}

// Inverse returns a^(2^m - 2), the multiplicative inverse of a.
func (f *Field) Inverse(a int) (int, error) {
	if a == 0 {
		return 0, ErrZeroInverse
	}
	return f.inverse(a), nil
}

// inverse is Inverse for an operand known to be non-zero.
func (f *Field) inverse(a int) int {
	if a == 0 {
		panic("gf2m: inverse of zero")
	}
	return f.Exp(a, (1<<uint(f.degree))-2)
}

// SqRoot returns the square root of a by squaring m-1 times.
func (f *Field) SqRoot(a int) int {
	for i := 1; i < f.degree; i++ {
		a = f.Mult(a, a)
	}
	return a
}

// RandomElement draws a uniform element of the field.
func (f *Field) RandomElement(src secure.Source) int {
	if f.degree == 31 {
		return int(src.Uint32() &^ (1 << 31))
	}
	return secure.Intn(src, 1<<uint(f.degree))
}

// RandomNonZeroElement draws a uniform non-zero element.
func (f *Field) RandomNonZeroElement(src secure.Source) int {
	for i := 0; i < maxNonZeroDraws; i++ {
		if e := f.RandomElement(src); e != 0 {
			return e
		}
	}
	panic("gf2m: randomness source returned only zero elements")
}

// IsElementOfThisField reports whether 0 <= e < 2^m.
func (f *Field) IsElementOfThisField(e int) bool {
	return e >= 0 && e < 1<<uint(f.degree)
}

// ElementToString renders a as its m coefficient bits, x^0 first.
func (f *Field) ElementToString(a int) string {
	var b strings.Builder
	for i := 0; i < f.degree; i++ {
		if a>>uint(i)&1 == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Equal reports whether both fields share degree and polynomial.
func (f *Field) Equal(other *Field) bool {
	if other == nil {
		return false
	}
	return f.degree == other.degree && f.polynomial == other.polynomial
}

func (f *Field) String() string {
	return fmt.Sprintf("GF(2^%d) mod %#x", f.degree, f.polynomial)
}

func (f *Field) checkElement(e int) {
	if !f.IsElementOfThisField(e) {
		panic(fmt.Sprintf("gf2m: %d is not an element of GF(2^%d)", e, f.degree))
	}
}

func (f *Field) encodeElement(dst []byte, e int) {
	for j := range dst {
		dst[j] = byte(e >> uint(8*j))
	}
}

func (f *Field) decodeElement(src []byte) int {
	e := 0
	for j := range src {
		e |= int(src[j]) << uint(8*j)
	}
	return e
}

// EncodeElement writes e into ceil(m/8) little-endian bytes.
func (f *Field) EncodeElement(e int) []byte {
	out := make([]byte, f.ElementBytes())
	f.encodeElement(out, e)
	return out
}

// DecodeElement reads an element from ceil(m/8) little-endian bytes.
func (f *Field) DecodeElement(enc []byte) (int, error) {
	if len(enc) != f.ElementBytes() {
		return 0, fmt.Errorf("%w: element needs %d bytes, got %d", ErrInvalidEncoding, f.ElementBytes(), len(enc))
	}
	e := f.decodeElement(enc)
	if !f.IsElementOfThisField(e) {
		return 0, fmt.Errorf("%w: %d is not an element of GF(2^%d)", ErrInvalidEncoding, e, f.degree)
	}
	return e, nil
}
