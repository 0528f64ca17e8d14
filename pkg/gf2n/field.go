// Package gf2n implements the binary extension field GF(2^n) for
// arbitrary n in two representations: a polynomial basis and a type I or
// type II optimal normal basis. Elements of fields of equal degree can be
// converted between representations with change-of-basis matrices that
// each field caches.
package gf2n

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/linalg"
	"github.com/Davincible/goppa/pkg/secure"
)

var (
	ErrZeroInverse    = errors.New("gf2n: zero has no inverse")
	ErrNoONB          = errors.New("gf2n: no optimal normal basis of type I or II for this degree")
	ErrNoSolution     = errors.New("gf2n: quadratic equation has no solution")
	ErrDegreeMismatch = errors.New("gf2n: fields have different degrees")
	ErrInvalidDegree  = errors.New("gf2n: invalid field degree")
	ErrNotIrreducible = errors.New("gf2n: field polynomial is not irreducible")
	ErrInvalidElement = errors.New("gf2n: value is not an element of the field")
	ErrEvenDegree     = errors.New("gf2n: half-trace requires an odd field degree")
	ErrNoRoot         = errors.New("gf2n: polynomial has no root in the field")
	ErrSingularCOB    = errors.New("gf2n: change-of-basis matrix is singular")
)

// Basis tags the representation of a field and its elements.
type Basis int

const (
	PolynomialBasis Basis = iota
	NormalBasis
)

func (b Basis) String() string {
	switch b {
	case PolynomialBasis:
		return "polynomial"
	case NormalBasis:
		return "normal"
	default:
		return fmt.Sprintf("Basis(%d)", int(b))
	}
}

// Field is GF(2^n) in one of its representations.
type Field interface {
	Degree() int
	// FieldPolynomial returns a copy of the defining polynomial, of length
	// Degree()+1.
	FieldPolynomial() *gf2x.Poly
	Basis() Basis
	// ID is unique per field instance and keys the change-of-basis cache.
	ID() uint64

	Zero() Element
	One() Element
	Random(src secure.Source) Element
	// FromBytes reads the external big-endian form of an element.
	FromBytes(bs []byte) (Element, error)
	FromBigInt(v *big.Int) (Element, error)

	// Convert maps e, an element of this field, into to. The change-of-basis
	// matrix is computed on first use with randomness from src.
	Convert(e Element, to Field, src secure.Source) (Element, error)
	// RandomRoot returns a root in this field of g, an irreducible GF(2)
	// polynomial of degree Degree(), following IEEE 1363 A.5.6.
	RandomRoot(g *gf2x.Poly, src secure.Source) (Element, error)

	base() *baseField
	fromCoords(c *gf2x.Poly) Element
}

// Element is a member of a Field. Methods without the "This" suffix leave
// the receiver unchanged. Mixing elements of different fields panics.
type Element interface {
	Field() Field
	Basis() Basis
	Clone() Element

	IsZero() bool
	IsOne() bool
	Equal(b Element) bool
	// TestBit reports coordinate i.
	TestBit(i int) bool
	// TestRightmostBit reports the least significant bit of the external
	// integer form.
	TestRightmostBit() bool

	Add(b Element) Element
	AddToThis(b Element)
	Multiply(b Element) Element
	MultiplyThisBy(b Element)
	Square() Element
	SquareThis()
	Invert() (Element, error)
	InvertThis() error
	SquareRoot() Element
	SquareRootThis()

	// Trace returns Tr(e), 0 or 1.
	Trace() int
	// SolveQuadraticEquation returns z with z^2 + z = e.
	SolveQuadraticEquation(src secure.Source) (Element, error)

	Bytes() []byte
	BigInt() *big.Int
	String() string

	// coords returns the coordinate vector, bit i = coordinate i.
	coords() *gf2x.Poly
}

var fieldIDs atomic.Uint64

// baseField carries the state shared by both representations.
type baseField struct {
	id     uint64
	degree int
	poly   *gf2x.Poly
	cob    cobCache
}

func (b *baseField) init(degree int, poly *gf2x.Poly) {
	b.id = fieldIDs.Add(1)
	b.degree = degree
	b.poly = poly
}

func (b *baseField) Degree() int {
	return b.degree
}

func (b *baseField) FieldPolynomial() *gf2x.Poly {
	return b.poly.Clone()
}

func (b *baseField) ID() uint64 {
	return b.id
}

func (b *baseField) base() *baseField {
	return b
}

type cobEntry struct {
	id     uint64
	field  Field
	matrix *linalg.GF2Matrix
}

// cobCache holds change-of-basis matrices from the owning field to other
// fields. Entries are only appended; the first entry for a field id wins.
type cobCache struct {
	mu      sync.Mutex
	entries []cobEntry
}

func (c *cobCache) lookupLocked(id uint64) *linalg.GF2Matrix {
	for _, e := range c.entries {
		if e.id == id {
			return e.matrix
		}
	}
	return nil
}

func (c *cobCache) lookup(id uint64) *linalg.GF2Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(id)
}

func (c *cobCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CachedConversions returns the number of change-of-basis matrices f
// holds.
func CachedConversions(f Field) int {
	return f.base().cob.len()
}

// sameField reports whether a and b describe the same field in the same
// representation.
func sameField(a, b Field) bool {
	if a.ID() == b.ID() {
		return true
	}
	return a.Basis() == b.Basis() && a.Degree() == b.Degree() &&
		a.base().poly.Equal(b.base().poly)
}

func checkSameField(op string, a, b Field) {
	if !sameField(a, b) {
		panic(fmt.Sprintf("gf2n: %s of elements from different fields", op))
	}
}

// Convert maps e into the field to. Fields with the same defining
// polynomial and representation share coordinates, so the element is
// cloned; otherwise the cached change-of-basis matrix is applied.
func Convert(e Element, to Field, src secure.Source) (Element, error) {
	from := e.Field()
	if sameField(from, to) {
		return to.fromCoords(e.coords()), nil
	}
	if from.Degree() != to.Degree() {
		return nil, fmt.Errorf("%w: %d and %d", ErrDegreeMismatch, from.Degree(), to.Degree())
	}

	m := from.base().cob.lookup(to.ID())
	if m == nil {
		var err error
		m, err = ComputeCOBMatrix(from, to, src)
		if err != nil {
			return nil, err
		}
	}

	n := from.Degree()
	x := linalg.GF2VectorFromWords(n, e.coords().Words())
	y := m.RightMultiplyVector(x)
	return to.fromCoords(gf2x.FromWords(n, y.Words())), nil
}

// ComputeCOBMatrix computes the matrix mapping coordinates of from into
// coordinates of to, stores it in from's cache and its inverse in to's
// cache, and returns the matrix that ended up cached in from. If a
// concurrent call already stored a pair, that pair is kept.
//
// With u a root of from's field polynomial in to, column j of the matrix
// holds the coordinates of u^j (polynomial basis) or u^(2^j) (normal
// basis).
func ComputeCOBMatrix(from, to Field, src secure.Source) (*linalg.GF2Matrix, error) {
	n := from.Degree()
	if n != to.Degree() {
		return nil, fmt.Errorf("%w: %d and %d", ErrDegreeMismatch, n, to.Degree())
	}

	var u Element
	for attempts := 1; ; attempts++ {
		r, err := to.RandomRoot(from.FieldPolynomial(), src)
		if err != nil {
			return nil, fmt.Errorf("root of field polynomial: %w", err)
		}
		if !r.IsZero() {
			u = r
			slog.Debug("gf2n: change-of-basis root found", "degree", n, "from", from.Basis(), "to", to.Basis(), "attempts", attempts)
			break
		}
	}

	m := linalg.NewZeroGF2Matrix(n, n)
	var gamma Element
	if from.Basis() == NormalBasis {
		gamma = u.Clone()
	} else {
		gamma = to.One()
	}
	for j := 0; j < n; j++ {
		c := gamma.coords()
		for i := 0; i < n; i++ {
			if c.TestBit(i) {
				m.SetBit(i, j)
			}
		}
		if from.Basis() == NormalBasis {
			gamma.SquareThis()
		} else {
			gamma.MultiplyThisBy(u)
		}
	}

	inv, err := m.ComputeInverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularCOB, err)
	}
	return storeCOBPair(from, to, m, inv), nil
}

func storeCOBPair(from, to Field, m, inv *linalg.GF2Matrix) *linalg.GF2Matrix {
	a, b := from.base(), to.base()
	first, second := &a.cob, &b.cob
	if a.id > b.id {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	if first != second {
		second.mu.Lock()
		defer second.mu.Unlock()
	}

	if existing := a.cob.lookupLocked(b.id); existing != nil {
		return existing
	}
	a.cob.entries = append(a.cob.entries, cobEntry{id: b.id, field: to, matrix: m})
	b.cob.entries = append(b.cob.entries, cobEntry{id: a.id, field: from, matrix: inv})
	return m
}
