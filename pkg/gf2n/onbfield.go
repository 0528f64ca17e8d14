package gf2n

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/secure"
)

// ONBField is GF(2^n) in an optimal normal basis of type I or II: the
// basis is beta^(2^i), 0 <= i < n, for a normal element beta.
type ONBField struct {
	baseField

	typ   int
	words int
	// mult[i] lists the positions t with coefficient of beta_0 in
	// beta_i*beta_t equal to 1; -1 marks an unused slot.
	mult [][2]int
}

// NewONBField returns GF(2^degree) in an optimal normal basis. Type II
// is preferred when both types exist. Degrees divisible by 8 and degrees
// with neither type are rejected with ErrNoONB.
func NewONBField(degree int) (*ONBField, error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: normal basis needs degree >= 2, got %d", ErrInvalidDegree, degree)
	}
	if degree&7 == 0 {
		return nil, fmt.Errorf("%w: degree %d is divisible by 8", ErrNoONB, degree)
	}
	typ := onbType(degree)
	if typ == 0 {
		return nil, fmt.Errorf("%w: degree %d", ErrNoONB, degree)
	}

	f := &ONBField{typ: typ, words: (degree + 63) >> 6}
	f.init(degree, onbFieldPolynomial(degree, typ))
	f.computeMultMatrix()
	slog.Debug("gf2n: normal basis field", "degree", degree, "type", typ)
	return f, nil
}

// HasONB reports whether GF(2^degree) has a type I or II optimal normal
// basis.
func HasONB(degree int) bool {
	return degree >= 2 && degree&7 != 0 && onbType(degree) != 0
}

// onbType returns 2 if 2n+1 is prime and 2 generates enough of it, else
// 1 if n+1 is prime with 2 primitive, else 0.
func onbType(n int) int {
	if p := 2*n + 1; isPrime(p) {
		k := order2(p)
		if gcd(2*n/k, n) == 1 {
			return 2
		}
	}
	if p := n + 1; isPrime(p) {
		k := order2(p)
		if gcd(n/k, n) == 1 {
			return 1
		}
	}
	return 0
}

// onbFieldPolynomial is the minimal polynomial of the normal element:
// 1 + x + ... + x^n for type I and the recurrence f(k+1) = x*f(k) +
// f(k-1), f(0) = 1, f(1) = x + 1 for type II.
func onbFieldPolynomial(n, typ int) *gf2x.Poly {
	if typ == 1 {
		return gf2x.AllOnes(n + 1)
	}
	prev := gf2x.One(n + 1)
	cur := gf2x.One(n + 1)
	cur.SetBit(1)
	for k := 1; k < n; k++ {
		next := cur.ShiftLeft()
		next.AddToThis(prev)
		prev, cur = cur, gf2x.FromWords(n+1, next.Words())
	}
	return cur
}

func (f *ONBField) computeMultMatrix() {
	n := f.degree
	f.mult = make([][2]int, n)
	for i := range f.mult {
		f.mult[i] = [2]int{-1, -1}
	}

	if f.typ == 2 {
		p := 2*n + 1
		// logPM[e] = k with 2^k = +-e mod p
		logPM := make([]int, p)
		pow := 1
		for k := 0; k < n; k++ {
			logPM[pow] = k
			logPM[p-pow] = k
			pow = pow * 2 % p
		}
		f.mult[0][0] = 1
		pow = 2
		for i := 1; i < n; i++ {
			f.mult[i][0] = logPM[(pow+1)%p]
			f.mult[i][1] = logPM[(pow-1+p)%p]
			pow = pow * 2 % p
		}
		return
	}

	p := n + 1
	// log[e] = k with 2^k = e mod p
	log := make([]int, p)
	pow := 1
	for k := 0; k < n; k++ {
		log[pow] = k
		pow = pow * 2 % p
	}
	half := n >> 1
	f.mult[0][0] = half
	pow = 2
	for i := 1; i < n; i++ {
		f.mult[i][0] = log[(1-pow+p)%p]
		f.mult[i][1] = (i + half) % n
		pow = pow * 2 % p
	}
}

func (f *ONBField) Basis() Basis {
	return NormalBasis
}

// Type returns 1 or 2.
func (f *ONBField) Type() int {
	return f.typ
}

func (f *ONBField) Zero() Element {
	return f.newElement(make([]uint64, f.words))
}

// One is the all-ones vector, the trace of beta.
func (f *ONBField) One() Element {
	e := f.newElement(make([]uint64, f.words))
	for i := range e.pol {
		e.pol[i] = ^uint64(0)
	}
	e.clearUnused()
	return e
}

func (f *ONBField) Random(src secure.Source) Element {
	e := f.newElement(make([]uint64, f.words))
	for i := range e.pol {
		e.pol[i] = uint64(src.Uint32()) | uint64(src.Uint32())<<32
	}
	e.clearUnused()
	return e
}

// FromBytes reads the external form, where coordinate 0 is the most
// significant of n bits.
func (f *ONBField) FromBytes(bs []byte) (Element, error) {
	return f.FromBigInt(new(big.Int).SetBytes(bs))
}

func (f *ONBField) FromBigInt(v *big.Int) (Element, error) {
	if v.Sign() < 0 || v.BitLen() > f.degree {
		return nil, fmt.Errorf("%w: %s has more than %d bits", ErrInvalidElement, v.Text(16), f.degree)
	}
	e := f.newElement(make([]uint64, f.words))
	for i := 0; i < f.degree; i++ {
		if v.Bit(f.degree-1-i) == 1 {
			e.setBit(i)
		}
	}
	return e, nil
}

func (f *ONBField) newElement(pol []uint64) *ONBElement {
	return &ONBElement{field: f, pol: pol}
}

func (f *ONBField) fromCoords(c *gf2x.Poly) Element {
	e := f.newElement(make([]uint64, f.words))
	w := c.Words()
	for i := 0; i < len(w) && i>>1 < f.words; i++ {
		e.pol[i>>1] |= uint64(w[i]) << (32 * uint(i&1))
	}
	e.clearUnused()
	return e
}

func (f *ONBField) Convert(e Element, to Field, src secure.Source) (Element, error) {
	checkSameField("conversion", f, e.Field())
	return Convert(e, to, src)
}

func (f *ONBField) RandomRoot(g *gf2x.Poly, src secure.Source) (Element, error) {
	return randomRoot(f, g, src)
}

func (f *ONBField) String() string {
	return fmt.Sprintf("GF(2^%d) type %d normal basis", f.degree, f.typ)
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// order2 returns the multiplicative order of 2 modulo the odd prime p.
func order2(p int) int {
	k, pow := 1, 2%p
	for pow != 1 {
		pow = pow * 2 % p
		k++
	}
	return k
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
