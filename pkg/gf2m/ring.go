package gf2m

import (
	"math/bits"

	"github.com/Davincible/goppa/pkg/secure"
)

// Polynomials over GF(2) of degree at most 31, one per machine word.
// Bit i is the coefficient of x^i.

// bruteForceBudget bounds the ascending scan in IrreduciblePolynomial
// before it switches to random candidates.
const bruteForceBudget = 1 << 12

// PolyAdd returns p + q.
func PolyAdd(p, q int) int {
	return p ^ q
}

// PolyMult returns the full (up to 62-bit) product of p and q.
func PolyMult(p, q int) int64 {
	var result int64
	if q == 0 {
		return 0
	}
	a := int64(p)
	for b := uint32(q); b != 0; b >>= 1 {
		if b&1 != 0 {
			result ^= a
		}
		a <<= 1
	}
	return result
}

// PolyMultMod returns a*b mod r.
func PolyMultMod(a, b, r int) int {
	result := 0
	p := PolyRemainder(a, r)
	q := PolyRemainder(b, r)
	if q == 0 {
		return 0
	}
	d := 1 << uint(Degree(r))
	for p != 0 {
		if p&1 == 1 {
			result ^= q
		}
		p = int(uint32(p) >> 1)
		q <<= 1
		if q >= d {
			q ^= r
		}
	}
	return result
}

// Degree returns the degree of p, or -1 for p == 0.
func Degree(p int) int {
	return bits.Len32(uint32(p)) - 1
}

func degree64(p int64) int {
	return bits.Len64(uint64(p)) - 1
}

// PolyRemainder returns p mod q. It panics if q is zero.
func PolyRemainder(p, q int) int {
	if q == 0 {
		panic("gf2m: division by zero polynomial")
	}
	result := p
	dq := Degree(q)
	for d := Degree(result); d >= dq; d = Degree(result) {
		result ^= q << uint(d-dq)
	}
	return result
}

// PolyMod reduces a product returned by PolyMult modulo q.
func PolyMod(p int64, q int) int {
	if q == 0 {
		panic("gf2m: division by zero polynomial")
	}
	result := p
	dq := Degree(q)
	for d := degree64(result); d >= dq; d = degree64(result) {
		result ^= int64(q) << uint(d-dq)
	}
	return int(result)
}

// PolyGCD returns gcd(p, q).
func PolyGCD(p, q int) int {
	a, b := p, q
	for b != 0 {
		a, b = b, PolyRemainder(a, b)
	}
	return a
}

// IsIrreducible tests p with the same trace-style scheme as the
// arbitrary-length test: u = x^(2^i) mod p and gcd(u + x, p) = 1 for
// i <= deg(p)/2.
func IsIrreducible(p int) bool {
	if p == 0 {
		return false
	}
	d := Degree(p)
	if d < 1 {
		return false
	}
	u := 2
	for i := 0; i < d>>1; i++ {
		u = PolyMultMod(u, u, p)
		if PolyGCD(u^2, p) != 1 {
			return false
		}
	}
	return true
}

// IrreduciblePolynomial returns an irreducible polynomial of the given
// degree, 0 < deg < 32. Candidates x^deg + ... + 1 are scanned in
// ascending order first, so the result is deterministic in practice; if
// the scan budget runs out, random candidates drawn from src are tried
// until one is irreducible. A nil src keeps scanning.
func IrreduciblePolynomial(deg int, src secure.Source) int {
	if deg < 1 || deg > 31 {
		return 0
	}
	lo := uint64(1)<<uint(deg) | 1
	hi := uint64(1) << uint(deg+1)
	for c, tried := lo, 0; c < hi; c, tried = c+2, tried+1 {
		if src != nil && tried >= bruteForceBudget {
			break
		}
		if IsIrreducible(int(c)) {
			return int(c)
		}
	}
	if src == nil {
		return 0
	}

	mask := 1<<uint(deg) - 1
	for {
		c := 1<<uint(deg) | int(src.Uint32())&mask | 1
		if IsIrreducible(c) {
			return c
		}
	}
}
