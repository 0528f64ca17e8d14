package gf2x

import "fmt"

// squaringTable maps a byte b0..b7 to the 16-bit word b0 0 b1 0 ... b7 0,
// the square of the corresponding degree-7 polynomial.
var squaringTable [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		var s uint16
		for j := uint(0); j < 8; j++ {
			if i>>j&1 != 0 {
				s |= 1 << (2 * j)
			}
		}
		squaringTable[i] = s
	}
}

// SquareThisBitwise squares p in place by spreading each coefficient i to
// position 2i. The length becomes 2*Len()-1.
func (p *Poly) SquareThisBitwise() {
	r := New(p.len<<1 - 1)
	for i := 0; i < p.len; i++ {
		if p.value[i>>5]>>uint(i&31)&1 != 0 {
			j := i << 1
			r.value[j>>5] |= 1 << uint(j&31)
		}
	}
	*p = *r
}

// SquareThisPreCalc squares p in place using the 8-to-16 bit table. The
// length becomes 2*Len()-1.
func (p *Poly) SquareThisPreCalc() {
	blocks := len(p.value)
	for len(p.value) < blocks<<1 {
		p.value = append(p.value, 0)
	}
	for i := blocks - 1; i >= 0; i-- {
		v := p.value[i]
		p.value[2*i+1] = uint32(squaringTable[v>>16&0xff]) | uint32(squaringTable[v>>24])<<16
		p.value[2*i] = uint32(squaringTable[v&0xff]) | uint32(squaringTable[v>>8&0xff])<<16
	}
	p.len = p.len<<1 - 1
	p.value = p.value[:wordsFor(p.len)]
}

// ReduceTrinomial reduces p modulo x^m + x^tc + 1 in place, 0 < tc < m.
// The result has length m.
func (p *Poly) ReduceTrinomial(m, tc int) {
	if tc <= 0 || tc >= m {
		panic(fmt.Sprintf("gf2x: invalid trinomial x^%d + x^%d + 1", m, tc))
	}
	p.reduceSparse(m, []int{tc})
}

// ReducePentanomial reduces p modulo x^m + x^pc[2] + x^pc[1] + x^pc[0] + 1
// in place, 0 < pc[0] < pc[1] < pc[2] < m. The result has length m.
func (p *Poly) ReducePentanomial(m int, pc [3]int) {
	if pc[0] <= 0 || pc[0] >= pc[1] || pc[1] >= pc[2] || pc[2] >= m {
		panic(fmt.Sprintf("gf2x: invalid pentanomial exponents %v for degree %d", pc, m))
	}
	p.reduceSparse(m, pc[:])
}

// reduceSparse folds every coefficient at or above x^m down using
// x^m = 1 + sum(x^k, k in taps). Words are processed from the top; a word
// is revisited until no bit at or above m remains in it, since a fold can
// land back inside the same word when m-k < 32.
func (p *Poly) reduceSparse(m int, taps []int) {
	if p.Degree() < m {
		if p.len < m {
			p.ExpandN(m)
		} else {
			p.truncate(m)
		}
		return
	}

	low := m >> 5
	for i := len(p.value) - 1; i >= low; i-- {
		for {
			t := p.value[i]
			if i == low {
				t &= ^uint32(0) << uint(m&31)
			}
			if t == 0 {
				break
			}
			p.value[i] ^= t

			base := i<<5 - m
			p.xorWordAt(t, base)
			for _, k := range taps {
				p.xorWordAt(t, base+k)
			}
		}
	}
	p.truncate(m)
}

// xorWordAt adds t * x^s. A negative s only occurs for the boundary word,
// whose bits below -s are already masked off.
func (p *Poly) xorWordAt(t uint32, s int) {
	if s < 0 {
		p.value[0] ^= t >> uint(-s)
		return
	}
	w, sh := s>>5, uint(s&31)
	p.value[w] ^= t << sh
	if sh != 0 && w+1 < len(p.value) {
		p.value[w+1] ^= t >> (32 - sh)
	}
}

// Remainder returns p mod g.
func (p *Poly) Remainder(g *Poly) (*Poly, error) {
	if g.IsZero() {
		return nil, ErrDivisionByZero
	}
	return p.remainder(g), nil
}

// Quotient returns the quotient of p divided by g.
func (p *Poly) Quotient(g *Poly) (*Poly, error) {
	q, _, err := p.Divide(g)
	return q, err
}

// Divide returns quotient and remainder of p divided by g.
func (p *Poly) Divide(g *Poly) (q, r *Poly, err error) {
	if g.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	a := p.Clone()
	a.ReduceN()
	b := g.Clone()
	b.ReduceN()

	db := b.Degree()
	da := a.Degree()
	if da < db {
		return New(1), a, nil
	}

	q = New(da - db + 1)
	for da >= db {
		shift := da - db
		q.value[shift>>5] |= 1 << uint(shift&31)
		xorShifted(a.value, b.value, shift)
		da = a.Degree()
	}
	a.ReduceN()
	return q, a, nil
}

// remainder is Remainder for a divisor known to be non-zero.
func (p *Poly) remainder(g *Poly) *Poly {
	a := p.Clone()
	a.ReduceN()
	b := g.Clone()
	b.ReduceN()

	db := b.Degree()
	for da := a.Degree(); da >= db; da = a.Degree() {
		xorShifted(a.value, b.value, da-db)
	}
	a.ReduceN()
	return a
}

// GCD returns the greatest common divisor of p and g.
func (p *Poly) GCD(g *Poly) (*Poly, error) {
	if p.IsZero() && g.IsZero() {
		return nil, ErrZeroGCD
	}
	return p.gcd(g), nil
}

func (p *Poly) gcd(g *Poly) *Poly {
	a := p.Clone()
	a.ReduceN()
	b := g.Clone()
	b.ReduceN()
	for !b.IsZero() {
		a, b = b, a.remainder(b)
	}
	return a
}

// IsIrreducible tests irreducibility over GF(2) following IEEE 1363 A.5.5:
// with u = x, repeatedly square u mod f and check gcd(f, u + x) = 1 for
// floor(deg(f)/2) rounds.
func (p *Poly) IsIrreducible() bool {
	if p.IsZero() {
		return false
	}
	f := p.Clone()
	f.ReduceN()
	d := f.len - 1
	if d < 1 {
		return false
	}

	x := X(2)
	u := X(f.len)
	for i := 1; i <= d>>1; i++ {
		u.SquareThisPreCalc()
		u = u.remainder(f)
		diff := u.Add(x)
		if diff.IsZero() {
			return false
		}
		if g := f.gcd(diff); !g.IsOne() {
			return false
		}
	}
	return true
}
