package gf2n

import (
	"fmt"
	"log/slog"

	"github.com/Davincible/goppa/pkg/gf2x"
	"github.com/Davincible/goppa/pkg/secure"
)

// extPoly is a polynomial over GF(2^n). coeffs[i] is the coefficient of
// t^i; the slice is trimmed so the zero polynomial has no coefficients.
type extPoly struct {
	field  Field
	coeffs []Element
}

// liftPoly embeds a GF(2) polynomial into GF(2^n)[t].
func liftPoly(field Field, g *gf2x.Poly) *extPoly {
	p := &extPoly{field: field}
	for i := 0; i <= g.Degree(); i++ {
		if g.TestBit(i) {
			p.coeffs = append(p.coeffs, field.One())
		} else {
			p.coeffs = append(p.coeffs, field.Zero())
		}
	}
	return p.trim()
}

func (p *extPoly) trim() *extPoly {
	for len(p.coeffs) > 0 && p.coeffs[len(p.coeffs)-1].IsZero() {
		p.coeffs = p.coeffs[:len(p.coeffs)-1]
	}
	return p
}

func (p *extPoly) degree() int {
	return len(p.coeffs) - 1
}

func (p *extPoly) coeff(i int) Element {
	if i < 0 || i >= len(p.coeffs) {
		return p.field.Zero()
	}
	return p.coeffs[i]
}

func (p *extPoly) add(b *extPoly) *extPoly {
	n := len(p.coeffs)
	if len(b.coeffs) > n {
		n = len(b.coeffs)
	}
	r := &extPoly{field: p.field, coeffs: make([]Element, n)}
	for i := range r.coeffs {
		r.coeffs[i] = p.coeff(i).Add(b.coeff(i))
	}
	return r.trim()
}

func (p *extPoly) multiply(b *extPoly) *extPoly {
	if len(p.coeffs) == 0 || len(b.coeffs) == 0 {
		return &extPoly{field: p.field}
	}
	r := &extPoly{field: p.field, coeffs: make([]Element, len(p.coeffs)+len(b.coeffs)-1)}
	for i := range r.coeffs {
		r.coeffs[i] = p.field.Zero()
	}
	for i, x := range p.coeffs {
		if x.IsZero() {
			continue
		}
		for j, y := range b.coeffs {
			r.coeffs[i+j].AddToThis(x.Multiply(y))
		}
	}
	return r.trim()
}

// divide returns quotient and remainder of p / g, g non-zero.
func (p *extPoly) divide(g *extPoly) (q, r *extPoly, err error) {
	dg := g.degree()
	if dg < 0 {
		return nil, nil, fmt.Errorf("gf2n: division by zero polynomial")
	}
	lead, err := g.coeffs[dg].Invert()
	if err != nil {
		return nil, nil, err
	}

	r = &extPoly{field: p.field, coeffs: make([]Element, len(p.coeffs))}
	for i, c := range p.coeffs {
		r.coeffs[i] = c.Clone()
	}
	qlen := p.degree() - dg + 1
	if qlen < 1 {
		qlen = 0
	}
	q = &extPoly{field: p.field, coeffs: make([]Element, qlen)}
	for i := range q.coeffs {
		q.coeffs[i] = p.field.Zero()
	}

	for dr := r.degree(); dr >= dg; dr = r.degree() {
		c := r.coeffs[dr].Multiply(lead)
		shift := dr - dg
		q.coeffs[shift] = c
		for i, gc := range g.coeffs {
			r.coeffs[i+shift].AddToThis(gc.Multiply(c))
		}
		r.trim()
	}
	return q.trim(), r, nil
}

// gcd returns the monic greatest common divisor.
func (p *extPoly) gcd(g *extPoly) (*extPoly, error) {
	a, b := p, g
	for b.degree() >= 0 {
		_, r, err := a.divide(b)
		if err != nil {
			return nil, err
		}
		a, b = b, r
	}
	if a.degree() < 0 {
		return a, nil
	}
	inv, err := a.coeffs[a.degree()].Invert()
	if err != nil {
		return nil, err
	}
	m := &extPoly{field: a.field, coeffs: make([]Element, len(a.coeffs))}
	for i, c := range a.coeffs {
		m.coeffs[i] = c.Multiply(inv)
	}
	return m, nil
}

// randomRoot finds a root of g in field by the splitting method of IEEE
// 1363 A.5.6: c = Tr(u*t) mod g for random u splits g through gcd(c, g)
// until a linear factor remains.
func randomRoot(field Field, g *gf2x.Poly, src secure.Source) (Element, error) {
	n := field.Degree()
	if g.Degree() != n {
		return nil, fmt.Errorf("%w: polynomial of degree %d has no guaranteed root in GF(2^%d)", ErrNoRoot, g.Degree(), n)
	}

	gt := liftPoly(field, g)
	attempts := 0
	for gt.degree() > 1 {
		var h *extPoly
		for {
			attempts++
			u := field.Random(src)
			ut := &extPoly{field: field, coeffs: []Element{field.Zero(), u}}
			ut.trim()

			c := ut
			for i := 1; i < n; i++ {
				_, sq, err := c.multiply(c).divide(gt)
				if err != nil {
					return nil, err
				}
				c = sq.add(ut)
			}

			var err error
			h, err = c.gcd(gt)
			if err != nil {
				return nil, err
			}
			if d := h.degree(); d > 0 && d < gt.degree() {
				break
			}
		}

		if 2*h.degree() > gt.degree() {
			q, _, err := gt.divide(h)
			if err != nil {
				return nil, err
			}
			gt = q
		} else {
			gt = h
		}
	}

	if gt.degree() < 1 {
		return nil, ErrNoRoot
	}
	slog.Debug("gf2n: random root found", "degree", n, "basis", field.Basis(), "attempts", attempts)

	// gt = g1*t + g0 has the root g0/g1
	inv, err := gt.coeff(1).Invert()
	if err != nil {
		return nil, err
	}
	return gt.coeff(0).Multiply(inv), nil
}
