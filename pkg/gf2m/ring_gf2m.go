package gf2m

import "fmt"

// Ring is GF(2^m)[x] / g with the linear maps for squaring and square
// roots precomputed. Column j of the squaring matrix is x^(2j) mod g;
// the square-root matrix is its inverse.
type Ring struct {
	field  *Field
	g      *Poly
	sq     []*Poly
	sqRoot []*Poly
}

// NewRing precomputes the squaring and square-root matrices modulo g.
// g must have positive degree.
func NewRing(field *Field, g *Poly) (*Ring, error) {
	if !field.Equal(g.field) {
		return nil, fmt.Errorf("gf2m: ring field %v does not match polynomial field %v", field, g.field)
	}
	if g.degree < 1 {
		return nil, fmt.Errorf("gf2m: ring modulus must have positive degree, got %d", g.degree)
	}
	r := &Ring{field: field, g: g.Clone()}
	r.computeSquaringMatrix()
	if err := r.computeSquareRootMatrix(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Ring) Modulus() *Poly {
	return r.g.Clone()
}

// SquaringMatrix returns copies of the deg(g) columns x^(2j) mod g.
func (r *Ring) SquaringMatrix() []*Poly {
	return clonePolys(r.sq)
}

// SquareRootMatrix returns copies of the columns of the inverse squaring
// matrix.
func (r *Ring) SquareRootMatrix() []*Poly {
	return clonePolys(r.sqRoot)
}

// Square returns p^2 mod g.
func (r *Ring) Square(p *Poly) (*Poly, error) {
	q, err := p.Mod(r.g)
	if err != nil {
		return nil, err
	}
	return q.ModSquareMatrix(r.sq), nil
}

// SquareRoot returns the square root of p mod g.
func (r *Ring) SquareRoot(p *Poly) (*Poly, error) {
	q, err := p.Mod(r.g)
	if err != nil {
		return nil, err
	}
	return q.ModSquareRootMatrix(r.sqRoot), nil
}

func (r *Ring) computeSquaringMatrix() {
	n := r.g.degree
	r.sq = make([]*Poly, n)
	for i := 0; i < n>>1; i++ {
		r.sq[i] = NewMonomial(r.field, i<<1)
	}
	for i := n >> 1; i < n; i++ {
		m := NewMonomial(r.field, i<<1)
		r.sq[i] = m.wrap(mod(r.field, m.coeffs, r.g.coeffs))
	}
}

// computeSquareRootMatrix inverts the squaring matrix by Gauss-Jordan
// elimination on columns, applying the same column operations to an
// identity matrix.
func (r *Ring) computeSquareRootMatrix() error {
	n := r.g.degree
	tmp := clonePolys(r.sq)
	r.sqRoot = make([]*Poly, n)
	for i := range r.sqRoot {
		r.sqRoot[i] = NewMonomial(r.field, i)
	}

	for i := 0; i < n; i++ {
		if tmp[i].Coefficient(i) == 0 {
			found := false
			for j := i + 1; j < n; j++ {
				if tmp[j].Coefficient(i) != 0 {
					tmp[i], tmp[j] = tmp[j], tmp[i]
					r.sqRoot[i], r.sqRoot[j] = r.sqRoot[j], r.sqRoot[i]
					found = true
					break
				}
			}
			if !found {
				return ErrSingularSquaring
			}
		}

		inv := r.field.inverse(tmp[i].Coefficient(i))
		tmp[i].MultThisWithElement(inv)
		r.sqRoot[i].MultThisWithElement(inv)

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			c := tmp[j].Coefficient(i)
			if c == 0 {
				continue
			}
			tmp[j].AddToThis(tmp[i].MultWithElement(c))
			r.sqRoot[j].AddToThis(r.sqRoot[i].MultWithElement(c))
		}
	}
	return nil
}

func clonePolys(ps []*Poly) []*Poly {
	out := make([]*Poly, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
