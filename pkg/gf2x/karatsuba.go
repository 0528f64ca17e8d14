package gf2x

// MultiplyClassic returns p*b by shift-and-add. The result has length
// 2*max(Len(), b.Len()), matching Multiply.
func (p *Poly) MultiplyClassic(b *Poly) *Poly {
	n := p.len
	if b.len > n {
		n = b.len
	}
	r := New(n << 1)
	for i := 0; i < b.len; i++ {
		if b.value[i>>5]>>uint(i&31)&1 != 0 {
			xorShifted(r.value, p.value, i)
		}
	}
	return r
}

// Multiply returns p*b using recursive Karatsuba multiplication. Operands
// are padded to a common length n; the result has length 2n.
func (p *Poly) Multiply(b *Poly) *Poly {
	n := p.len
	if b.len > n {
		n = b.len
	}
	words := wordsFor(n)
	x := make([]uint32, words)
	y := make([]uint32, words)
	copy(x, p.value)
	copy(y, b.value)

	r := New(n << 1)
	copy(r.value, karaMult(x, y))
	return r
}

// karaMult multiplies two equal-length word slices and returns 2*len words.
// Up to 512 bits a fixed-size kernel is used; above that the operands are
// split at the largest power-of-two word boundary.
func karaMult(a, b []uint32) []uint32 {
	w := len(a)
	switch {
	case w == 1:
		lo, hi := mul32(a[0], b[0])
		return []uint32{lo, hi}
	case w <= 2:
		var x, y [2]uint32
		copy(x[:], a)
		copy(y[:], b)
		r := mul64(&x, &y)
		return r[:2*w]
	case w <= 4:
		var x, y [4]uint32
		copy(x[:], a)
		copy(y[:], b)
		r := mul128(&x, &y)
		return r[:2*w]
	case w <= 8:
		var x, y [8]uint32
		copy(x[:], a)
		copy(y[:], b)
		r := mul256(&x, &y)
		return r[:2*w]
	case w <= 16:
		var x, y [16]uint32
		copy(x[:], a)
		copy(y[:], b)
		r := mul512(&x, &y)
		return r[:2*w]
	}

	h := 16
	for h<<1 < w {
		h <<= 1
	}

	a0, a1 := a[:h], a[h:]
	b0, b1 := b[:h], b[h:]

	c := karaMult(a1, b1)
	e := karaMult(a0, b0)

	sa := make([]uint32, h)
	sb := make([]uint32, h)
	copy(sa, a0)
	copy(sb, b0)
	for i := range a1 {
		sa[i] ^= a1[i]
		sb[i] ^= b1[i]
	}
	d := karaMult(sa, sb)

	// ab = c*x^(2k) + (d + c + e)*x^k + e, k = 32h bits
	for i := range d {
		d[i] ^= e[i]
		if i < len(c) {
			d[i] ^= c[i]
		}
	}

	r := make([]uint32, 2*w)
	copy(r, e)
	for i, v := range d {
		if i+h < len(r) {
			r[i+h] ^= v
		}
	}
	for i, v := range c {
		r[i+2*h] ^= v
	}
	return r
}

// mul32 is the carry-less 32x32 -> 64 bit product.
func mul32(a, b uint32) (lo, hi uint32) {
	x := uint64(a)
	var r uint64
	for i := uint(0); i < 32; i++ {
		mask := -(uint64(b>>i) & 1)
		r ^= (x << i) & mask
	}
	return uint32(r), uint32(r >> 32)
}

func mul64(a, b *[2]uint32) (r [4]uint32) {
	c0l, c0h := mul32(a[0], b[0])
	c2l, c2h := mul32(a[1], b[1])
	c1l, c1h := mul32(a[0]^a[1], b[0]^b[1])
	c1l ^= c0l ^ c2l
	c1h ^= c0h ^ c2h

	r[0] = c0l
	r[1] = c0h ^ c1l
	r[2] = c2l ^ c1h
	r[3] = c2h
	return r
}

func mul128(a, b *[4]uint32) (r [8]uint32) {
	var a0, a1, b0, b1, sa, sb [2]uint32
	copy(a0[:], a[:2])
	copy(a1[:], a[2:])
	copy(b0[:], b[:2])
	copy(b1[:], b[2:])
	for i := 0; i < 2; i++ {
		sa[i] = a0[i] ^ a1[i]
		sb[i] = b0[i] ^ b1[i]
	}

	lo := mul64(&a0, &b0)
	hi := mul64(&a1, &b1)
	mid := mul64(&sa, &sb)
	for i := 0; i < 4; i++ {
		mid[i] ^= lo[i] ^ hi[i]
	}

	for i := 0; i < 4; i++ {
		r[i] ^= lo[i]
		r[i+2] ^= mid[i]
		r[i+4] ^= hi[i]
	}
	return r
}

func mul256(a, b *[8]uint32) (r [16]uint32) {
	var a0, a1, b0, b1, sa, sb [4]uint32
	copy(a0[:], a[:4])
	copy(a1[:], a[4:])
	copy(b0[:], b[:4])
	copy(b1[:], b[4:])
	for i := 0; i < 4; i++ {
		sa[i] = a0[i] ^ a1[i]
		sb[i] = b0[i] ^ b1[i]
	}

	lo := mul128(&a0, &b0)
	hi := mul128(&a1, &b1)
	mid := mul128(&sa, &sb)
	for i := 0; i < 8; i++ {
		mid[i] ^= lo[i] ^ hi[i]
	}

	for i := 0; i < 8; i++ {
		r[i] ^= lo[i]
		r[i+4] ^= mid[i]
		r[i+8] ^= hi[i]
	}
	return r
}

func mul512(a, b *[16]uint32) (r [32]uint32) {
	var a0, a1, b0, b1, sa, sb [8]uint32
	copy(a0[:], a[:8])
	copy(a1[:], a[8:])
	copy(b0[:], b[:8])
	copy(b1[:], b[8:])
	for i := 0; i < 8; i++ {
		sa[i] = a0[i] ^ a1[i]
		sb[i] = b0[i] ^ b1[i]
	}

	lo := mul256(&a0, &b0)
	hi := mul256(&a1, &b1)
	mid := mul256(&sa, &sb)
	for i := 0; i < 16; i++ {
		mid[i] ^= lo[i] ^ hi[i]
	}

	for i := 0; i < 16; i++ {
		r[i] ^= lo[i]
		r[i+8] ^= mid[i]
		r[i+16] ^= hi[i]
	}
	return r
}
