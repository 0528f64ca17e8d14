package secure

import (
	"crypto/subtle"
	"runtime"
)

func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroWords clears packed GF(2) rows and polynomial words.
func ZeroWords(w []uint32) {
	for i := range w {
		w[i] = 0
	}
	runtime.KeepAlive(w)
}

// ZeroInts clears permutation vectors and GF(2^m) cells.
func ZeroInts(v []int) {
	for i := range v {
		v[i] = 0
	}
	runtime.KeepAlive(v)
}

func ConstantTimeCompare(x, y []byte) bool {
	if len(x) != len(y) {
		return false
	}
	return subtle.ConstantTimeCompare(x, y) == 1
}
