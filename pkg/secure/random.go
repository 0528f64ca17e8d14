package secure

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/sha3"
)

// Source is the randomness consumed by every random constructor in the
// algebra packages. Implementations panic if the underlying entropy
// source fails; there is no meaningful recovery for a key generator
// that cannot read randomness.
type Source interface {
	// Uint32 returns 32 uniformly random bits.
	Uint32() uint32
	// Intn returns a uniform integer in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Read fills p with random bytes.
	Read(p []byte) (int, error)
}

// ReaderSource adapts an io.Reader into a Source.
type ReaderSource struct {
	r   io.Reader
	mu  sync.Mutex
	buf [4]byte
}

// NewReaderSource wraps r. Reads are serialised so one source may be
// shared between goroutines.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// DefaultSource reads from crypto/rand.
func DefaultSource() *ReaderSource {
	return NewReaderSource(rand.Reader)
}

// NewSeededSource returns a deterministic source backed by a SHAKE256
// keystream over seed. The same seed always yields the same sequence,
// which makes key generation reproducible.
func NewSeededSource(seed []byte) *ReaderSource {
	h := sha3.NewShake256()
	h.Write([]byte("goppa/seeded-source/v1"))
	h.Write(seed)
	return NewReaderSource(h)
}

func (s *ReaderSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return io.ReadFull(s.r, p)
}

func (s *ReaderSource) Uint32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		panic(fmt.Sprintf("secure: entropy source failed: %v", err))
	}
	return binary.LittleEndian.Uint32(s.buf[:])
}

func (s *ReaderSource) Intn(n int) int {
	return Intn(s, n)
}

// Intn draws a uniform integer in [0, n) from src using rejection
// sampling over 31-bit candidates.
func Intn(src interface{ Uint32() uint32 }, n int) int {
	if n <= 0 {
		panic("secure: Intn argument must be positive")
	}
	if n > 1<<31-1 {
		panic("secure: Intn argument exceeds 31 bits")
	}

	// power of two: take the high bits
	if n&(n-1) == 0 {
		return int((uint64(n) * uint64(src.Uint32()>>1)) >> 31)
	}

	limit := uint32(1<<31) - uint32(1<<31)%uint32(n)
	for {
		bits := src.Uint32() >> 1
		if bits < limit {
			return int(bits % uint32(n))
		}
	}
}
