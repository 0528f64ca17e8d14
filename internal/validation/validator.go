package validation

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	// MinSmallFieldDegree excludes GF(2^1), which is GF(2) itself.
	MinSmallFieldDegree = 2
	// MaxSmallFieldDegree bounds GF(2^m) fields held in machine words.
	MaxSmallFieldDegree = 31
	// MaxExtensionDegree bounds GF(2^n) fields built by the CLI.
	MaxExtensionDegree = 4096
	// MaxMatrixSize bounds square matrices and permutations built by the CLI.
	MaxMatrixSize = 1 << 14
	MaxSeedLength = 256
)

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

func ValidateHex(input string) error {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if len(input)%2 != 0 {
		return fmt.Errorf("hex string must have even length")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

// ParsePolynomial reads a GF(2) polynomial written as a hexadecimal
// integer, bit i being the coefficient of x^i. An optional 0x prefix and
// odd length are accepted.
func ParsePolynomial(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	if input == "" {
		return nil, fmt.Errorf("polynomial cannot be empty")
	}
	if !hexPattern.MatchString(input) {
		return nil, fmt.Errorf("invalid hex characters in polynomial %q", input)
	}
	v, ok := new(big.Int).SetString(input, 16)
	if !ok {
		return nil, fmt.Errorf("invalid polynomial %q", input)
	}
	if v.Sign() == 0 {
		return nil, fmt.Errorf("polynomial cannot be zero")
	}
	return v, nil
}

func ValidateSmallFieldDegree(m int) error {
	if m < MinSmallFieldDegree || m > MaxSmallFieldDegree {
		return fmt.Errorf("field degree must be between %d and %d (got %d)", MinSmallFieldDegree, MaxSmallFieldDegree, m)
	}
	return nil
}

func ValidateExtensionDegree(n int) error {
	if n < 2 || n > MaxExtensionDegree {
		return fmt.Errorf("extension degree must be between 2 and %d (got %d)", MaxExtensionDegree, n)
	}
	return nil
}

// ValidateGoppaParams checks a Goppa code over GF(2^m) with an error
// correcting capability t: the code length 2^m must exceed the m*t
// redundancy so the code has positive dimension.
func ValidateGoppaParams(m, t int) error {
	if m < 2 || m > 16 {
		return fmt.Errorf("goppa field degree must be between 2 and 16 (got %d)", m)
	}
	if t < 1 {
		return fmt.Errorf("goppa polynomial degree must be positive (got %d)", t)
	}
	if n := 1 << uint(m); m*t >= n {
		return fmt.Errorf("m*t = %d leaves no information bits for code length %d", m*t, n)
	}
	return nil
}

func ValidateMatrixSize(n int) error {
	if n < 1 || n > MaxMatrixSize {
		return fmt.Errorf("size must be between 1 and %d (got %d)", MaxMatrixSize, n)
	}
	return nil
}

// ValidateSeed checks a deterministic seed. The empty seed means "use the
// system random source" and is accepted.
func ValidateSeed(seed string) error {
	if len(seed) > MaxSeedLength {
		return fmt.Errorf("seed too long (max %d bytes)", MaxSeedLength)
	}

	for i, ch := range seed {
		if ch == 0 {
			return fmt.Errorf("seed contains null character at position %d", i)
		}
	}

	return nil
}

func ValidateBasis(basis string) error {
	switch basis {
	case "polynomial", "normal":
		return nil
	default:
		return fmt.Errorf("basis must be polynomial or normal (got %q)", basis)
	}
}

func ValidateEncoding(encoding string) error {
	switch encoding {
	case "hex", "base64":
		return nil
	default:
		return fmt.Errorf("encoding must be hex or base64 (got %q)", encoding)
	}
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}
