package crypto

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Character classes, concatenated in this order when several are enabled.
const (
	NumberChars = "0123456789"
	LetterChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	SymbolChars = `!@#$%^&*()_-+={}[]|:;"<>,.?/`

	DefaultLength = 8
)

var (
	ErrNoCharacterClassSelected = errors.New("please select at least one character type")
	ErrInvalidLength            = errors.New("password length must be a non-negative integer")
)

// GeneratorOptions configures the password generator.
type GeneratorOptions struct {
	Length  int
	Numbers bool
	Letters bool
	Symbols bool
}

// DefaultOptions returns 8 characters with every class enabled.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:  DefaultLength,
		Numbers: true,
		Letters: true,
		Symbols: true,
	}
}

// Charset returns the enabled classes joined as numbers, letters, symbols.
func (o GeneratorOptions) Charset() string {
	var sb strings.Builder
	if o.Numbers {
		sb.WriteString(NumberChars)
	}
	if o.Letters {
		sb.WriteString(LetterChars)
	}
	if o.Symbols {
		sb.WriteString(SymbolChars)
	}
	return sb.String()
}

// Source yields uniform values in [0, 1). *rand.Rand from math/rand/v2
// satisfies it, which makes seeded generation reproducible in tests.
type Source interface {
	Float64() float64
}

// globalSource draws from the auto-seeded math/rand/v2 generator, which is
// safe for concurrent use. It is not cryptographically secure.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Generate creates a random password using the process-wide source.
func Generate(opts GeneratorOptions) (string, error) {
	return GenerateWith(globalSource{}, opts)
}

// GenerateWith creates a password of exactly opts.Length characters, each
// drawn independently from the combined charset. An empty charset is
// reported before the length is looked at.
func GenerateWith(src Source, opts GeneratorOptions) (string, error) {
	charset := opts.Charset()
	if charset == "" {
		return "", ErrNoCharacterClassSelected
	}

	if opts.Length < 0 {
		return "", ErrInvalidLength
	}

	var sb strings.Builder
	sb.Grow(opts.Length)
	for i := 0; i < opts.Length; i++ {
		sb.WriteByte(charset[pickIndex(src, len(charset))])
	}

	return sb.String(), nil
}

// pickIndex maps a [0, 1) sample onto [0, n).
func pickIndex(src Source, n int) int {
	idx := int(src.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// ParseLength converts user-typed text into a length. Non-numeric and
// negative input is rejected rather than clamped.
func ParseLength(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, ErrInvalidLength
	}
	return n, nil
}
