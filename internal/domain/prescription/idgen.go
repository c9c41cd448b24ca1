package prescription

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// DefaultIDPrefix is prepended to every generated prescription id.
const DefaultIDPrefix = "SNKTMOCH"

// idDigits is the number of zero-padded decimal digits after the prefix.
const idDigits = 8

var idSpace = big.NewInt(100_000_000)

// IDGenerator produces candidate identifiers. Uniqueness is checked by the
// repository at insert time, so a generator only needs to be well distributed.
type IDGenerator interface {
	NewID() (string, error)
}

// RandomIDGenerator draws ids as Prefix followed by 8 random decimal digits.
type RandomIDGenerator struct {
	Prefix string
	// Rand is the entropy source; crypto/rand.Reader when nil.
	Rand io.Reader
}

// NewRandomIDGenerator returns a generator for the given prefix.
func NewRandomIDGenerator(prefix string) *RandomIDGenerator {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &RandomIDGenerator{Prefix: prefix}
}

func (g *RandomIDGenerator) NewID() (string, error) {
	src := g.Rand
	if src == nil {
		src = rand.Reader
	}
	n, err := rand.Int(src, idSpace)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return fmt.Sprintf("%s%0*d", g.Prefix, idDigits, n.Int64()), nil
}

// ValidID reports whether id has the shape prefix + 8 digits.
func ValidID(id, prefix string) bool {
	if len(id) != len(prefix)+idDigits || id[:len(prefix)] != prefix {
		return false
	}
	for _, r := range id[len(prefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
