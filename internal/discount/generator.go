package discount

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator produces candidate discount code strings.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomGenerator draws fixed-length upper-case alphanumeric codes from crypto/rand.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a generator for codes of the given length.
func NewRandomGenerator(length int) *RandomGenerator {
	return &RandomGenerator{length: length}
}

// Generate returns a new random code.
func (g *RandomGenerator) Generate() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
