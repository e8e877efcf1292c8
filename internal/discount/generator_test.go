package discount

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGenerator_Generate(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]+$`)

	for _, length := range []int{4, 8, 12} {
		gen := NewRandomGenerator(length)
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, length)
		assert.Regexp(t, pattern, code)
	}
}

func TestRandomGenerator_Distinct(t *testing.T) {
	gen := NewRandomGenerator(8)
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}

	// 36^8 codes; a collision in 1000 draws would indicate a broken source
	assert.Len(t, seen, 1000)
}
