package password

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(rand.NewSource(42))

	tests := []struct {
		name    string
		minLen  int
		letters string
	}{
		{name: "", minLen: MinLength},
		{name: "al", minLen: MinLength, letters: "al"},
		{name: "Fatuma", minLen: 9, letters: "fatuma"},
		{name: "fatuma abdi", minLen: 13, letters: "fatumaabdi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				pwd := gen.Generate(tt.name)
				runes := []rune(pwd)
				if len(runes) < tt.minLen {
					t.Fatalf("Generate(%q) = %q, too short", tt.name, pwd)
				}

				var hasUpper, hasDigit, hasSymbol bool
				for _, r := range runes {
					switch {
					case unicode.IsUpper(r):
						hasUpper = true
					case unicode.IsDigit(r):
						hasDigit = true
					case strings.ContainsRune(symbols, r):
						hasSymbol = true
					}
				}
				assert.True(t, hasUpper, pwd)
				assert.True(t, hasDigit, pwd)
				assert.True(t, hasSymbol, pwd)
				assert.NotContains(t, pwd, " ")
				if tt.letters != "" {
					assert.Contains(t, strings.ToLower(pwd), tt.letters)
				}
			}
		})
	}
}

func TestNewGenerator_cryptoSource(t *testing.T) {
	var src cryptoSource
	seen := map[int64]bool{}
	for i := 0; i < 100; i++ {
		n := src.Int63()
		assert.GreaterOrEqual(t, n, int64(0))
		seen[n] = true
	}
	assert.Greater(t, len(seen), 1)

	gen := NewGenerator(nil)
	for _, pwd := range gen.Suggest("fatuma", 20) {
		assert.GreaterOrEqual(t, len([]rune(pwd)), 9, pwd)
		assert.Contains(t, strings.ToLower(pwd), "fatuma")
	}
}

func TestGenerator_Suggest(t *testing.T) {
	gen := NewGenerator(rand.NewSource(1))
	assert.Len(t, gen.Suggest("erick", 10), 10)
	assert.Empty(t, gen.Suggest("erick", 0))
}

func TestCasing(t *testing.T) {
	assert.Equal(t, "Fatuma", capitalize("fATUMA"))
	assert.Equal(t, "fAtUmA", alternate("FATUMA"))
	assert.Equal(t, "", capitalize(""))
}
