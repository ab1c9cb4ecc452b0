// Package password suggests easy to remember passwords built around a person's name.
package password

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strings"
	"unicode"
)

const (
	MinLength = 8

	digits    = "0123456789"
	uppers    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	symbols   = "&#!_@-$%=£"
	numCasing = 4
)

// Generator is not safe for concurrent use, its random source is not.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator draws from src, or from crypto/rand when src is nil.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = cryptoSource{}
	}
	return &Generator{rnd: rand.New(src)}
}

// cryptoSource is a rand.Source64 reading from crypto/rand. Seed is a no-op.
type cryptoSource struct{}

func (cryptoSource) Seed(int64) {}

func (s cryptoSource) Int63() int64 {
	return int64(s.Uint64() & (1<<63 - 1))
}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("password: reading crypto/rand: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Generate returns the name in a random casing mixed with one uppercase letter, one symbol & one digit.
// Short results are padded with digits up to MinLength.
func (g *Generator) Generate(name string) string {
	name = strings.Join(strings.Fields(name), "")

	parts := []string{
		g.casing(name),
		g.pick(uppers),
		g.pick(symbols),
		g.pick(digits),
	}

	if n := len([]rune(strings.Join(parts, ""))); n < MinLength {
		pad := []rune(digits)
		g.rnd.Shuffle(len(pad), func(i, j int) { pad[i], pad[j] = pad[j], pad[i] })
		for _, d := range pad[:MinLength-n] {
			parts = append(parts, string(d))
		}
	}

	g.rnd.Shuffle(len(parts), func(i, j int) { parts[i], parts[j] = parts[j], parts[i] })
	return strings.Join(parts, "")
}

// Suggest returns n passwords for the name.
func (g *Generator) Suggest(name string, n int) []string {
	pwds := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pwds = append(pwds, g.Generate(name))
	}
	return pwds
}

func (g *Generator) pick(chars string) string {
	runes := []rune(chars)
	return string(runes[g.rnd.Intn(len(runes))])
}

func (g *Generator) casing(name string) string {
	switch g.rnd.Intn(numCasing) {
	case 0:
		return strings.ToUpper(name)
	case 1:
		return strings.ToLower(name)
	case 2:
		return capitalize(name)
	default:
		return alternate(name)
	}
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// alternate lowers even positions and uppers odd ones: "fatuma" -> "fAtUmA".
func alternate(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if i%2 != 0 {
			runes[i] = unicode.ToUpper(r)
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}
