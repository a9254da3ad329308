// Package generator builds random keys and plaintext excerpts for demo runs.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/cryptan/internal/cipher"
)

// Generator produces randomized keys and excerpts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible output.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Key returns a random key of the given length.
func (g *Generator) Key(length int) cipher.Key {
	if length <= 0 {
		return ""
	}
	shifts := make([]int, length)
	for i := range shifts {
		shifts[i] = g.rnd.Intn(cipher.AlphabetSize)
	}
	return cipher.KeyFromShifts(shifts)
}

// KeyLength picks a key length uniformly in [minLength, maxLength].
func (g *Generator) KeyLength(minLength, maxLength int) int {
	if maxLength <= minLength {
		return minLength
	}
	return minLength + g.rnd.Intn(maxLength-minLength+1)
}

// Excerpt returns a run of whole words from text, starting at a random word,
// holding at least minLetters letters. It wraps to the start of text when it
// reaches the end, and returns all of text when text has fewer letters.
func (g *Generator) Excerpt(text string, minLetters int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if minLetters <= 0 || len(cipher.Normalize(text)) <= minLetters {
		return strings.Join(words, " ")
	}

	start := g.rnd.Intn(len(words))
	out := make([]string, 0, len(words))
	letters := 0
	for i := 0; i < len(words) && letters < minLetters; i++ {
		word := words[(start+i)%len(words)]
		out = append(out, word)
		letters += len(cipher.Normalize(word))
	}
	return strings.Join(out, " ")
}
