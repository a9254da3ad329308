// Package cipher implements Caesar and Vigenère substitution over the
// 26-letter lowercase alphabet, plus letter frequency counting.
package cipher

import "strings"

// AlphabetSize is the number of letters the ciphers operate on.
const AlphabetSize = 26

// IsLetter reports whether b is an ASCII letter.
func IsLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// Normalize drops every byte that is not an ASCII letter and lowercases the rest.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if ch := text[i]; IsLetter(ch) {
			b.WriteByte(lower(ch))
		}
	}
	return b.String()
}

// LetterIndex returns the alphabet position of a letter (a=0 ... z=25).
// The result is only meaningful when IsLetter(b) is true.
func LetterIndex(b byte) int {
	return int(lower(b) - 'a')
}

// LetterAt returns the lowercase letter at alphabet position n, reduced mod 26.
func LetterAt(n int) byte {
	return byte(wrap(n)) + 'a'
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func wrap(n int) int {
	return ((n % AlphabetSize) + AlphabetSize) % AlphabetSize
}
