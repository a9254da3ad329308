package cipher

import (
	"fmt"
	"strings"
)

// Key is a Vigenère key: a non-empty sequence of lowercase letters where each
// letter is an additive shift (a=0 ... z=25).
type Key string

// ParseKey lowercases s and checks that it is a usable key.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return "", fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	for i := 0; i < len(s); i++ {
		if !IsLetter(s[i]) {
			return "", fmt.Errorf("%w: %q contains non-letter %q", ErrInvalidKey, s, s[i])
		}
	}
	return Key(strings.ToLower(s)), nil
}

// KeyFromShifts builds a key from per-position shift amounts.
func KeyFromShifts(shifts []int) Key {
	b := make([]byte, len(shifts))
	for i, s := range shifts {
		b[i] = LetterAt(s)
	}
	return Key(b)
}

// Len returns the key period.
func (k Key) Len() int {
	return len(k)
}

// Shift returns the shift applied at key position i, wrapping around the key.
// The zero Key shifts by 0 at every position.
func (k Key) Shift(i int) int {
	if len(k) == 0 {
		return 0
	}
	i %= len(k)
	if i < 0 {
		i += len(k)
	}
	return LetterIndex(k[i])
}

// Period returns the shortest key that repeats to form k, so "lionlion"
// yields "lion". Both encrypt every text identically.
func (k Key) Period() Key {
	n := len(k)
	for p := 1; p < n; p++ {
		if n%p != 0 {
			continue
		}
		if strings.Repeat(string(k[:p]), n/p) == string(k) {
			return k[:p]
		}
	}
	return k
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}

// Encrypt applies the key to the letters of text. Text and key are lowercased;
// non-letters are copied verbatim and do not advance the key position.
func Encrypt(text string, key Key) (string, error) {
	return vigenere(text, key, 1)
}

// Decrypt reverses Encrypt.
func Decrypt(text string, key Key) (string, error) {
	return vigenere(text, key, -1)
}

func vigenere(text string, key Key, direction int) (string, error) {
	key, err := ParseKey(string(key))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text))
	keyIndex := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !IsLetter(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte(LetterAt(LetterIndex(ch) + direction*key.Shift(keyIndex)))
		keyIndex++
	}
	return b.String(), nil
}
