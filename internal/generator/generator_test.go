package generator

import (
	"strings"
	"testing"

	"github.com/verte-zerg/cryptan/internal/cipher"
)

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a := NewSeeded(7)
	b := NewSeeded(7)
	for i := 0; i < 5; i++ {
		ka, kb := a.Key(6), b.Key(6)
		if ka != kb {
			t.Fatalf("expected identical keys, got %q and %q", ka, kb)
		}
		if _, err := cipher.ParseKey(ka.String()); err != nil {
			t.Fatalf("generated invalid key %q: %v", ka, err)
		}
		if ka.Len() != 6 {
			t.Fatalf("expected key length 6, got %d", ka.Len())
		}
	}
}

func TestKeyLengthWithinRange(t *testing.T) {
	g := NewSeeded(1)
	for i := 0; i < 100; i++ {
		n := g.KeyLength(3, 8)
		if n < 3 || n > 8 {
			t.Fatalf("length %d out of range", n)
		}
	}
	if g.KeyLength(4, 4) != 4 {
		t.Fatalf("expected fixed length for collapsed range")
	}
}

func TestExcerpt(t *testing.T) {
	g := NewSeeded(3)
	text := strings.Repeat("alpha beta gamma delta ", 50)
	got := g.Excerpt(text, 40)
	if n := len(cipher.Normalize(got)); n < 40 {
		t.Fatalf("expected at least 40 letters, got %d", n)
	}
	if all := g.Excerpt("short text", 100); all != "short text" {
		t.Fatalf("expected whole text, got %q", all)
	}
	if g.Excerpt("   ", 10) != "" {
		t.Fatalf("expected empty excerpt for blank text")
	}
}
