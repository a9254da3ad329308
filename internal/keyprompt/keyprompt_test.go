package keyprompt

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestValidKey(t *testing.T) {
	if !ValidKey("Lemon") {
		t.Fatalf("expected Lemon to be accepted")
	}
	for _, key := range []string{"", "ab1", "two words", "naïve"} {
		if ValidKey(key) {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}

func TestEnterAcceptsLowercasedKey(t *testing.T) {
	m := NewModel("Enter key")
	m.input.SetValue("LeMon")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit command after valid key")
	}
	if m.Key() != "lemon" {
		t.Fatalf("expected lemon, got %q", m.Key())
	}
}

func TestEnterRejectsInvalidKey(t *testing.T) {
	m := NewModel("Enter key")
	m.input.SetValue("abc123")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Key() != "" {
		t.Fatalf("expected no key, got %q", m.Key())
	}
	if !strings.Contains(m.View(), "letters only!") {
		t.Fatalf("expected validation message in view:\n%s", m.View())
	}
}

func TestTypingAndCancel(t *testing.T) {
	m := NewModel("Enter key")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("key")})
	if m.input.Value() != "key" {
		t.Fatalf("expected typed value, got %q", m.input.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.Cancelled() {
		t.Fatalf("expected prompt to be cancelled")
	}
}
