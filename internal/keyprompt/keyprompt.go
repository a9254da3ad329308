// Package keyprompt asks the user for a Vigenère key in a small Bubble Tea form.
package keyprompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cryptan/internal/cipher"
)

// ErrCancelled is returned when the user leaves the prompt without a key.
var ErrCancelled = errors.New("key entry cancelled")

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the key entry form.
type Model struct {
	title     string
	input     textinput.Model
	key       cipher.Key
	errMsg    string
	cancelled bool
}

// NewModel constructs a focused key prompt.
func NewModel(title string) *Model {
	ti := textinput.New()
	ti.Placeholder = "letters only"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.Focus()
	return &Model{title: title, input: ti}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if !ValidKey(value) {
				m.errMsg = "Please enter letters only!"
				return m, nil
			}
			m.key = cipher.Key(strings.ToLower(value))
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("enter to confirm, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// Key returns the accepted key, or "" when none was accepted.
func (m *Model) Key() cipher.Key {
	return m.key
}

// Cancelled reports whether the user left the prompt.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// ValidKey reports whether s is a non-empty run of ASCII letters.
func ValidKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !cipher.IsLetter(s[i]) {
			return false
		}
	}
	return true
}

// Prompt runs the form on the given terminal streams and returns the key.
func Prompt(title string, in io.Reader, out io.Writer) (cipher.Key, error) {
	m := NewModel(title)
	program := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run key prompt: %w", err)
	}
	done, ok := final.(*Model)
	if !ok || done.Cancelled() || done.Key() == "" {
		return "", ErrCancelled
	}
	return done.Key(), nil
}
