// Package source loads input text from files or standard input.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// ReadText returns the contents of path, or of stdin when path is empty or "-".
func ReadText(path string, stdin io.Reader) (string, error) {
	if path == "" || path == StdinName {
		return readAll(stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return readAll(file)
}

// Label returns a short name for the input used in history records.
func Label(path string) string {
	if path == "" || path == StdinName {
		return "<stdin>"
	}
	return path
}

// ArgPath returns the optional positional input path.
func ArgPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Preview returns text with whitespace runs collapsed, cut to at most n
// display columns. Cuts fall between characters and end with "...".
func Preview(text string, n int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if n <= 0 || runewidth.StringWidth(collapsed) <= n {
		return collapsed
	}
	if n <= 3 {
		return runewidth.Truncate(collapsed, n, "")
	}
	return runewidth.Truncate(collapsed, n, "...")
}

func readAll(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("no input reader")
	}
	var b strings.Builder
	reader := bufio.NewReader(r)
	if _, err := io.Copy(&b, reader); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return b.String(), nil
}
