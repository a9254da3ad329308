package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/cryptan/internal/cipher"
	"github.com/verte-zerg/cryptan/internal/model"
)

var bestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)

// ShouldUseColor reports whether w is a terminal and NO_COLOR is unset.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// RenderFrequency prints letter occurrences and percentages, a to z.
func RenderFrequency(w io.Writer, report model.FrequencyReport) error {
	if report.Total == 0 {
		_, err := fmt.Fprintln(w, "No letters found.")
		return err
	}
	rows := make([][]string, 0, len(report.Letters))
	for _, l := range report.Letters {
		rows = append(rows, []string{
			l.Letter,
			strconv.Itoa(l.Count),
			fmt.Sprintf("%.3f", l.Percent),
		})
	}
	lines := formatTable([]string{"Letter", "Occurrences", "Percentage"}, rows, map[int]bool{1: true, 2: true})
	if err := writeLines(w, lines); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nText length: %d\n", report.Total)
	return err
}

// RenderKeyLength prints the per-length index of coincidence table and the
// chosen length. The best row is highlighted when useColor is set.
func RenderKeyLength(w io.Writer, report model.KeyLengthReport, useColor bool) error {
	if len(report.Lengths) == 0 {
		_, err := fmt.Fprintln(w, "No key lengths scored.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Key Length Analysis"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(report.Lengths))
	bestRow := -1
	for i, l := range report.Lengths {
		marker := ""
		if l.Length == report.BestLength {
			marker = "*"
			bestRow = i
		}
		rows = append(rows, []string{
			marker,
			strconv.Itoa(l.Length),
			fmt.Sprintf("%.6f", l.AverageIOC),
			fmt.Sprintf("%.6f", l.Score),
			formatClassIOC(l.ClassIOC),
		})
	}
	lines := formatTable([]string{"", "Length", "Avg IOC", "Score", "Class IOC"}, rows, map[int]bool{1: true, 2: true, 3: true})
	if useColor && bestRow >= 0 {
		// Two header lines precede the rows.
		lines[bestRow+2] = bestStyle.Render(lines[bestRow+2])
	}
	if err := writeLines(w, lines); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nMost probable key length: %d\n", report.BestLength)
	return err
}

// RenderClasses prints how each key letter was inferred.
func RenderClasses(w io.Writer, classes []model.ClassAnalysis) error {
	if len(classes) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Key Positions"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(classes))
	for _, c := range classes {
		share := ""
		for _, l := range c.Frequency.Letters {
			if l.Letter == c.MostFrequent {
				share = fmt.Sprintf("%d (%.2f%%)", l.Count, l.Percent)
				break
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(c.Index),
			strconv.Itoa(c.Frequency.Total),
			c.MostFrequent,
			share,
			strconv.Itoa(c.Shift),
			c.KeyLetter,
		})
	}
	lines := formatTable([]string{"Position", "Letters", "Top", "Top Count", "Shift", "Key"}, rows, map[int]bool{0: true, 1: true, 3: true, 4: true})
	return writeLines(w, lines)
}

// RenderCandidates prints runner-up keys for the best-scoring lengths.
func RenderCandidates(w io.Writer, candidates []model.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Candidate Keys"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(c.Length),
			fmt.Sprintf("%.6f", c.AverageIOC),
			fmt.Sprintf("%.6f", c.Score),
			c.Key,
		})
	}
	return writeLines(w, formatTable([]string{"Length", "Avg IOC", "Score", "Key"}, rows, map[int]bool{0: true, 1: true, 2: true}))
}

// RenderResult prints the recovered key and the decrypted text.
func RenderResult(w io.Writer, result model.Result) error {
	if _, err := fmt.Fprintf(w, "Key length: %d\nKey: %s\n\n", result.KeyLength, KeyLabel(result.Key)); err != nil {
		return err
	}
	if err := RenderCandidates(w, result.Candidates); err != nil {
		return err
	}
	if len(result.Candidates) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Decrypted text:"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(result.Plaintext, "\n"))
	return err
}

// KeyLabel names key and, when key is a shorter key repeated, that shorter key.
func KeyLabel(key string) string {
	period := cipher.Key(key).Period()
	if period.Len() == len(key) {
		return key
	}
	return fmt.Sprintf("%s (repeats %s)", key, period)
}

func formatClassIOC(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return strings.Join(parts, ", ")
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
