package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/cryptan/internal/analysis"
	"github.com/verte-zerg/cryptan/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	barChar             = "#"
	targetChar          = "|"
	minBarWidth         = 10
	terminalWidthBackup = 80
)

// RenderIOCBars draws one horizontal bar per tried length, scaled so the
// English reference value is marked with '|'. width <= 0 uses the terminal width.
func RenderIOCBars(w io.Writer, report model.KeyLengthReport, width int, useColor bool) error {
	if len(report.Lengths) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	labelWidth := len(fmt.Sprintf("%d", report.Lengths[len(report.Lengths)-1].Length))
	// label + " | " + bar + " " + value
	barWidth := width - labelWidth - 3 - 9
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	scale := analysis.EnglishIOC
	for _, l := range report.Lengths {
		scale = math.Max(scale, l.AverageIOC)
	}
	target := int(math.Round(analysis.EnglishIOC / scale * float64(barWidth-1)))

	if _, err := fmt.Fprintf(w, "Average IOC by key length (%s = English %.3f)\n", targetChar, analysis.EnglishIOC); err != nil {
		return err
	}
	for _, l := range report.Lengths {
		filled := int(math.Round(l.AverageIOC / scale * float64(barWidth)))
		var bar strings.Builder
		for x := 0; x < barWidth; x++ {
			switch {
			case x == target:
				bar.WriteString(targetChar)
			case x < filled:
				bar.WriteString(barChar)
			default:
				bar.WriteByte(' ')
			}
		}
		line := fmt.Sprintf("%*d | %s %.4f", labelWidth, l.Length, bar.String(), l.AverageIOC)
		if useColor && l.Length == report.BestLength {
			line = bestStyle.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
