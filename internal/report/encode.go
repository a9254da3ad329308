package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/cryptan/internal/model"
)

// Output formats accepted by Write.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Write renders result in the requested format.
func Write(w io.Writer, format string, result model.Result, useColor bool) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		if err := RenderKeyLength(w, result.Report, useColor); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return RenderResult(w, result)
	case FormatMarkdown:
		return WriteMarkdown(w, result)
	case FormatJSON:
		return WriteJSON(w, result)
	case FormatYAML:
		return WriteYAML(w, result)
	default:
		return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteJSON writes result as indented JSON.
func WriteJSON(w io.Writer, result model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteYAML writes result as YAML.
func WriteYAML(w io.Writer, result model.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return err
	}
	return enc.Close()
}
