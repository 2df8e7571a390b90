package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/ru-menu/internal/menu"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// SectionResult is one meal in JSON output
type SectionResult struct {
	Meal    string       `json:"meal"`
	Entries []menu.Entry `json:"entries"`
	Empty   bool         `json:"empty"`
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time       `json:"checked_at"`
	Date      string          `json:"date"`
	Meal      string          `json:"meal"`
	Text      string          `json:"text"`
	Sections  []SectionResult `json:"sections,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func sectionResult(pm *menu.ParsedMenu, m menu.Meal) SectionResult {
	entries := pm.Section(m)
	if entries == nil {
		entries = []menu.Entry{}
	}
	return SectionResult{Meal: m.Label(), Entries: entries, Empty: pm.Empty(m)}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the Markdown text exactly as it would be sent
func writeText(w io.Writer, result *OutputResult) error {
	_, err := fmt.Fprintln(w, strings.TrimLeft(result.Text, "\n"))
	return err
}
