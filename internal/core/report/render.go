package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/invopop/jsonschema"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"
)

const messageWidth = 96

// Formats lists the accepted output formats
var Formats = []string{"text", "json", "yaml"}

// IsValidFormat checks if the format is one of the allowed values
func IsValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Write renders the report in the given format
func Write(w io.Writer, r *Report, format string) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, Text(r))
		return err
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid format %q: must be one of %v", format, Formats)
	}
}

// Text renders the report for a terminal
func Text(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render("Story Spoiler conformance:"), r.BaseURL)

	for _, e := range r.Scenarios {
		mark, style := outcomeMark(e.Outcome)
		line := fmt.Sprintf("%s %d. %s", style.Render(mark), e.Order, e.Name)
		if e.Method != "" {
			line += subtleStyle.Render(fmt.Sprintf("  %s %d  %dms", e.Method, e.StatusCode, e.DurationMS))
		}
		b.WriteString(line + "\n")

		if e.Message != "" && e.Outcome != "pass" {
			msg := wordwrap.String(e.Message, messageWidth)
			b.WriteString(indent.String(msg, 5) + "\n")
		}
	}

	s := r.Summary
	summary := fmt.Sprintf("%d scenarios: %d passed, %d failed, %d errors, %d skipped (%dms)",
		s.Total, s.Passed, s.Failed, s.Errored, s.Skipped, r.DurationMS)
	style := passStyle
	if !s.OK {
		style = failStyle
	}
	fmt.Fprintf(&b, "\n%s\n", style.Render(summary))

	return b.String()
}

func outcomeMark(outcome string) (string, lipgloss.Style) {
	switch outcome {
	case "pass":
		return "✓", passStyle
	case "fail":
		return "✗", failStyle
	case "error":
		return "!", errorStyle
	default:
		return "-", skipStyle
	}
}

// Schema returns the JSON Schema of the json report format
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{}
	schema := reflector.Reflect(&Report{})
	return json.MarshalIndent(schema, "", "  ")
}
