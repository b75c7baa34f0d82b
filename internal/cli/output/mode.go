// Package output renders CLI results as styled text, markdown, JSON, YAML
// or CSV depending on the selected mode and whether stdout is a terminal.
package output

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects how results are written.
type OutputMode string //nolint:revive // output.OutputMode reads fine at call sites

// Output modes.
const (
	ModeAuto     OutputMode = "auto" // TTY=text, non-TTY=markdown
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
	ModeCSV      OutputMode = "csv"
)

// Modes lists the accepted --output values.
var Modes = []string{"auto", "text", "table", "markdown", "md", "json", "yaml", "csv"}

// Mode parses an --output value. Unknown values mean auto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "table":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	case "csv":
		return ModeCSV
	default:
		return ModeAuto
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
