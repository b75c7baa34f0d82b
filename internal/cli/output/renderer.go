package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether w is a terminal.
func NewRenderer(w, errW io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(w, errW, IsTerminal(w), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		w:      w,
		errW:   errW,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(lipgloss.NewRenderer(w)),
	}
}

// Writer returns the underlying stdout writer.
func (r *Renderer) Writer() io.Writer { return r.w }

// Styles returns the text-mode styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// EffectiveMode resolves auto to text on a terminal and markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Header writes a section title.
func (r *Renderer) Header(title string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("## %s\n\n", title)
		return
	}
	r.Println(r.styles.Header.Render(title))
}

// StatusLine writes one check result: a mark, a name and a detail.
func (r *Renderer) StatusLine(name string, ok bool, detail string) {
	if r.EffectiveMode() == ModeMarkdown {
		mark := "PASS"
		if !ok {
			mark = "FAIL"
		}
		r.Printf("- **%s** %s: %s\n", mark, name, detail)
		return
	}

	mark := r.styles.StatusSuccess.Render("✓")
	if !ok {
		mark = r.styles.StatusFailed.Render("✗")
	}
	r.Printf("%s %s %s\n", mark, r.styles.Bold.Render(name), r.styles.Muted.Render(detail))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(msg))
}

// Warning writes a warning to stderr.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Warning.Render(msg))
}

// Error writes an error message to stderr.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Error.Render(msg))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Table writes rows under headers in the effective mode. JSON and YAML
// emit one object per row keyed by header.
func (r *Renderer) Table(headers []string, rows [][]string) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(rowObjects(headers, rows))
	case ModeYAML:
		return r.YAML(rowObjects(headers, rows))
	case ModeCSV:
		cw := csv.NewWriter(r.w)
		if err := cw.Write(headers); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	case ModeMarkdown:
		r.markdownTable(headers, rows)
		return nil
	default:
		r.textTable(headers, rows)
		return nil
	}
}

func (r *Renderer) textTable(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}
	t.Render()
}

func (r *Renderer) markdownTable(headers []string, rows [][]string) {
	r.Printf("| %s |\n", strings.Join(headers, " | "))
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	r.Printf("| %s |\n", strings.Join(seps, " | "))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strings.ReplaceAll(v, "|", `\|`)
		}
		r.Printf("| %s |\n", strings.Join(cells, " | "))
	}
}

func rowObjects(headers []string, rows [][]string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}
