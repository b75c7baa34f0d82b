package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/dorisql/internal/cli"
	"github.com/leapstack-labs/dorisql/internal/cli/config"
)

// cliPage is one documented command. Subcommands live in a directory named
// after their parent, so `render bucket` is written to render/bucket.md.
type cliPage struct {
	cmd  *cobra.Command
	path []string
}

func (p cliPage) title() string { return strings.Join(p.path, " ") }
func (p cliPage) file() string { return filepath.Join(p.path...) + ".md" }
func (p cliPage) link() string { return "/cli/" + strings.Join(p.path, "/") }

// collectPages walks the command tree depth first, parents before children.
func collectPages(cmd *cobra.Command, path []string) []cliPage {
	var pages []cliPage
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		p := cliPage{cmd: c, path: append(slices.Clone(path), c.Name())}
		pages = append(pages, p)
		pages = append(pages, collectPages(c, p.path)...)
	}
	return pages
}

// generateCLIDocs writes index.md plus one page per available command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	root := cli.NewRootCmd()
	pages := collectPages(root, nil)

	if err := writePage(outDir, "index.md", cliIndex(root, pages)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, p := range pages {
		if err := writePage(outDir, p.file(), commandPage(p)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", p.title(), err)
		}
		log.Printf("  Generated %s", p.file())
	}
	return nil
}

func writePage(outDir, name string, content []byte) error {
	filename := filepath.Join(outDir, name)
	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(filename, content, 0600)
}

func cliIndex(root *cobra.Command, pages []cliPage) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for dorisql")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(root.Long))

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/dorisql/cmd/dorisql@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, p := range pages {
		rows = append(rows, []string{pageLink(p), cleanDescription(p.cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	writeFlagSection(w, "Global Options", root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Every `dorisql.yaml` key can be set from the environment, upper-cased with the `" + config.EnvPrefix +
		"` prefix. A double underscore descends into a section, as in `" + config.EnvPrefix + "TARGET__OPTIONS__TLS`. " +
		"A `.env` file in the project root is read first.")
	w.Table([]string{"Variable", "Description"}, envVarRows())
	w.Paragraph("Flags win over environment variables, which win over the selected environment block, " +
		"which wins over the rest of `dorisql.yaml`.")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, or a failed `verify` check (details on stderr)"},
	})

	return w.Bytes()
}

// envVarRows derives the variable names from the configuration schema.
func envVarRows() [][]string {
	var rows [][]string
	for _, f := range getConfigSchema() {
		if strings.HasPrefix(f.Type, "map") {
			continue
		}
		key := strings.ToUpper(f.Name)
		if f.Category == "target" {
			key = "TARGET__" + key
		}
		rows = append(rows, []string{InlineCode(config.EnvPrefix + key), f.Description})
	}
	return rows
}

func commandPage(p cliPage) []byte {
	cmd := p.cmd

	w := NewMarkdownWriter()
	w.Frontmatter(p.title(), cleanDescription(cmd.Short))
	w.GeneratedMarker()

	w.Header(1, p.title())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	if cmd.HasAvailableSubCommands() {
		w.CodeBlock("bash", cmd.CommandPath()+" <subcommand> [options]")
	} else {
		w.CodeBlock("bash", cmd.UseLine())
	}

	if len(cmd.Aliases) > 0 {
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.Paragraph("Aliases: " + strings.Join(aliases, ", "))
	}

	if children := collectPages(cmd, p.path); len(children) > 0 {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, c := range children {
			rows = append(rows, []string{pageLink(c), InlineCode(c.cmd.UseLine()), cleanDescription(c.cmd.Short)})
		}
		w.Table([]string{"Subcommand", "Usage", "Description"}, rows)
	}

	writeFlagSection(w, "Options", cmd.LocalNonPersistentFlags())
	writeFlagSection(w, "Global Options", cmd.InheritedFlags())

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	if len(p.path) > 1 {
		parent := cliPage{cmd: cmd.Parent(), path: p.path[:len(p.path)-1]}
		w.Paragraph("See also " + pageLink(parent) + ".")
	}

	return w.Bytes()
}

func pageLink(p cliPage) string {
	return "[" + InlineCode(p.title()) + "](" + p.link() + ")"
}

// writeFlagSection renders the visible flags of fs under a level two header.
// Nothing is written when fs has none.
func writeFlagSection(w *MarkdownWriter, title string, fs *pflag.FlagSet) {
	if !fs.HasAvailableFlags() {
		return
	}

	var rows [][]string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := "-"
		if f.DefValue != "" && f.DefValue != "0" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{name, f.Value.Type(), def, cleanDescription(f.Usage)})
	})

	w.Header(2, title)
	w.Table([]string{"Flag", "Type", "Default", "Description"}, rows)
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")

	indent, seen := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !seen {
			indent, seen = lead, true
			continue
		}
		for !strings.HasPrefix(lead, indent) {
			indent = indent[:len(indent)-1]
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
