package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(2, "Title")
	w.Table([]string{"a", "b"}, [][]string{{"x|y", "z"}})
	w.CodeBlock("sql", "SELECT 1\n")

	assert.Equal(t, "## Title\n\n| a | b |\n| --- | --- |\n| x\\|y | z |\n\n```sql\nSELECT 1\n```\n\n", string(w.Bytes()))
}

func TestInlineCode(t *testing.T) {
	assert.Equal(t, "`x`", InlineCode("x"))
	assert.Equal(t, "`` `orders` ``", InlineCode("`orders`"))
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "# a\ndorisql x", cleanExample("  # a\n  dorisql x\n"))
}

func TestGenerateDialectDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateDialectDocs(dir))

	content, err := os.ReadFile(filepath.Join(dir, "doris.md"))
	require.NoError(t, err)

	doc := string(content)
	assert.Contains(t, doc, generatedHeader)
	assert.Contains(t, doc, "| Extends | [mysql](/dialects/mysql) |")
	assert.Contains(t, doc, "TIMESTAMPDIFF(QUARTER, '1900-01-01', created_at)")
	assert.Contains(t, doc, "CONVERT_TZ(created_at, @@session.time_zone, '+08:00')")
	assert.Contains(t, doc, "pre_aggregations.orders_daily_sales")

	_, err = os.Stat(filepath.Join(dir, "mysql.md"))
	assert.NoError(t, err)
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	read := func(name string) string {
		t.Helper()
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(content)
	}

	index := read("index.md")
	assert.Contains(t, index, "[`render`](/cli/render)")
	assert.Contains(t, index, "[`render bucket`](/cli/render/bucket)")
	assert.Contains(t, index, "`DORISQL_TIMEZONE`")
	assert.Contains(t, index, "`DORISQL_TARGET__HOST`")
	assert.NotContains(t, index, "DORISQL_TARGET__OPTIONS`")
	assert.Contains(t, index, "`-o`, `--output`")

	render := read("render.md")
	assert.Contains(t, render, "dorisql render <subcommand> [options]")
	assert.Contains(t, render, "[`render table-name`](/cli/render/table-name)")
	assert.NotContains(t, render, "## Options")

	tableName := read(filepath.Join("render", "table-name.md"))
	assert.Contains(t, tableName, "dorisql render table-name <cube> <pre-aggregation>")
	assert.Contains(t, tableName, "| `--skip-schema` | bool | `false` |")
	assert.Contains(t, tableName, "## Global Options")
	assert.Contains(t, tableName, "See also [`render`](/cli/render).")

	_, err := os.Stat(filepath.Join(dir, "version.md"))
	assert.NoError(t, err)
}

func TestCollectPages(t *testing.T) {
	root := &cobra.Command{Use: "dorisql"}
	parent := &cobra.Command{Use: "render"}
	parent.AddCommand(
		&cobra.Command{Use: "quote <identifier>", Run: func(*cobra.Command, []string) {}},
		&cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}},
	)
	root.AddCommand(parent, &cobra.Command{Use: "version", Run: func(*cobra.Command, []string) {}})

	var got []string
	for _, p := range collectPages(root, nil) {
		got = append(got, p.file())
	}
	assert.Equal(t, []string{"render.md", filepath.Join("render", "quote.md"), "version.md"}, got)
}

func TestGenerateConfigDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateConfigDocs(dir))

	content, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "`pre_aggregations_schema`")
	assert.Contains(t, string(content), "`10s`")
}
