package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"

	_ "github.com/leapstack-labs/dorisql/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/dorisql/pkg/dialects/doris"
)

// bucketProbe is the dimension expression shown in the bucket tables.
const bucketProbe = "created_at"

// generateDialectDocs writes one page per registered dialect.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, name := range dialect.List() {
		d, _ := dialect.Get(name)
		if err := generateDialectPage(d, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", name, err)
		}
		log.Printf("  Generated %s.md", name)
	}
	return nil
}

func generateDialectPage(d *dialect.Dialect, outDir string) error {
	q, err := d.NewQuery(dialect.QueryContext{Timezone: "Asia/Shanghai"})
	if err != nil {
		return err
	}

	w := NewMarkdownWriter()
	w.Frontmatter(d.DisplayName, d.DisplayName+" SQL dialect reference")
	w.GeneratedMarker()
	w.Header(1, d.DisplayName)

	maxLen := "unlimited"
	if d.MaxTableNameLength > 0 {
		maxLen = strconv.Itoa(d.MaxTableNameLength)
	}
	parent := "-"
	if d.Parent != "" {
		parent = "[" + d.Parent + "](/dialects/" + d.Parent + ")"
	}
	w.Table([]string{"Property", "Value"}, [][]string{
		{"Name", InlineCode(d.Name)},
		{"Extends", parent},
		{"Timezone conversion", d.TimezonePolicy.String()},
		{"Timestamp cast", d.TimestampCastPolicy.String()},
		{"Max table name length", maxLen},
	})

	w.Header(2, "Time Buckets")
	var rows [][]string
	for _, g := range core.Granularities {
		sql, err := q.TimeGroupedColumn(g, bucketProbe)
		if err != nil {
			sql = "unsupported"
		}
		rows = append(rows, []string{InlineCode(g.String()), InlineCode(sql)})
	}
	w.Table([]string{"Granularity", "SQL"}, rows)

	w.Header(2, "Examples")
	w.Paragraph("Rendered with the query timezone `Asia/Shanghai`:")
	tableName, _ := q.PreAggregationTableName("orders", "daily_sales", false)
	w.Table([]string{"Rule", "SQL"}, [][]string{
		{"add interval", InlineCode(q.AddInterval(bucketProbe, "1 DAY"))},
		{"subtract interval", InlineCode(q.SubtractInterval(bucketProbe, "1 DAY"))},
		{"convert timezone", InlineCode(q.ConvertTz(bucketProbe))},
		{"timestamp cast", InlineCode(q.TimeStampCast("'2024-01-01 00:00:00'"))},
		{"pre-aggregation table", InlineCode(tableName)},
		{"quote identifier", InlineCode(q.QuoteIdentifier("orders"))},
	})

	w.Header(2, "Templates")
	set := q.SQLTemplates()
	for _, category := range set.Categories() {
		w.Header(3, category)
		var trows [][]string
		for _, name := range set.Names(category) {
			trows = append(trows, []string{InlineCode(name), InlineCode(set[category][name])})
		}
		w.Table([]string{"Name", "Template"}, trows)
	}

	filename := filepath.Join(outDir, d.Name+".md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
