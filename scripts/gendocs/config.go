package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	intconfig "github.com/leapstack-labs/dorisql/internal/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "query", "cli" or "target"
}

// getConfigSchema mirrors the koanf tags of internal/cli/config.Config and
// internal/config.TargetConfig.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "dialect", Type: "string", Default: intconfig.DefaultDialect, Description: "SQL dialect", Category: "query"},
		{Name: "timezone", Type: "string", Default: intconfig.DefaultTimezone, Description: "Query timezone, an IANA name", Category: "query"},
		{Name: "pre_aggregations_schema", Type: "string", Default: intconfig.DefaultPreAggregationsSchema, Description: "Schema prefix of pre-aggregation tables", Category: "query"},

		{Name: "environment", Type: "string", Description: "Entry of environments to apply", Category: "cli"},
		{Name: "output", Type: "string", Default: "auto", Description: "Output format: auto, text, markdown, json, yaml, csv", Category: "cli"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Debug logging on stderr", Category: "cli"},

		{Name: "type", Type: "string", Default: "dialect", Description: "Adapter: doris or mysql", Category: "target"},
		{Name: "host", Type: "string", Default: "localhost", Description: "Frontend host", Category: "target"},
		{Name: "port", Type: "int", Default: strconv.Itoa(9030), Description: "MySQL protocol port (3306 for mysql)", Category: "target"},
		{Name: "user", Type: "string", Description: "User name", Category: "target"},
		{Name: "password", Type: "string", Description: "Password, `${VAR}` is expanded", Category: "target"},
		{Name: "database", Type: "string", Description: "Default database", Category: "target"},
		{Name: "schema", Type: "string", Default: "database", Description: "Schema used for metadata lookups", Category: "target"},
		{Name: "connect_timeout", Type: "duration", Default: intconfig.DefaultConnectTimeout.String(), Description: "Dial timeout", Category: "target"},
		{Name: "options", Type: "map[string]any", Description: "Driver options: collation, tls, read_timeout, write_timeout, max_open_conns, interpolate_params", Category: "target"},
	}
}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "dorisql configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("dorisql reads `" + intconfig.ConfigFileName + "` from the working directory or the nearest parent. " +
		"Values are layered: defaults, the file, `.env`, `DORISQL_*` environment variables, then flags.")

	fields := getConfigSchema()
	sections := []struct {
		category string
		title    string
		intro    string
	}{
		{"query", "Query Settings", "Settings that shape the rendered SQL:"},
		{"cli", "CLI Settings", "Settings that shape the command output:"},
		{"target", "Target", "The `target` section describes the database `query` and `verify` connect to:"},
	}

	for _, sec := range sections {
		w.Header(2, sec.title)
		w.Paragraph(sec.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Category != sec.category {
				continue
			}
			defVal := f.Default
			if defVal == "" {
				defVal = "-"
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, InlineCode(defVal), f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Environments")
	w.Paragraph("Entries under `environments` override `dialect`, `timezone` and individual target fields of the file. " +
		"Environment variables and flags still take precedence. " +
		"Select one with `environment`, `--env` or `DORISQL_ENVIRONMENT`.")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `# dorisql.yaml
dialect: doris
timezone: Asia/Shanghai
pre_aggregations_schema: pre_aggregations

target:
  host: 127.0.0.1
  port: 9030
  user: root
  password: ${DORIS_PASSWORD}
  database: analytics
  options:
    read_timeout: 30s

environments:
  prod:
    timezone: UTC
    target:
      host: doris-fe.internal`)

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
