package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dorisql/internal/cli/output"
	"github.com/leapstack-labs/dorisql/pkg/core"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the configured target",
		Long: `Run a SQL statement against the configured Doris (or MySQL) target and
print the result set.

SQL is read from the arguments, from --input, or from stdin when it is piped.
On a terminal the result is a table; piped output defaults to markdown.`,
		Example: `  # Execute SQL directly
  dorisql query "SELECT 1"

  # Render a bucket and run it
  dorisql query "SELECT $(dorisql render bucket week NOW()) AS wk"

  # Read from a file, output as CSV
  dorisql query --input report.sql --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md (default: --output)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	sqlQuery, err := readSQL(args, opts.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	c := NewCommandContext(cmd)
	r := c.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	a, err := c.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return executeAndRender(cmd.Context(), a, r, sqlQuery)
}

// readSQL picks the statement from args, then the input file, then piped stdin.
func readSQL(args []string, input string, stdin io.Reader) (string, error) {
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case input != "":
		content, err := os.ReadFile(input) //nolint:gosec // path comes from the user
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case stdin != nil && !isTerminalReader(stdin):
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	}

	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return "", fmt.Errorf("no SQL given\nHint: pass it as an argument, with --input, or on stdin")
	}
	return sqlQuery, nil
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && output.IsTerminal(f)
}

// querier is the part of adapter.Adapter the query command needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (*core.Rows, error)
}

func executeAndRender(ctx context.Context, q querier, r *output.Renderer, sqlQuery string) error {
	rows, err := q.Query(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(r, rows.Rows)
}
