package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dorisql/internal/cli/output"
	"github.com/leapstack-labs/dorisql/pkg/core"
)

// sqlResult is the JSON and YAML shape of a rendered fragment.
type sqlResult struct {
	Dialect string `json:"dialect" yaml:"dialect"`
	SQL     string `json:"sql" yaml:"sql"`
}

// NewRenderCommand creates the render command and its fragment subcommands.
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a SQL fragment for the configured dialect",
		Long: `Render one dialect rule to SQL without touching a database.

The dialect, timezone and pre-aggregations schema come from dorisql.yaml,
DORISQL_* environment variables or the matching global flags.`,
		Example: `  # Week bucket of a column
  dorisql render bucket week created_at

  # Timezone conversion in Asia/Shanghai
  dorisql render convert-tz created_at --timezone Asia/Shanghai

  # Pre-aggregation table name
  dorisql render table-name orders daily_sales`,
	}

	cmd.AddCommand(
		newRenderBucketCommand(),
		newRenderIntervalCommand("add-interval", "Add an interval to a date expression", false),
		newRenderIntervalCommand("subtract-interval", "Subtract an interval from a date expression", true),
		newRenderConvertTzCommand(),
		newRenderCastCommand(),
		newRenderTableNameCommand(),
		newRenderOrderByCommand(),
		newRenderILikeCommand(),
		newRenderQuoteCommand(),
	)

	return cmd
}

// printSQL writes a rendered fragment in the configured output mode.
func printSQL(cmd *cobra.Command, sql string) error {
	c := NewCommandContext(cmd)
	result := sqlResult{Dialect: c.Cfg.Dialect, SQL: sql}

	switch c.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return c.Renderer.JSON(result)
	case output.ModeYAML:
		return c.Renderer.YAML(result)
	default:
		c.Renderer.Println(sql)
		return nil
	}
}

func newRenderBucketCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "bucket <granularity> <expr>",
		Short:     "Floor a timestamp expression to a granularity bucket",
		Args:      cobra.ExactArgs(2),
		ValidArgs: core.GranularityNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			sql, err := q.TimeGroupedColumnByName(args[0], args[1])
			if err != nil {
				return err
			}
			return printSQL(cmd, sql)
		},
	}
}

func newRenderIntervalCommand(use, short string, subtract bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <date> <interval>",
		Short: short,
		Long: short + `.

The interval is passed through as written, e.g. "1 DAY" or "3 MONTH".`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			interval := strings.Join(args[1:], " ")
			if subtract {
				return printSQL(cmd, q.SubtractInterval(args[0], interval))
			}
			return printSQL(cmd, q.AddInterval(args[0], interval))
		},
	}
}

func newRenderConvertTzCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert-tz <field>",
		Short: "Convert a field from the session timezone to the query timezone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			return printSQL(cmd, q.ConvertTz(args[0]))
		},
	}
}

func newRenderCastCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cast <value>",
		Short: "Cast a value to the dialect's timestamp type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			return printSQL(cmd, q.TimeStampCast(args[0]))
		},
	}
}

func newRenderTableNameCommand() *cobra.Command {
	var skipSchema bool

	cmd := &cobra.Command{
		Use:   "table-name <cube> <pre-aggregation>",
		Short: "Build a pre-aggregation table name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			name, err := q.PreAggregationTableName(args[0], args[1], skipSchema)
			if err != nil {
				return err
			}
			return printSQL(cmd, name)
		},
	}

	cmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "Omit the pre-aggregations schema prefix")
	return cmd
}

func newRenderOrderByCommand() *cobra.Command {
	var desc, nullsFirst bool

	cmd := &cobra.Command{
		Use:   "order-by <expr>",
		Short: "Render a sort key with explicit NULL placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			sql, err := q.OrderBy(args[0], !desc, nullsFirst)
			if err != nil {
				return err
			}
			return printSQL(cmd, sql)
		},
	}

	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&nullsFirst, "nulls-first", false, "Place NULLs first")
	return cmd
}

func newRenderILikeCommand() *cobra.Command {
	var negated bool

	cmd := &cobra.Command{
		Use:   "ilike <expr> <pattern>",
		Short: "Render a case-insensitive LIKE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			sql, err := q.ILike(args[0], args[1], negated)
			if err != nil {
				return err
			}
			return printSQL(cmd, sql)
		},
	}

	cmd.Flags().BoolVar(&negated, "not", false, "Negate the match")
	return cmd
}

func newRenderQuoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <identifier>",
		Short: "Quote an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := NewCommandContext(cmd).Query()
			if err != nil {
				return err
			}
			return printSQL(cmd, q.QuoteIdentifier(args[0]))
		},
	}
}
