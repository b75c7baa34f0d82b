package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dorisql/internal/cli/config"
	"github.com/leapstack-labs/dorisql/internal/cli/output"
	"github.com/leapstack-labs/dorisql/pkg/adapter"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded config.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Query binds the configured dialect to the configured query context.
func (c *CommandContext) Query() (*dialect.Query, error) {
	d, err := dialect.Lookup(c.Cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return d.NewQuery(c.Cfg.QueryContext())
}

// Connect opens the configured target. The caller closes the adapter.
func (c *CommandContext) Connect(ctx context.Context) (adapter.Adapter, error) {
	if err := c.Cfg.ValidateTarget(); err != nil {
		return nil, err
	}
	c.Logger.Debug("opening target",
		slog.String("type", c.Cfg.Target.Type),
		slog.String("host", c.Cfg.Target.Host),
		slog.Int("port", c.Cfg.Target.Port))

	a, err := adapter.Open(ctx, c.Cfg.Target.ToAdapterConfig(), c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.Cfg.Target.Type, err)
	}
	return a, nil
}

// getConfig returns the current configuration, or defaults when the root
// command did not load one (commands run standalone in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Dialect:               config.DefaultDialect,
		Timezone:              config.DefaultTimezone,
		PreAggregationsSchema: config.DefaultPreAggregationsSchema,
		OutputFormat:          config.DefaultOutput,
	}
}
