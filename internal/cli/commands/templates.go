package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dorisql/internal/cli/output"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// TemplatesOptions holds options for the templates command.
type TemplatesOptions struct {
	Format string
}

// NewTemplatesCommand creates the templates command.
func NewTemplatesCommand() *cobra.Command {
	opts := &TemplatesOptions{}

	cmd := &cobra.Command{
		Use:   "templates [category]",
		Short: "Show the SQL template set of the configured dialect",
		Long: `Show the resolved SQL template set of the configured dialect: the base
templates with every patch of the dialect chain applied.

Categories: quotes, functions, expressions, types, statements.`,
		Example: `  # All Doris templates as a table
  dorisql templates

  # Only the type names, as YAML
  dorisql templates types --format yaml

  # Compare against MySQL
  dorisql templates --dialect mysql --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, yaml (default: --output)")

	return cmd
}

func runTemplates(cmd *cobra.Command, args []string, opts *TemplatesOptions) error {
	c := NewCommandContext(cmd)
	d, err := dialect.Lookup(c.Cfg.Dialect)
	if err != nil {
		return err
	}

	set := d.Templates()
	categories := set.Categories()
	if len(args) == 1 {
		if !slices.Contains(categories, args[0]) {
			return fmt.Errorf("unknown template category %q (available: %v)", args[0], categories)
		}
		categories = args[:1]
	}

	r := c.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		nested := make(map[string]map[string]string, len(categories))
		for _, category := range categories {
			nested[category] = set[category]
		}
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(nested)
		}
		return r.YAML(nested)
	}

	var rows [][]string
	for _, category := range categories {
		for _, name := range set.Names(category) {
			rows = append(rows, []string{category, name, set[category][name]})
		}
	}
	return r.Table([]string{"category", "name", "template"}, rows)
}
