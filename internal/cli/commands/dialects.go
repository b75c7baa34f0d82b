package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered SQL dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)

			var rows [][]string
			for _, name := range dialect.List() {
				d, _ := dialect.Get(name)

				parent := d.Parent
				if parent == "" {
					parent = "-"
				}
				maxLen := "-"
				if d.MaxTableNameLength > 0 {
					maxLen = strconv.Itoa(d.MaxTableNameLength)
				}

				rows = append(rows, []string{
					d.Name,
					d.DisplayName,
					parent,
					d.TimezonePolicy.String(),
					d.TimestampCastPolicy.String(),
					maxLen,
				})
			}

			return c.Renderer.Table(
				[]string{"name", "display_name", "extends", "timezone", "timestamp_cast", "max_table_name"},
				rows,
			)
		},
	}
}
