// Package cli provides the command-line interface for dorisql.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dorisql/internal/cli/commands"
	"github.com/leapstack-labs/dorisql/internal/cli/config"
	"github.com/leapstack-labs/dorisql/internal/cli/output"
	"github.com/leapstack-labs/dorisql/internal/logger"

	// Register adapters and dialects via init()
	_ "github.com/leapstack-labs/dorisql/pkg/adapters/doris"
	_ "github.com/leapstack-labs/dorisql/pkg/dialects/ansi"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// skipConfig lists commands that run without loading configuration.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"version":    true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dorisql",
		Short: "dorisql - Apache Doris SQL dialect rules",
		Long: `dorisql renders the SQL fragments a semantic layer needs for Apache Doris:
time buckets, interval arithmetic, timezone conversion, pre-aggregation
table names and the dialect's SQL templates. It can also run and verify the
generated SQL against a live Doris frontend over the MySQL protocol.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			// Load configuration: flags > env vars > config file > defaults
			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			log := logger.New(cmd.ErrOrStderr(), cfg.Verbose)
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), log))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				log.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./dorisql.yaml)")
	flags.String("env", "", "Environment from the environments section")
	flags.String("dialect", "", "SQL dialect (default: doris)")
	flags.String("timezone", "", "Query timezone, an IANA name (default: UTC)")
	flags.String("pre-aggregations-schema", "", "Schema for pre-aggregation tables")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json|yaml|csv)")

	// Target flags
	flags.String("adapter", "", "Target adapter type (doris|mysql)")
	flags.String("host", "", "Target host")
	flags.Int("port", 0, "Target port (default: 9030)")
	flags.String("user", "", "Target user")
	flags.String("password", "", "Target password")
	flags.String("database", "", "Target database")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"doris", "mysql", "ansi"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewTemplatesCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dorisql.

To load completions:

Bash:
  $ source <(dorisql completion bash)

Zsh:
  $ dorisql completion zsh > "${fpath[1]}/_dorisql"

Fish:
  $ dorisql completion fish | source

PowerShell:
  PS> dorisql completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
