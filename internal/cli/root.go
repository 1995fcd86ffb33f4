// Package cli provides the command-line interface for pkginfo.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkginfo/internal/cli/commands"
	"github.com/leapstack-labs/pkginfo/internal/cli/config"
	"github.com/leapstack-labs/pkginfo/internal/cli/output"
	"github.com/leapstack-labs/pkginfo/internal/logging"
	"github.com/leapstack-labs/pkginfo/internal/query"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(commands.NewBigQueryExecutor)
}

func newRootCmd(newExecutor commands.ExecutorFactory) *cobra.Command {
	var cfgFile string
	opts := &commands.ReportOptions{}

	rootCmd := &cobra.Command{
		Use:   "pkginfo [project] [fields...]",
		Short: "pkginfo - PyPI download statistics",
		Long: `pkginfo queries the public PyPI download tables on Google BigQuery and
prints download counts for a project, grouped by any number of fields.

Run "pkginfo fields" to list the available fields. An empty project ("")
reports on every project.`,
		Example: `  pkginfo requests
  pkginfo requests pyversion --percent
  pkginfo --month 2018-02 -l 20 django country
  pkginfo --test "" project`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			noColor := os.Getenv("NO_COLOR") != "" || !output.IsTerminal(errOut)
			logger := logging.New(errOut, cfg.Verbose, noColor)
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return commands.RunReport(cmd, args, opts, newExecutor)
		},
		ValidArgsFunction: completeFields,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pkginfo.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|table|json|csv)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Shorthand for --output json")
	rootCmd.PersistentFlags().BoolP("markdown", "m", false, "Shorthand for --output markdown")
	rootCmd.PersistentFlags().Int("indent", config.DefaultIndent, "JSON indentation, 0 for compact output")
	rootCmd.MarkFlagsMutuallyExclusive("json", "markdown", "output")

	commands.AddReportFlags(rootCmd.Flags(), opts)

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("order", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return query.FieldNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	}))
	rootCmd.AddCommand(commands.NewFieldsCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// completeFields completes grouping fields after the project argument.
func completeFields(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, name := range append(query.FieldNames(), query.PercentField) {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
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
		Long: `Generate shell completion scripts for pkginfo.

To load completions:

Bash:
  $ source <(pkginfo completion bash)

Zsh:
  $ pkginfo completion zsh > "${fpath[1]}/_pkginfo"

Fish:
  $ pkginfo completion fish | source

PowerShell:
  PS> pkginfo completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
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
