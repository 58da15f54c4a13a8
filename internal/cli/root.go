// Package cli provides the command-line interface for primitivedb.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/primitivedb/internal/cli/commands"
	"github.com/leapstack-labs/primitivedb/internal/cli/config"
	"github.com/leapstack-labs/primitivedb/internal/cli/output"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "primitivedb",
		Short: "primitivedb - a minimal flat-file relational store",
		Long: `primitivedb keeps tables of typed records (int, str, bool) with an
auto-assigned ID column, persisted as JSON files, in SQLite or in PostgreSQL.

Run without arguments to open the interactive shell, or use exec to run
statements from arguments, files or pipes.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			ctx = context.WithValue(ctx, configKey{}, cfg)

			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			logger.Debug("storage configured", "backend", cfg.Backend)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !stdinIsTerminal(cmd) {
				return commands.NewExecCommand().RunE(cmd, nil)
			}
			return commands.NewShellCommand().RunE(cmd, nil)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	defaults := config.Default()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./primitivedb.yaml)")
	rootCmd.PersistentFlags().String("backend", defaults.Backend, "Storage backend (json|sqlite|postgres)")
	rootCmd.PersistentFlags().String("metadata", defaults.MetadataPath, "Path to the catalog file (json backend)")
	rootCmd.PersistentFlags().String("data-dir", defaults.DataDir, "Directory of table files (json backend)")
	rootCmd.PersistentFlags().String("sqlite", defaults.SQLitePath, "Path to the SQLite database (sqlite backend)")
	rootCmd.PersistentFlags().String("postgres-dsn", "", "PostgreSQL connection string (postgres backend)")
	rootCmd.PersistentFlags().String("history", defaults.HistoryFile, "Shell history file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json|csv)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidBackends, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewShellCommand())
	rootCmd.AddCommand(commands.NewExecCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
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

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// stdinIsTerminal reports whether the command reads from an interactive terminal.
func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for primitivedb.

To load completions:

Bash:
  $ source <(primitivedb completion bash)
  
  # To load completions for each session, execute once:
  # Linux:
  $ primitivedb completion bash > /etc/bash_completion.d/primitivedb
  # macOS:
  $ primitivedb completion bash > $(brew --prefix)/etc/bash_completion.d/primitivedb

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  
  # To load completions for each session, execute once:
  $ primitivedb completion zsh > "${fpath[1]}/_primitivedb"
  
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ primitivedb completion fish | source
  
  # To load completions for each session, execute once:
  $ primitivedb completion fish > ~/.config/fish/completions/primitivedb.fish

PowerShell:
  PS> primitivedb completion powershell | Out-String | Invoke-Expression
  
  # To load completions for every new session, run:
  PS> primitivedb completion powershell > primitivedb.ps1
  # and source this file from your PowerShell profile.
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
