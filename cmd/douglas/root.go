package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	douglas "github.com/douglas-run/douglas"
	"github.com/douglas-run/douglas/internal/cli"
	"github.com/douglas-run/douglas/internal/config"
	"github.com/douglas-run/douglas/internal/logging"
	"github.com/douglas-run/douglas/pkg/adapters/openai"
	"github.com/douglas-run/douglas/pkg/adapters/shell"
)

var rootCmd = &cobra.Command{
	Use:   "douglas",
	Short: "Douglas is a declarative runner for Galaxy app definitions",
	Long: `Douglas runs small declarative apps ("Galaxies") defined as YAML files.
A Galaxy declares a shell action, an LLM prompt pipeline, or both, and
may persist results to its own database. Without a subcommand, Douglas
starts the interactive shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(settings, logger)
		if err != nil {
			return err
		}
		repl := cli.NewREPL(engine, settings, logger, cli.WithVersion(version))
		return repl.Run(cmd.Context())
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("apps", "", "Directory containing Galaxy definitions (default ./apps)")
	rootCmd.PersistentFlags().String("data", "", "Data directory for Galaxy stores (default ~/.douglas)")
}

// loadSettings resolves env-derived settings and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Settings, *slog.Logger, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if apps, _ := cmd.Flags().GetString("apps"); apps != "" {
		settings.AppsDir = apps
	}
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		settings.DataDir = data
	}
	logger := logging.New(logging.ParseLevel(settings.LogLevel))
	return settings, logger, nil
}

// buildEngine wires the default adapters around the core.
func buildEngine(settings *config.Settings, logger *slog.Logger) (*douglas.Engine, error) {
	opts := []douglas.Option{
		douglas.WithLogger(logger),
		douglas.WithDataDir(settings.DataDir),
		douglas.WithShellRunner(shell.NewRunner(shell.WithTimeout(settings.ShellTimeout))),
		douglas.WithDefaultModel(settings.Model),
	}
	if settings.CredentialSet() {
		opts = append(opts, douglas.WithCompleter(openai.NewClient(
			settings.OpenAIAPIKey,
			openai.WithModel(settings.Model),
			openai.WithTimeout(settings.LLMTimeout),
		)))
	}
	return douglas.New(settings.AppsDir, opts...)
}
