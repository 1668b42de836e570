// Package cmd provides the CLI commands for evman.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/evman/internal/config"
	"github.com/guilhermegouw/evman/internal/debug"
)

// Version is set at build time.
var Version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evman",
		Short: "In-process event dispatch toolkit",
		Long: `evman drives the event dispatcher from the command line.

It exposes the three dispatch mechanisms:
  - Events: the closed set of plain event channels
  - Filters: ordered chains that transform a JSON document
  - Watch: change notifications for fields of a stream of state snapshots`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to the data directory")
	cmd.PersistentFlags().String("config", "", "Use this config file instead of the standard locations")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newEventsCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "evman %s\n", Version)
		},
	}
}

// setup enables debug logging when requested by flag or config.
func setup(cmd *cobra.Command, _ []string) error {
	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("getting debug flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		// Commands report config errors themselves; logging setup must not.
		cfg = config.NewConfig()
	}

	if debugMode || cfg.DebugEnabled() {
		logPath := cfg.DebugLogPath()
		if debugErr := debug.Enable(logPath); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
		} else {
			fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
		}
	}
	debug.Event("cli", "Start", cmd.CommandPath())
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	debug.Disable()
	return nil
}

// loadConfig loads the config file named by --config, or the standard
// locations when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("getting config flag: %w", err)
	}
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// commandContext returns the context the command was executed with, or
// a background context when none was set.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// configPath returns the file config changes are written to.
func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.GlobalConfigPath()
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
