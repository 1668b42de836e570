package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/evman/internal/config"
	"github.com/guilhermegouw/evman/internal/dispatcher"
	"github.com/guilhermegouw/evman/internal/events"
	"github.com/guilhermegouw/evman/internal/jsonfilter"
	"github.com/guilhermegouw/evman/internal/pubsub"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and the dispatcher it builds",
		Long: `Display the current evman status including:
  - Config file and data directory
  - Watched paths
  - Configured filter chains
  - Registry of the dispatcher built from the config`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "evman Status")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config File: %s\n", configPath(cmd))
	fmt.Fprintf(out, "Data Directory: %s\n", cfg.DataDir())
	fmt.Fprintf(out, "Debug: %v\n", cfg.DebugEnabled())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Watched Paths:")
	if len(cfg.Watch.Paths) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, p := range cfg.Watch.Paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Filters:")
	names := make([]string, 0, len(cfg.Filters))
	for name := range cfg.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %d rules\n", name, len(cfg.Filters[name]))
	}
	fmt.Fprintln(out)

	registry := pubsub.NewRegistry()
	if _, err := buildDispatcher(cfg, registry); err != nil {
		return err
	}
	fmt.Fprint(out, registry.DebugString())
	return nil
}

// buildDispatcher wires a dispatcher with everything the config declares:
// filter chains and, for each watched path, a listener that re-emits the
// change as a settingsChange event.
func buildDispatcher(cfg *config.Config, registry *pubsub.Registry) (*dispatcher.Dispatcher, error) {
	d := dispatcher.New(
		dispatcher.WithRegistry(registry),
		dispatcher.WithEqualFunc(jsonfilter.Equal),
	)

	names := make([]string, 0, len(cfg.Filters))
	for name := range cfg.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := jsonfilter.Register(d, name, cfg.Filters[name]); err != nil {
			return nil, err
		}
	}

	for _, p := range cfg.Watch.Paths {
		d.WatchOn(p, func(c dispatcher.StateChange) error {
			d.Emit(events.SettingsChange, events.NewSettingsEvent(c.Path))
			return nil
		})
	}
	return d, nil
}
