package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/guilhermegouw/evman/internal/config"
	"github.com/guilhermegouw/evman/internal/dispatcher"
	"github.com/guilhermegouw/evman/internal/jsonfilter"
)

func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <name> [file]",
		Short: "Run a JSON document through a filter chain",
		Long: `Read one JSON document from a file or stdin, pass it through the
named filter chain and print the result.

The chain is built from the rules under filters.<name> in the config,
followed by any --set and --delete flags in the order given.

Examples:
  evman filter noteBody note.json
  echo '{"body":"hello"}' | evman filter noteBody --set body='"hello world"'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runFilter,
	}

	cmd.Flags().StringArray("set", nil, "path=value rule; value is JSON, or a plain string (repeatable)")
	cmd.Flags().StringArray("delete", nil, "Path to delete (repeatable)")

	return cmd
}

func runFilter(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rules := append([]jsonfilter.Rule(nil), cfg.Filters[name]...)
	flagRules, err := rulesFromFlags(cmd)
	if err != nil {
		return err
	}
	rules = append(rules, flagRules...)

	d := dispatcher.New(
		dispatcher.WithName("filter"),
		dispatcher.WithEqualFunc(jsonfilter.Equal),
	)
	if err := jsonfilter.Register(d, name, rules); err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, args[1:])
	if err != nil {
		return err
	}
	defer closeIn()

	doc, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	out, err := d.FilterEmit(commandContext(cmd), name, string(doc))
	if err != nil {
		return err
	}

	result, _ := out.(string)
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(result, "\n"))
	return nil
}

func rulesFromFlags(cmd *cobra.Command) ([]config.Rule, error) {
	sets, _ := cmd.Flags().GetStringArray("set")
	deletes, _ := cmd.Flags().GetStringArray("delete")

	rules := make([]config.Rule, 0, len(sets)+len(deletes))
	for _, s := range sets {
		path, value, ok := strings.Cut(s, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid --set %q: want path=value", s)
		}
		raw := json.RawMessage(value)
		if !gjson.Valid(value) {
			quoted, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("encoding --set value: %w", err)
			}
			raw = quoted
		}
		rules = append(rules, config.Rule{Set: path, Value: raw})
	}
	for _, p := range deletes {
		rules = append(rules, config.Rule{Delete: p})
	}
	return rules, nil
}
