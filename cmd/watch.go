package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/guilhermegouw/evman/internal/config"
	"github.com/guilhermegouw/evman/internal/debug"
	"github.com/guilhermegouw/evman/internal/dispatcher"
	"github.com/guilhermegouw/evman/internal/statepath"
)

// maxSnapshotSize bounds a single line of input.
const maxSnapshotSize = 16 << 20

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Report field changes across a stream of JSON state snapshots",
		Long: `Read JSON state snapshots, one per line, from a file or stdin and
print every watched path whose value changed since the previous snapshot.

Paths are dot-delimited field names. Without --path, the paths listed under
watch.paths in the config are used.

Examples:
  evman watch --path sync.isRunning states.jsonl
  tail -f states.jsonl | evman watch --path settings.theme --keep-going
  evman watch --follow --path sync.isRunning state.json

With --follow the file holds a single snapshot and is re-read every time it
changes, until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringArrayP("path", "p", nil, "Dot-delimited path to watch (repeatable)")
	cmd.Flags().Bool("keep-going", false, "Report invalid paths and continue with the next snapshot")
	cmd.Flags().Bool("save", false, "Add the --path values to the config file")
	cmd.Flags().BoolP("follow", "f", false, "Re-read the snapshot file whenever it changes")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	paths, _ := cmd.Flags().GetStringArray("path")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	save, _ := cmd.Flags().GetBool("save")
	follow, _ := cmd.Flags().GetBool("follow")

	if follow && (len(args) == 0 || args[0] == "-") {
		return fmt.Errorf("--follow needs a snapshot file")
	}

	if len(paths) == 0 {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		paths = cfg.Watch.Paths
	}
	if len(paths) == 0 {
		return fmt.Errorf("no paths to watch: pass --path or set watch.paths in %s", configPath(cmd))
	}

	for _, p := range paths {
		if _, err := statepath.Parse(p); err != nil {
			return err
		}
	}

	if save {
		target := configPath(cmd)
		for _, p := range paths {
			if err := config.AddWatchPath(target, p); err != nil {
				return fmt.Errorf("saving watch path: %w", err)
			}
		}
	}

	out := cmd.OutOrStdout()
	d := dispatcher.New(dispatcher.WithName("watch"))
	for _, p := range paths {
		d.WatchOn(p, func(c dispatcher.StateChange) error {
			_, err := fmt.Fprintf(out, "%s: %s\n", c.Path, formatValue(c.Value))
			return err
		})
	}

	if follow {
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()
		return followFile(ctx, d, args[0], cmd.ErrOrStderr(), keepGoing)
	}

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	return driveLines(d, in, cmd.ErrOrStderr(), keepGoing)
}

// driveLines drives d once per non-empty line of in.
func driveLines(d *dispatcher.Dispatcher, in io.Reader, errOut io.Writer, keepGoing bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSnapshotSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			err := fmt.Errorf("line %d: not valid JSON", lineNo)
			if !keepGoing {
				return err
			}
			fmt.Fprintf(errOut, "Warning: %v\n", err)
			continue
		}

		if err := d.Drive(statepath.JSON(line)); err != nil {
			err = fmt.Errorf("line %d: %w", lineNo, err)
			if !keepGoing {
				return err
			}
			debug.Error("cli", err, "watch")
			fmt.Fprintf(errOut, "Warning: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading snapshots: %w", err)
	}
	return nil
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	//nolint:gosec // G304: reading the file the user named is the point.
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func formatValue(v any) string {
	if raw, ok := v.(statepath.Raw); ok {
		return string(raw)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
