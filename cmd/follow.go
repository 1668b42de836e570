package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/gjson"

	"github.com/guilhermegouw/evman/internal/debug"
	"github.com/guilhermegouw/evman/internal/dispatcher"
	"github.com/guilhermegouw/evman/internal/statepath"
)

// followDebounce coalesces the bursts of events editors and atomic
// renames produce for a single save.
const followDebounce = 50 * time.Millisecond

// followFile drives d with the snapshot stored in path, then again after
// every change to the file, until ctx is done.
func followFile(ctx context.Context, d *dispatcher.Dispatcher, path string, errOut io.Writer, keepGoing bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// The directory is watched so replacing the file by rename is seen.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	report := func(err error) error {
		if !keepGoing {
			return err
		}
		debug.Error("cli", err, "follow")
		fmt.Fprintf(errOut, "Warning: %v\n", err)
		return nil
	}

	if err := driveFile(d, abs); err != nil {
		if err := report(err); err != nil {
			return err
		}
	}

	fire := make(chan struct{}, 1)
	timer := time.AfterFunc(time.Hour, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(followDebounce)
			}

		case <-fire:
			if err := driveFile(d, abs); err != nil {
				if err := report(err); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Error("cli", err, "file watcher")
		}
	}
}

// driveFile reads one snapshot from path and drives d with it. An empty
// file is skipped since writers truncate before they write.
func driveFile(d *dispatcher.Dispatcher, path string) error {
	//nolint:gosec // G304: path is the file the user asked to follow.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s: not valid JSON", path)
	}
	if err := d.Drive(statepath.JSON(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
