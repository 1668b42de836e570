// Package debug provides opt-in development logging for evman.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	enabled bool
	out     io.Writer
	logFile *os.File
	mu      sync.Mutex
	logPath string
)

// Enable turns on debug logging to the specified file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	//nolint:gosec // G304: path comes from the CLI flag or xdg data dir.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logFile = f
	logPath = path
	enableLocked(f)
	return nil
}

// EnableWriter turns on debug logging to w. Used by tests and by callers
// that already own a sink.
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return
	}
	logPath = ""
	enableLocked(w)
}

func enableLocked(w io.Writer) {
	out = w
	enabled = true

	// Write session header directly (can't call Log() - would deadlock)
	timestamp := time.Now().Format("15:04:05.000")
	header := fmt.Sprintf("[%s] === evman debug session started ===\n", timestamp)
	header += fmt.Sprintf("[%s] Time: %s\n", timestamp, time.Now().Format(time.RFC3339))
	if logPath != "" {
		header += fmt.Sprintf("[%s] Log file: %s\n", timestamp, logPath)
	}
	_, _ = io.WriteString(out, header)
	syncLocked()
}

// Disable turns off debug logging and closes the file, if any.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	out = nil
	enabled = false
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a debug message if logging is enabled.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || out == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(out, "[%s] %s\n", timestamp, msg)
	syncLocked()
}

// syncLocked flushes the log file for real-time viewing.
func syncLocked() {
	if logFile != nil {
		_ = logFile.Sync()
	}
}

// LogPath returns the path to the log file, empty when logging to a writer.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Event logs an event with component context.
func Event(component, eventType string, details string) {
	Log("[%s] %s: %s", component, eventType, details)
}

// Error logs an error with context.
func Error(component string, err error, context string) {
	Log("[%s] ERROR: %s - %v", component, context, err)
}

// Component is a logger bound to one component name.
type Component string

// Event logs an event for the component. Formatting is skipped entirely
// while logging is disabled.
func (c Component) Event(eventType, format string, args ...any) {
	if !IsEnabled() {
		return
	}
	Event(string(c), eventType, fmt.Sprintf(format, args...))
}

// Error logs an error for the component.
func (c Component) Error(err error, context string) {
	Error(string(c), err, context)
}
