package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guilhermegouw/evman/internal/dispatcher"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, got %q", want, b.String())
}

func TestWatchFollow(t *testing.T) {
	cfgPath := writeConfig(t, `{}`)
	statePath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(statePath, []byte(`{"sync":{"isRunning":false}}`), 0o600); err != nil {
		t.Fatalf("writing state: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := newRootCmd()
	out := &syncBuffer{}
	root.SetOut(out)
	root.SetErr(&syncBuffer{})
	root.SetArgs([]string{"watch", "--config", cfgPath, "--follow", "--path", "sync.isRunning", statePath})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	waitFor(t, out, "sync.isRunning: false\n")

	if err := os.WriteFile(statePath, []byte(`{"sync":{"isRunning":true}}`), 0o600); err != nil {
		t.Fatalf("writing state: %v", err)
	}
	waitFor(t, out, "sync.isRunning: true\n")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch --follow: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch --follow did not stop after cancel")
	}

	if got := strings.Count(out.String(), "sync.isRunning:"); got != 2 {
		t.Errorf("got %d reports, want 2:\n%s", got, out.String())
	}
}

func TestWatchFollowNeedsFile(t *testing.T) {
	cfgPath := writeConfig(t, `{}`)
	_, _, err := run(t, "", "watch", "--config", cfgPath, "--follow", "--path", "a")
	if err == nil {
		t.Fatal("expected error without a file")
	}
}

func TestDriveFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}

	d := dispatcher.New()
	calls := 0
	d.WatchOn("a", func(dispatcher.StateChange) error {
		calls++
		return nil
	})

	if err := driveFile(d, write("bad.json", `{"a":`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if err := driveFile(d, write("empty.json", "  \n")); err != nil {
		t.Errorf("empty file should be skipped, got %v", err)
	}
	if err := driveFile(d, write("ok.json", `{"a":1}`)); err != nil {
		t.Errorf("driveFile: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
