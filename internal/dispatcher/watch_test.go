package dispatcher

import (
	"errors"
	"testing"

	"github.com/guilhermegouw/evman/internal/pubsub"
	"github.com/guilhermegouw/evman/internal/statepath"
)

func syncState(running bool) map[string]any {
	return map[string]any{"sync": map[string]any{"isRunning": running}}
}

func TestDrive(t *testing.T) {
	t.Run("fires on first sight and on change only", func(t *testing.T) {
		d := New()

		var got []StateChange
		d.WatchOn("sync.isRunning", func(c StateChange) error {
			got = append(got, c)
			return nil
		})

		if err := d.Drive(syncState(false)); err != nil {
			t.Fatalf("drive 1: %v", err)
		}
		if err := d.Drive(syncState(false)); err != nil {
			t.Fatalf("drive 2: %v", err)
		}
		if err := d.Drive(syncState(true)); err != nil {
			t.Fatalf("drive 3: %v", err)
		}

		if len(got) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(got))
		}
		if got[0].Value != false || got[1].Value != true {
			t.Errorf("unexpected values: %v, %v", got[0].Value, got[1].Value)
		}
		if got[0].Path != "sync.isRunning" {
			t.Errorf("expected path in change, got %q", got[0].Path)
		}
	})

	t.Run("no watched paths is a no-op", func(t *testing.T) {
		d := New()

		if err := d.Drive(nil); err != nil {
			t.Errorf("expected no error without watched paths, got %v", err)
		}
	})

	t.Run("compares by identity, not structure", func(t *testing.T) {
		d := New()

		calls := 0
		d.WatchOn("settings", func(StateChange) error {
			calls++
			return nil
		})

		settings := map[string]any{"theme": "dark"}
		_ = d.Drive(map[string]any{"settings": settings})
		_ = d.Drive(map[string]any{"settings": settings})
		_ = d.Drive(map[string]any{"settings": map[string]any{"theme": "dark"}})

		if calls != 2 {
			t.Errorf("expected 2 calls (first sight + new map), got %d", calls)
		}
	})

	t.Run("listeners run in registration order", func(t *testing.T) {
		d := New()

		var order []int
		for i := 1; i <= 3; i++ {
			i := i
			d.WatchOn("a", func(StateChange) error {
				order = append(order, i)
				return nil
			})
		}
		_ = d.Drive(map[string]any{"a": 1})

		if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
			t.Errorf("unexpected order: %v", order)
		}
	})

	t.Run("paths without listeners are still tracked", func(t *testing.T) {
		d := New()

		l := d.WatchOn("a", func(StateChange) error { return nil })
		if err := d.WatchOff("a", l); err != nil {
			t.Fatalf("WatchOff: %v", err)
		}
		_ = d.Drive(map[string]any{"a": 1})

		calls := 0
		d.WatchOn("a", func(StateChange) error {
			calls++
			return nil
		})
		_ = d.Drive(map[string]any{"a": 1})

		if calls != 0 {
			t.Errorf("value was already seen while unwatched, expected 0 calls, got %d", calls)
		}
		if paths := d.WatchedPaths(); len(paths) != 1 || paths[0] != "a" {
			t.Errorf("path should appear once in the watched set, got %v", paths)
		}
	})

	t.Run("works on JSON snapshots", func(t *testing.T) {
		d := New()

		var values []any
		d.WatchOn("sync.isRunning", func(c StateChange) error {
			values = append(values, c.Value)
			return nil
		})

		for _, doc := range []string{
			`{"sync":{"isRunning":false}}`,
			`{"sync":{"isRunning":false}}`,
			`{"sync":{"isRunning":true}}`,
		} {
			if err := d.Drive(statepath.JSON(doc)); err != nil {
				t.Fatalf("drive: %v", err)
			}
		}

		if len(values) != 2 || values[0] != false || values[1] != true {
			t.Errorf("unexpected values: %v", values)
		}
	})
}

func TestDriveErrors(t *testing.T) {
	t.Run("missing segment fails with invalid path", func(t *testing.T) {
		d := New()
		d.WatchOn("sync.isRunning", func(StateChange) error { return nil })

		err := d.Drive(map[string]any{"sync": map[string]any{}})
		if !errors.Is(err, statepath.ErrInvalidPath) {
			t.Errorf("expected ErrInvalidPath, got %v", err)
		}
	})

	t.Run("earlier paths keep their effects", func(t *testing.T) {
		d := New()

		firstCalls := 0
		d.WatchOn("a", func(StateChange) error {
			firstCalls++
			return nil
		})
		d.WatchOn("b.c", func(StateChange) error { return nil })

		err := d.Drive(map[string]any{"a": 1})
		if !errors.Is(err, statepath.ErrInvalidPath) {
			t.Fatalf("expected ErrInvalidPath, got %v", err)
		}
		if firstCalls != 1 {
			t.Errorf("first path should have fired before the failure, got %d", firstCalls)
		}

		// The snapshot for "a" was updated, so the same value is not a change.
		_ = d.Drive(map[string]any{"a": 1, "b": map[string]any{"c": 2}})
		if firstCalls != 1 {
			t.Errorf("expected no new call for an unchanged value, got %d", firstCalls)
		}
	})

	t.Run("listener error stops the drive", func(t *testing.T) {
		d := New()

		errBoom := errors.New("boom")
		laterCalled := false
		d.WatchOn("a", func(StateChange) error { return errBoom })
		d.WatchOn("a", func(StateChange) error {
			laterCalled = true
			return nil
		})

		err := d.Drive(map[string]any{"a": 1})
		if !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
		if laterCalled {
			t.Error("later listener should not run after a failure")
		}
	})
}

func TestDriveFreezesValues(t *testing.T) {
	t.Run("listener cannot mutate the caller's state", func(t *testing.T) {
		d := New()

		d.WatchOn("settings", func(c StateChange) error {
			c.Value.(map[string]any)["theme"] = "mutated"
			return nil
		})

		settings := map[string]any{"theme": "dark"}
		if err := d.Drive(map[string]any{"settings": settings}); err != nil {
			t.Fatalf("drive: %v", err)
		}

		if settings["theme"] != "dark" {
			t.Errorf("listener mutated the caller's state: %v", settings["theme"])
		}
	})

	t.Run("listener cannot mutate what later listeners see", func(t *testing.T) {
		d := New()

		d.WatchOn("settings", func(c StateChange) error {
			c.Value.(map[string]any)["theme"] = "mutated"
			return nil
		})
		var seen any
		d.WatchOn("settings", func(c StateChange) error {
			seen = c.Value.(map[string]any)["theme"]
			return nil
		})

		if err := d.Drive(map[string]any{"settings": map[string]any{"theme": "dark"}}); err != nil {
			t.Fatalf("drive: %v", err)
		}
		if seen != "dark" {
			t.Errorf("second listener saw %v, want dark", seen)
		}
	})

	t.Run("unexported fields are delivered", func(t *testing.T) {
		type profile struct {
			Name   string
			secret string
		}
		d := New()

		var got profile
		d.WatchOn("v", func(c StateChange) error {
			got = c.Value.(profile)
			return nil
		})

		want := profile{Name: "n", secret: "h"}
		if err := d.Drive(map[string]any{"v": want}); err != nil {
			t.Fatalf("drive: %v", err)
		}
		if got != want {
			t.Errorf("listener got %+v, want %+v", got, want)
		}
	})

	t.Run("struct values are copied with their references", func(t *testing.T) {
		type note struct {
			Title string
			Tags  []string
		}
		d := New()

		var got note
		d.WatchOn("note", func(c StateChange) error {
			got = c.Value.(note)
			got.Tags[0] = "mutated"
			return nil
		})

		tags := []string{"a"}
		if err := d.Drive(map[string]any{"note": note{Title: "t", Tags: tags}}); err != nil {
			t.Fatalf("drive: %v", err)
		}
		if got.Title != "t" || len(got.Tags) != 1 {
			t.Errorf("listener got %+v", got)
		}
		if tags[0] != "a" {
			t.Errorf("listener mutated the caller's slice: %v", tags)
		}
	})
}

func TestDriveUnchangedStructValue(t *testing.T) {
	type syncState struct {
		Running bool
		Items   []string
	}
	d := New()

	calls := 0
	d.WatchOn("sync", func(StateChange) error {
		calls++
		return nil
	})

	state := map[string]any{"sync": syncState{Items: []string{"a"}}}
	for i := 0; i < 3; i++ {
		if err := d.Drive(state); err != nil {
			t.Fatalf("drive %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("calls after three drives of the same state = %d, want 1", calls)
	}

	state["sync"] = syncState{Running: true, Items: state["sync"].(syncState).Items}
	if err := d.Drive(state); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls after a field change = %d, want 2", calls)
	}
}

func TestWatchOff(t *testing.T) {
	t.Run("never watched path fails", func(t *testing.T) {
		d := New()

		err := d.WatchOff("sync.isRunning", pubsub.NewListener("x", nil))
		if !errors.Is(err, ErrUnregisteredWatch) {
			t.Errorf("expected ErrUnregisteredWatch, got %v", err)
		}
	})

	t.Run("second removal fails", func(t *testing.T) {
		d := New()

		l := d.WatchOn("a", func(StateChange) error { return nil })
		if err := d.WatchOff("a", l); err != nil {
			t.Fatalf("first WatchOff: %v", err)
		}
		if err := d.WatchOff("a", l); !errors.Is(err, ErrUnregisteredWatch) {
			t.Errorf("expected ErrUnregisteredWatch, got %v", err)
		}
	})

	t.Run("removes exactly one listener", func(t *testing.T) {
		d := New()

		calls := 0
		fn := func(StateChange) error {
			calls++
			return nil
		}
		first := d.WatchOn("a", fn)
		d.WatchOn("a", fn)

		if err := d.WatchOff("a", first); err != nil {
			t.Fatalf("WatchOff: %v", err)
		}
		if d.WatchCount("a") != 1 {
			t.Errorf("expected 1 remaining listener, got %d", d.WatchCount("a"))
		}

		_ = d.Drive(map[string]any{"a": 1})
		if calls != 1 {
			t.Errorf("expected remaining listener to fire once, got %d", calls)
		}
	})

	t.Run("listener from another path fails", func(t *testing.T) {
		d := New()

		l := d.WatchOn("a", func(StateChange) error { return nil })
		d.WatchOn("b", func(StateChange) error { return nil })

		if err := d.WatchOff("b", l); !errors.Is(err, ErrUnregisteredWatch) {
			t.Errorf("expected ErrUnregisteredWatch, got %v", err)
		}
	})
}

func TestWatchReentrancy(t *testing.T) {
	d := New()

	added := false
	d.WatchOn("a", func(StateChange) error {
		if !added {
			added = true
			d.WatchOn("b", func(StateChange) error { return nil })
		}
		return nil
	})

	if err := d.Drive(map[string]any{"a": 1, "b": 2}); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if paths := d.WatchedPaths(); len(paths) != 2 || paths[1] != "b" {
		t.Errorf("expected 'b' to be appended, got %v", paths)
	}
}
