package dispatcher

import (
	"context"
	"testing"

	"github.com/guilhermegouw/evman/internal/events"
	"github.com/guilhermegouw/evman/internal/pubsub"
)

func TestPlainEvents(t *testing.T) {
	t.Run("emit delivers to listeners in order", func(t *testing.T) {
		d := New()

		var got []string
		d.On(events.ItemChange, func(p any) {
			got = append(got, "a:"+p.(events.ItemChangeEvent).ItemID)
		})
		d.On(events.ItemChange, func(p any) {
			got = append(got, "b:"+p.(events.ItemChangeEvent).ItemID)
		})

		if !d.Emit(events.ItemChange, events.NewItemChangeEvent("note", "n1", events.ItemUpdated)) {
			t.Error("Emit should report listeners")
		}

		if len(got) != 2 || got[0] != "a:n1" || got[1] != "b:n1" {
			t.Errorf("unexpected deliveries: %v", got)
		}
	})

	t.Run("payload defaults to nil", func(t *testing.T) {
		d := New()

		var got any = "unset"
		d.On(events.SyncStart, func(p any) { got = p })
		d.Emit(events.SyncStart)

		if got != nil {
			t.Errorf("expected nil payload, got %v", got)
		}
	})

	t.Run("off removes by handle", func(t *testing.T) {
		d := New()

		calls := 0
		l := d.On(events.AlarmChange, func(any) { calls++ })
		d.Off(events.AlarmChange, l)
		d.Emit(events.AlarmChange)

		if calls != 0 {
			t.Errorf("removed listener was called %d times", calls)
		}
		if d.ListenerCount(events.AlarmChange) != 0 {
			t.Error("expected no listeners")
		}
	})

	t.Run("off is silent for unknown listeners", func(t *testing.T) {
		d := New()

		d.Off(events.AlarmChange, nil)
		d.Off(events.AlarmChange, pubsub.NewListener("x", nil))
		d.RemoveListener("never-used", nil)
	})

	t.Run("once fires a single time", func(t *testing.T) {
		d := New()

		calls := 0
		d.Once(string(events.SessionEstablished), func(any) { calls++ })
		d.Emit(events.SessionEstablished)
		d.Emit(events.SessionEstablished)

		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("listener panics reach the emitter caller", func(t *testing.T) {
		d := New()
		d.On(events.KeymapChange, func(any) { panic("listener failed") })

		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		d.Emit(events.KeymapChange)
	})

	t.Run("emit without listeners reports false", func(t *testing.T) {
		d := New()
		if d.Emit(events.NoteResourceIndexed) {
			t.Error("expected false without listeners")
		}
	})
}

func TestEmitUnknownName(t *testing.T) {
	t.Run("filter channel is not reachable", func(t *testing.T) {
		d := New()

		called := false
		d.FilterOn("x", func(_ context.Context, v any) (any, error) {
			called = true
			return v, nil
		})

		if d.Emit(events.Name(FilterChannel("x")), "payload") {
			t.Error("emitting a filter channel should report no listeners")
		}
		if called {
			t.Error("filter transformer should not run from Emit")
		}
	})

	t.Run("names outside the set are dropped", func(t *testing.T) {
		d := New()

		if d.Emit(events.Name("noSuchEvent")) {
			t.Error("unknown event should report no listeners")
		}
	})
}
