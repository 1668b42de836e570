package dispatcher

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/guilhermegouw/evman/internal/debug"
	"github.com/guilhermegouw/evman/internal/pubsub"
	"github.com/guilhermegouw/evman/internal/statepath"
)

// StateChange is handed to watch listeners when a watched path changes.
type StateChange struct {
	Path  string
	Value any
}

// WatchFunc receives state changes for one path.
type WatchFunc func(change StateChange) error

type watchState struct {
	// paths is append-only: a path stays watched after its last listener
	// is removed.
	paths     []string
	listeners map[string][]*pubsub.Listener
	previous  map[string]any
}

func newWatchState() *watchState {
	return &watchState{
		listeners: make(map[string][]*pubsub.Listener),
		previous:  make(map[string]any),
	}
}

// WatchOn registers fn for changes at the dot-delimited path. The first
// registration for a path adds it to the watched set.
func (d *Dispatcher) WatchOn(path string, fn WatchFunc) *pubsub.Listener {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.watch
	if _, ok := w.listeners[path]; !ok {
		w.listeners[path] = nil
		w.paths = append(w.paths, path)
	}

	l := pubsub.NewListener(path, fn)
	w.listeners[path] = append(w.listeners[path], l)

	log.Event("WatchOn", "path=%s listener=%s", path, l.ID())
	return l
}

// WatchOff removes exactly one registration of l from path. It fails with
// ErrUnregisteredWatch if path was never watched or l is not among its
// listeners. The path itself stays in the watched set.
func (d *Dispatcher) WatchOff(path string, l *pubsub.Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.watch
	list, ok := w.listeners[path]
	if !ok {
		return fmt.Errorf("%w: path %q is not watched", ErrUnregisteredWatch, path)
	}

	for i, existing := range list {
		if existing != l {
			continue
		}
		next := make([]*pubsub.Listener, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		w.listeners[path] = next

		log.Event("WatchOff", "path=%s listener=%s", path, l.ID())
		return nil
	}

	return fmt.Errorf("%w: listener not registered on path %q", ErrUnregisteredWatch, path)
}

// WatchedPaths returns the watched set in first-registration order.
func (d *Dispatcher) WatchedPaths() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	paths := make([]string, len(d.watch.paths))
	copy(paths, d.watch.paths)
	return paths
}

// WatchCount returns the number of listeners on path.
func (d *Dispatcher) WatchCount(path string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.watch.listeners[path])
}

// Drive compares every watched path in state against the value seen on the
// previous call and notifies the path's listeners when it differs. Values
// are compared with statepath.Identical; a path seen for the first time
// always counts as changed.
//
// Paths are processed in watched-set order and each path's listeners run
// before the next path is resolved. An invalid path or a listener error
// stops the drive, leaving the effects on earlier paths in place.
func (d *Dispatcher) Drive(state any) error {
	d.driveMu.Lock()
	defer d.driveMu.Unlock()

	d.mu.Lock()
	w := d.watch
	paths := make([]string, len(w.paths))
	copy(paths, w.paths)
	d.mu.Unlock()

	if len(paths) == 0 {
		return nil
	}

	driveID := ""
	if debug.IsEnabled() {
		driveID = uuid.New().String()
	}

	for _, path := range paths {
		lookup := statepath.Resolve(state, path)
		if err := lookup.Err(); err != nil {
			log.Error(err, "drive "+driveID)
			return err
		}

		listeners, changed := d.observe(w, path, lookup.Value)
		if !changed || len(listeners) == 0 {
			continue
		}

		log.Event("Drive", "drive=%s path=%s listeners=%d", driveID, path, len(listeners))

		for _, l := range listeners {
			fn, ok := l.Handler().(WatchFunc)
			if !ok {
				return fmt.Errorf("watch %q: listener %s has handler type %T", path, l.ID(), l.Handler())
			}
			value, err := freeze(lookup.Value)
			if err != nil {
				return fmt.Errorf("watch %q: freezing value: %w", path, err)
			}
			if err := fn(StateChange{Path: path, Value: value}); err != nil {
				return fmt.Errorf("watch %q: %w", path, err)
			}
		}
	}

	return nil
}

// observe records value as the latest for path and returns the path's
// current listeners when it changed.
func (d *Dispatcher) observe(w *watchState, path string, value any) ([]*pubsub.Listener, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, seen := w.previous[path]
	if seen && statepath.Identical(prev, value) {
		return nil, false
	}
	w.previous[path] = value

	list := w.listeners[path]
	snapshot := make([]*pubsub.Listener, len(list))
	copy(snapshot, list)
	return snapshot, true
}
