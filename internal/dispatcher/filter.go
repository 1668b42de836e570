package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/guilhermegouw/evman/internal/pubsub"
)

// filterPrefix keeps filter channels disjoint from plain event names.
const filterPrefix = "filter:"

type noChange struct{}

// NoChange is returned by a FilterFunc that leaves the value as it is.
var NoChange any = noChange{}

// FilterFunc transforms value. It returns NoChange to keep the current value.
type FilterFunc func(ctx context.Context, value any) (any, error)

// FilterChannel returns the registry channel for a filter name.
func FilterChannel(name string) string {
	return filterPrefix + name
}

// IsFilterChannel reports whether channel belongs to the filter namespace.
func IsFilterChannel(channel string) bool {
	return strings.HasPrefix(channel, filterPrefix)
}

// FilterOn registers fn as the last transformer of the named filter.
func (d *Dispatcher) FilterOn(name string, fn FilterFunc) *pubsub.Listener {
	l := d.Emitter().On(FilterChannel(name), fn)
	log.Event("FilterOn", "filter=%s listener=%s", name, l.ID())
	return l
}

// FilterOff removes l from the named filter. Unknown listeners are ignored.
func (d *Dispatcher) FilterOff(name string, l *pubsub.Listener) {
	d.RemoveListener(FilterChannel(name), l)
}

// FilterCount returns the number of transformers registered for name.
func (d *Dispatcher) FilterCount(name string) int {
	return d.Emitter().ListenerCount(FilterChannel(name))
}

// FilterEmit threads input through every transformer of the named filter,
// one at a time in registration order. The transformer list is captured
// when the call starts. A result that is NoChange, or deeply equal to the
// current value, leaves the current value in place. The first transformer
// error aborts the chain.
func (d *Dispatcher) FilterEmit(ctx context.Context, name string, input any) (any, error) {
	listeners := d.Emitter().Listeners(FilterChannel(name))
	output := input
	if len(listeners) == 0 {
		return output, nil
	}

	runID := uuid.New().String()
	log.Event("FilterEmit", "filter=%s run=%s listeners=%d", name, runID, len(listeners))

	for i, l := range listeners {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}

		fn, ok := l.Handler().(FilterFunc)
		if !ok {
			return nil, fmt.Errorf("filter %q: listener %s has handler type %T", name, l.ID(), l.Handler())
		}

		result, err := fn(ctx, output)
		if err != nil {
			log.Error(err, fmt.Sprintf("filter %s run %s step %d", name, runID, i))
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}

		if result == NoChange {
			continue
		}
		if !d.equal(result, output) {
			output = result
		}
	}

	return output, nil
}
