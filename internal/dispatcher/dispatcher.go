// Package dispatcher combines plain events, filter chains, and state
// watching over a single listener registry.
//
// A Dispatcher is constructed explicitly and passed to its consumers; Reset
// discards every listener and all watch state, which is mainly useful for
// test isolation.
package dispatcher

import (
	"reflect"
	"sync"

	"github.com/guilhermegouw/evman/internal/debug"
	"github.com/guilhermegouw/evman/internal/pubsub"
)

// DefaultName is the emitter name used when none is configured.
const DefaultName = "dispatcher"

var log = debug.Component("dispatcher")

// EqualFunc reports deep structural equality of two values.
type EqualFunc func(a, b any) bool

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithName sets the name the emitter is registered under.
func WithName(name string) Option {
	return func(d *Dispatcher) {
		d.name = name
	}
}

// WithEqualFunc replaces the deep-equality check used by filter chains.
func WithEqualFunc(eq EqualFunc) Option {
	return func(d *Dispatcher) {
		if eq != nil {
			d.equal = eq
		}
	}
}

// WithRegistry registers the dispatcher's emitter in r for introspection.
// The registration is refreshed on Reset.
func WithRegistry(r *pubsub.Registry) Option {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// Dispatcher owns the listener registry and the state-watch bookkeeping.
type Dispatcher struct { //nolint:govet // fieldalignment: preserving logical field order
	name     string
	equal    EqualFunc
	registry *pubsub.Registry

	mu      sync.Mutex
	emitter *pubsub.Emitter
	watch   *watchState

	// driveMu serializes Drive so snapshot comparisons see a consistent
	// previous value.
	driveMu sync.Mutex
}

// New creates a dispatcher with an empty registry.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		name:  DefaultName,
		equal: reflect.DeepEqual,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Reset()
	return d
}

// Name returns the dispatcher's name.
func (d *Dispatcher) Name() string {
	return d.name
}

// Reset replaces the registry wholesale: all plain, filter, and watch
// listeners are dropped along with the watched paths and previous values.
// Filter chains already running keep their captured listener lists.
func (d *Dispatcher) Reset() {
	emitter := pubsub.NewEmitter(d.name)

	d.mu.Lock()
	d.emitter = emitter
	d.watch = newWatchState()
	d.mu.Unlock()

	if d.registry != nil {
		d.registry.Register(d.name, emitter)
	}
	log.Event("Reset", "name=%s", d.name)
}

// Emitter returns the current underlying emitter. It changes on Reset.
func (d *Dispatcher) Emitter() *pubsub.Emitter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.emitter
}

// Metrics returns the current emitter's metrics.
func (d *Dispatcher) Metrics() pubsub.EmitterMetrics {
	return d.Emitter().Metrics()
}
