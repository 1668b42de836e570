// Package pubsub provides the named-channel listener registry used by the
// dispatcher.
package pubsub

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Handler is the callback shape Emit delivers to.
type Handler func(payload any)

// Emitter is a synchronous listener registry keyed by channel name.
// Listeners are kept in registration order. Emit snapshots the listener list
// under the lock and calls handlers outside it, so handlers may register or
// remove listeners re-entrantly.
type Emitter struct { //nolint:govet // fieldalignment: preserving logical field order
	name      string
	listeners map[string][]*Listener
	mu        sync.RWMutex

	// Metrics (atomic for lock-free reads)
	emitCount    atomic.Int64
	deliverCount atomic.Int64
	listenerPeak atomic.Int32
	listenerCurr atomic.Int32
}

// NewEmitter creates an empty emitter.
func NewEmitter(name string) *Emitter {
	return &Emitter{
		name:      name,
		listeners: make(map[string][]*Listener),
	}
}

// Name returns the emitter's name for debugging.
func (e *Emitter) Name() string {
	return e.name
}

// On registers handler on channel and returns its handle. The handler is
// stored as given; Emit only delivers to Handler or func(any) values, other
// shapes are invoked by their owner through Listeners.
func (e *Emitter) On(channel string, handler any) *Listener {
	return e.add(newListener(channel, handler, false))
}

// Once registers a handler that is removed right before its first delivery.
func (e *Emitter) Once(channel string, handler any) *Listener {
	return e.add(newListener(channel, handler, true))
}

func (e *Emitter) add(l *Listener) *Listener {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.listeners[l.channel] = append(e.listeners[l.channel], l)

	curr := e.listenerCurr.Add(1)
	for {
		peak := e.listenerPeak.Load()
		if curr <= peak || e.listenerPeak.CompareAndSwap(peak, curr) {
			break
		}
	}

	return l
}

// Off removes l from channel. It is a no-op when the channel has no
// listeners or l is not registered there. Reports whether l was removed.
func (e *Emitter) Off(channel string, l *Listener) bool {
	if l == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.removeLocked(channel, l)
}

func (e *Emitter) removeLocked(channel string, l *Listener) bool {
	list := e.listeners[channel]
	for i, existing := range list {
		if existing != l {
			continue
		}

		// Copy instead of splicing in place: snapshots taken by in-flight
		// emits share the old backing array.
		next := make([]*Listener, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(e.listeners, channel)
		} else {
			e.listeners[channel] = next
		}
		e.listenerCurr.Add(-1)
		return true
	}
	return false
}

// Listeners returns a snapshot of channel's listeners in registration order.
// Later registrations and removals do not affect the returned slice.
func (e *Emitter) Listeners(channel string) []*Listener {
	e.mu.RLock()
	defer e.mu.RUnlock()

	list := e.listeners[channel]
	if len(list) == 0 {
		return nil
	}
	snapshot := make([]*Listener, len(list))
	copy(snapshot, list)
	return snapshot
}

// ListenerCount returns the number of listeners on channel.
func (e *Emitter) ListenerCount(channel string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[channel])
}

// Channels returns every channel with at least one listener, sorted.
func (e *Emitter) Channels() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	channels := make([]string, 0, len(e.listeners))
	for ch := range e.listeners {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	return channels
}

// Emit calls every listener on channel with payload, synchronously and in
// registration order. Handler panics propagate to the caller and skip the
// remaining listeners. Reports whether the channel had listeners.
func (e *Emitter) Emit(channel string, payload any) bool {
	listeners := e.Listeners(channel)
	if len(listeners) == 0 {
		return false
	}

	e.emitCount.Add(1)

	for _, l := range listeners {
		if l.once && !e.claimOnce(channel, l) {
			continue
		}
		e.deliverCount.Add(1)
		if err := Deliver(l, payload); err != nil {
			panic(err)
		}
	}
	return true
}

// claimOnce removes a once listener before its delivery. It returns false if
// another emit already consumed it.
func (e *Emitter) claimOnce(channel string, l *Listener) bool {
	if !l.fired.CompareAndSwap(false, true) {
		return false
	}
	e.Off(channel, l)
	return true
}

// Deliver invokes l's handler with payload when it has an emit-compatible
// shape.
func Deliver(l *Listener, payload any) error {
	switch h := l.handler.(type) {
	case Handler:
		h(payload)
	case func(any):
		h(payload)
	case func():
		h()
	default:
		return fmt.Errorf("pubsub: listener %s on %q has handler type %T, not deliverable by Emit", l.id, l.channel, l.handler)
	}
	return nil
}

// Metrics returns the emitter's metrics for debugging.
func (e *Emitter) Metrics() EmitterMetrics {
	e.mu.RLock()
	channels := len(e.listeners)
	e.mu.RUnlock()

	return EmitterMetrics{
		Name:          e.name,
		EmitCount:     e.emitCount.Load(),
		DeliverCount:  e.deliverCount.Load(),
		ListenerCount: int(e.listenerCurr.Load()),
		ListenerPeak:  int(e.listenerPeak.Load()),
		ChannelCount:  channels,
	}
}

// EmitterMetrics contains emitter statistics for debugging.
type EmitterMetrics struct {
	Name          string
	EmitCount     int64
	DeliverCount  int64
	ListenerCount int
	ListenerPeak  int
	ChannelCount  int
}
