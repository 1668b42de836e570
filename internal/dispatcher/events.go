package dispatcher

import (
	"github.com/guilhermegouw/evman/internal/events"
	"github.com/guilhermegouw/evman/internal/pubsub"
)

// On registers fn for the plain event name.
func (d *Dispatcher) On(name events.Name, fn func(payload any)) *pubsub.Listener {
	l := d.Emitter().On(string(name), fn)
	log.Event("On", "event=%s listener=%s", name, l.ID())
	return l
}

// Once registers fn for a single delivery on channel.
func (d *Dispatcher) Once(channel string, fn func(payload any)) *pubsub.Listener {
	l := d.Emitter().Once(channel, fn)
	log.Event("Once", "channel=%s listener=%s", channel, l.ID())
	return l
}

// Off removes l from the plain event name. Unknown listeners are ignored.
func (d *Dispatcher) Off(name events.Name, l *pubsub.Listener) {
	d.RemoveListener(string(name), l)
}

// RemoveListener removes l from any channel by its raw identifier.
// Unknown listeners are ignored.
func (d *Dispatcher) RemoveListener(channel string, l *pubsub.Listener) {
	if d.Emitter().Off(channel, l) && l != nil {
		log.Event("Off", "channel=%s listener=%s", channel, l.ID())
	}
}

// Emit calls every listener of name synchronously in registration order.
// The payload defaults to nil. Listener panics are not recovered. Reports
// whether the event had listeners. Names outside the closed event set,
// filter channels included, are never delivered.
func (d *Dispatcher) Emit(name events.Name, payload ...any) bool {
	if !name.Valid() {
		log.Event("Emit", "unknown event=%q", name)
		return false
	}
	var p any
	if len(payload) > 0 {
		p = payload[0]
	}
	return d.Emitter().Emit(string(name), p)
}

// ListenerCount returns the number of listeners for the plain event name.
func (d *Dispatcher) ListenerCount(name events.Name) int {
	return d.Emitter().ListenerCount(string(name))
}

// Channels returns every channel, plain and filter, that has listeners.
func (d *Dispatcher) Channels() []string {
	return d.Emitter().Channels()
}
