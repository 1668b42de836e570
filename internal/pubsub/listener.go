package pubsub

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Listener is the handle returned by every registration. Removal is by
// handle identity, never by comparing handlers.
type Listener struct {
	id      string
	channel string
	handler any
	once    bool
	fired   atomic.Bool
}

func newListener(channel string, handler any, once bool) *Listener {
	return &Listener{
		id:      uuid.New().String(),
		channel: channel,
		handler: handler,
		once:    once,
	}
}

// ID returns a unique identifier for debugging.
func (l *Listener) ID() string {
	return l.id
}

// Channel returns the channel the listener was registered on.
func (l *Listener) Channel() string {
	return l.channel
}

// Handler returns the callback supplied at registration.
func (l *Listener) Handler() any {
	return l.handler
}

// Once reports whether the listener deregisters after its first call.
func (l *Listener) Once() bool {
	return l.once
}

// NewListener creates a handle that is not attached to any emitter, for
// owners that keep their own listener lists.
func NewListener(channel string, handler any) *Listener {
	return newListener(channel, handler, false)
}
