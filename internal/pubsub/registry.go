package pubsub

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// EmitterInfo provides debug information about a registered emitter.
type EmitterInfo interface {
	Name() string
	Channels() []string
	ListenerCount(channel string) int
	Metrics() EmitterMetrics
}

// Registry tracks emitters for debugging and introspection.
type Registry struct {
	emitters map[string]EmitterInfo
	mu       sync.RWMutex
}

// NewRegistry creates a new emitter registry.
func NewRegistry() *Registry {
	return &Registry{
		emitters: make(map[string]EmitterInfo),
	}
}

// Register adds an emitter to the registry, replacing any previous emitter
// with the same name.
func (r *Registry) Register(name string, emitter EmitterInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitters[name] = emitter
}

// Unregister removes an emitter from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.emitters, name)
}

// Get retrieves an emitter by name.
func (r *Registry) Get(name string) (EmitterInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.emitters[name]
	return e, ok
}

// List returns all registered emitter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.emitters))
	for name := range r.emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllMetrics returns metrics for all registered emitters.
func (r *Registry) AllMetrics() map[string]EmitterMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metrics := make(map[string]EmitterMetrics, len(r.emitters))
	for name, emitter := range r.emitters {
		metrics[name] = emitter.Metrics()
	}
	return metrics
}

// DebugString returns a formatted debug string for all emitters.
func (r *Registry) DebugString() string {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== Emitter Registry (%d emitters) ===\n", len(r.emitters)))

	for _, name := range names {
		emitter, ok := r.emitters[name]
		if !ok {
			continue
		}
		m := emitter.Metrics()
		sb.WriteString(fmt.Sprintf(
			"  %s: listeners=%d (peak=%d), channels=%d, emitted=%d, delivered=%d\n",
			name, m.ListenerCount, m.ListenerPeak, m.ChannelCount,
			m.EmitCount, m.DeliverCount,
		))
		for _, ch := range emitter.Channels() {
			sb.WriteString(fmt.Sprintf("    %s: %d\n", ch, emitter.ListenerCount(ch)))
		}
	}

	return sb.String()
}
