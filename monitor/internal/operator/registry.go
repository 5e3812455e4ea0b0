package operator

import (
	"fmt"
	"sync"

	"github.com/sensorwatch/sensorwatch/monitor/internal/sensor"
)

// Registry maps stable operator names to observers, so sensors can be wired
// by name from configuration. The registry does not own the observers.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]sensor.Observer
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]sensor.Observer)}
}

// Register adds o under name. Names must be unique and non-empty.
func (r *Registry) Register(name string, o sensor.Observer) error {
	if name == "" {
		return fmt.Errorf("registry: empty operator name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[name]; ok {
		return fmt.Errorf("registry: operator %q already registered", name)
	}
	r.byKey[name] = o
	r.order = append(r.order, name)
	return nil
}

// Get returns the observer registered under name.
func (r *Registry) Get(name string) (sensor.Observer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byKey[name]
	return o, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Count returns the number of registered operators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// Subscribe resolves names and subscribes each observer to s, in order.
// Nothing is subscribed if any name is unknown.
func (r *Registry) Subscribe(s *sensor.Sensor, names ...string) error {
	obs, err := r.resolve(names)
	if err != nil {
		return fmt.Errorf("subscribe %q: %w", s.ID(), err)
	}
	for _, o := range obs {
		s.Subscribe(o)
	}
	return nil
}

// Unsubscribe resolves names and removes one subscription per name from s.
// Nothing is removed if any name is unknown.
func (r *Registry) Unsubscribe(s *sensor.Sensor, names ...string) error {
	obs, err := r.resolve(names)
	if err != nil {
		return fmt.Errorf("unsubscribe %q: %w", s.ID(), err)
	}
	for _, o := range obs {
		s.Unsubscribe(o)
	}
	return nil
}

func (r *Registry) resolve(names []string) ([]sensor.Observer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]sensor.Observer, 0, len(names))
	for _, n := range names {
		o, ok := r.byKey[n]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", n)
		}
		out = append(out, o)
	}
	return out, nil
}
