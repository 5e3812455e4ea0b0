package sensor

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sensorwatch/sensorwatch/monitor/internal/policy"
)

// Sensor is a measurable entity: it holds the latest measurement, evaluates
// its policy on every update and notifies subscribed observers of each
// violation.
//
// Sensor is safe for concurrent use. Notification iterates over a snapshot of
// the subscriber list, so observers may subscribe or unsubscribe from inside
// OnAlert; such changes take effect from the next notification pass.
type Sensor struct {
	id     string
	policy *policy.Policy

	mu          sync.RWMutex
	value       float64
	hasValue    bool
	updatedAt   time.Time
	subscribers []Observer

	now   func() time.Time // injectable for deterministic tests
	newID func() uuid.UUID
}

// New creates a generic sensor over [min, max] labelled category, using the
// default alert language. The category doubles as the sensor ID.
func New(min, max float64, category string) (*Sensor, error) {
	p, err := policy.New(policy.KindGeneric, category, policy.Range{Min: min, Max: max}, policy.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("sensor %q: %w", category, err)
	}
	return NewWithPolicy(category, p), nil
}

// NewWithPolicy creates a sensor identified by id that evaluates p.
func NewWithPolicy(id string, p *policy.Policy) *Sensor {
	return &Sensor{
		id:     id,
		policy: p,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// ID returns the sensor identifier.
func (s *Sensor) ID() string { return s.id }

// Kind returns the sensor kind.
func (s *Sensor) Kind() policy.Kind { return s.policy.Kind }

// Category returns the display label used in alert text.
func (s *Sensor) Category() string { return s.policy.Category }

// Range returns the configured safe range.
func (s *Sensor) Range() policy.Range { return s.policy.Range }

// Value returns the latest measurement. ok is false until the first Update.
func (s *Sensor) Value() (v float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.hasValue
}

// UpdatedAt returns the time of the latest Update, or the zero time.
func (s *Sensor) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Subscribe appends o to the subscriber list. There is no uniqueness check:
// subscribing the same observer twice delivers every alert to it twice.
func (s *Sensor) Subscribe(o Observer) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, o)
	n := len(s.subscribers)
	s.mu.Unlock()

	slog.Debug("sensor: observer subscribed",
		"sensor", s.id, "observer", observerName(o), "subscribers", n)
}

// Unsubscribe removes the first subscription matching o. It reports whether
// a subscription was removed; unknown observers are ignored, as are
// observers whose dynamic type is not comparable (they can never match).
func (s *Sensor) Unsubscribe(o Observer) bool {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == o {
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
			slog.Debug("sensor: observer unsubscribed",
				"sensor", s.id, "observer", observerName(o), "subscribers", len(s.subscribers))
			return true
		}
	}
	return false
}

// Subscribers returns a copy of the subscriber list in notification order.
func (s *Sensor) Subscribers() []Observer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Observer(nil), s.subscribers...)
}

// Update records v as the current measurement and evaluates the policy.
// The value is stored whether or not any check fires. Each violation is
// delivered in its own notification pass, base range check first.
//
// The returned error joins every *DispatchError raised by observers; it is
// nil when all deliveries succeeded or nothing fired.
func (s *Sensor) Update(v float64) error {
	s.mu.Lock()
	s.value = v
	s.hasValue = true
	s.updatedAt = s.now()
	raisedAt := s.updatedAt
	s.mu.Unlock()

	violations := s.policy.Evaluate(v)
	if len(violations) == 0 {
		return nil
	}

	var errs []error
	for _, viol := range violations {
		a := Alert{
			ID:       s.newID(),
			SensorID: s.id,
			Kind:     s.policy.Kind,
			Category: s.policy.Category,
			Value:    v,
			Severity: viol.Severity,
			Check:    viol.Check,
			Text:     viol.Text,
			RaisedAt: raisedAt,
		}
		slog.Info("sensor: alert raised",
			"sensor", s.id,
			"check", a.Check,
			"severity", a.Severity,
			"value", v,
		)
		if err := s.NotifyAll(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyAll delivers a to every subscriber synchronously, in subscription
// order. A failing or panicking observer is logged and skipped; the pass
// continues with the next subscriber.
func (s *Sensor) NotifyAll(a Alert) error {
	targets := s.Subscribers()

	var errs []error
	for _, o := range targets {
		if err := s.deliver(o, a); err != nil {
			de := &DispatchError{
				SensorID: s.id,
				Observer: observerName(o),
				AlertID:  a.ID,
				Err:      err,
			}
			slog.Error("sensor: dispatch failed",
				"sensor", s.id,
				"observer", de.Observer,
				"alert", a.ID,
				"err", err,
			)
			errs = append(errs, de)
		}
	}
	return errors.Join(errs...)
}

func (s *Sensor) deliver(o Observer, a Alert) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return o.OnAlert(s, a)
}
