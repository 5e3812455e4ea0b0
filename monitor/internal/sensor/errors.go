package sensor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sensorwatch/sensorwatch/monitor/internal/policy"
)

// ErrInvalidRange is returned when a sensor is constructed with min > max.
var ErrInvalidRange = policy.ErrInvalidRange

// DispatchError records the failure of a single observer during a
// notification pass. Other observers in the same pass are unaffected.
type DispatchError struct {
	SensorID string
	Observer string
	AlertID  uuid.UUID
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("sensor %q: observer %s failed on alert %s: %v",
		e.SensorID, e.Observer, e.AlertID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// observerName returns a log-friendly identifier for o.
func observerName(o Observer) string {
	if n, ok := o.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", o)
}
