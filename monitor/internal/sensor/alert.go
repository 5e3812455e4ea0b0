package sensor

import (
	"time"

	"github.com/google/uuid"

	"github.com/sensorwatch/sensorwatch/monitor/internal/policy"
)

// Alert is one policy violation delivered to every subscriber of a sensor.
// Text is the rendered message; the remaining fields keep the structured form.
type Alert struct {
	ID       uuid.UUID       `json:"id"`
	SensorID string          `json:"sensor_id"`
	Kind     policy.Kind     `json:"kind"`
	Category string          `json:"category"`
	Value    float64         `json:"value"`
	Severity policy.Severity `json:"severity"`
	Check    string          `json:"check"`
	Text     string          `json:"text"`
	RaisedAt time.Time       `json:"raised_at"`
}

func (a Alert) String() string { return a.Text }

// Observer receives alerts from one or more sensors.
//
// OnAlert is called synchronously from Sensor.Update, in subscription order.
// A returned error (or panic) is isolated to this observer: the remaining
// subscribers still receive the alert.
//
// Implementations should be comparable (typically pointer types): Unsubscribe
// cannot match an observer of a non-comparable type and leaves it subscribed.
type Observer interface {
	OnAlert(s *Sensor, a Alert) error
}

// Named is implemented by observers that want a readable name in logs and
// DispatchError values.
type Named interface {
	Name() string
}
