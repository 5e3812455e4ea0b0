package sensor

import "github.com/sensorwatch/sensorwatch/monitor/internal/policy"

// NewKind creates a sensor of the given kind with its default range and
// category in lang. The kind name is used as the sensor ID.
func NewKind(kind policy.Kind, lang policy.Language) (*Sensor, error) {
	p, err := policy.New(kind, "", policy.DefaultRange(kind), lang)
	if err != nil {
		return nil, err
	}
	return NewWithPolicy(string(kind), p), nil
}

// NewTemperature returns a temperature sensor over [0, 100].
func NewTemperature() *Sensor { return mustKind(policy.KindTemperature) }

// NewPressure returns a pressure sensor over [0, 1000] that also raises a
// low-pressure alert below 30.
func NewPressure() *Sensor { return mustKind(policy.KindPressure) }

// NewHumidity returns a humidity sensor over [0, 100].
func NewHumidity() *Sensor { return mustKind(policy.KindHumidity) }

// NewFuelLevel returns a fuel level sensor over [0, 100] that also raises a
// low-fuel alert below 10.
func NewFuelLevel() *Sensor { return mustKind(policy.KindFuelLevel) }

func mustKind(kind policy.Kind) *Sensor {
	s, err := NewKind(kind, policy.DefaultLanguage)
	if err != nil {
		panic(err)
	}
	return s
}
