package config

// Default returns the built-in demonstration: four sensors watched by three
// operators, fed a reading sequence that exercises every alert path.
//
//	temperature ← security, management   reading 120 (out of range)
//	pressure    ← security, maintenance  readings 50 (ok), 20 (low pressure)
//	humidity    (no subscribers)
//	fuel_level  ← maintenance            reading 5 (low fuel)
func Default() *Config {
	cfg := defaults()
	cfg.Monitor.Operators = []OperatorConfig{
		{Name: "seguridad", Channel: "security"},
		{Name: "mantenimiento", Channel: "maintenance"},
		{Name: "gerencia", Channel: "management"},
	}
	cfg.Monitor.Sensors = []SensorConfig{
		{ID: "temperature", Kind: "temperature", Subscribers: []string{"seguridad", "gerencia"}},
		{ID: "pressure", Kind: "pressure", Subscribers: []string{"seguridad", "mantenimiento"}},
		{ID: "humidity", Kind: "humidity"},
		{ID: "fuel_level", Kind: "fuel_level", Subscribers: []string{"mantenimiento"}},
	}
	cfg.Monitor.Readings = []Reading{
		{Sensor: "temperature", Value: value(120)},
		{Sensor: "pressure", Value: value(50)},
		{Sensor: "pressure", Value: value(20)},
		{Sensor: "fuel_level", Value: value(5)},
	}
	return cfg
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func value(v float64) *float64 { return &v }
