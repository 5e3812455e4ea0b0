package operator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sensorwatch/sensorwatch/monitor/internal/sensor"
)

func TestMetrics_CountsAlerts(t *testing.T) {
	m := NewMetrics("metrics")
	p := sensor.NewPressure()
	p.Subscribe(m)

	p.Update(20)   //nolint:errcheck
	p.Update(25)   //nolint:errcheck
	p.Update(1200) //nolint:errcheck

	if got := m.count("pressure", "low"); got != 2 {
		t.Errorf("low count: got %v, want 2", got)
	}
	if got := m.count("pressure", "out_of_range"); got != 1 {
		t.Errorf("out_of_range count: got %v, want 1", got)
	}
	if got := m.count("pressure", "critical"); got != 0 {
		t.Errorf("critical count: got %v, want 0", got)
	}
}

func TestMetrics_WriteText(t *testing.T) {
	m := NewMetrics("metrics")
	temp := sensor.NewTemperature()
	fuel := sensor.NewFuelLevel()
	temp.Subscribe(m)
	fuel.Subscribe(m)

	temp.Update(120) //nolint:errcheck
	fuel.Update(5)   //nolint:errcheck

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# TYPE sensorwatch_alerts_total counter",
		`sensorwatch_alerts_total{category="Nivel de Combustible",sensor="fuel_level",severity="low"} 1`,
		`sensorwatch_alerts_total{category="Temperatura",sensor="temperature",severity="out_of_range"} 1`,
		"# TYPE sensorwatch_last_alert_value gauge",
		`sensorwatch_last_alert_value{sensor="fuel_level"} 5`,
		`sensorwatch_last_alert_value{sensor="temperature"} 120`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q\n--- got ---\n%s", want, out)
		}
	}

	// Families are sorted by sensor, so fuel_level precedes temperature.
	if strings.Index(out, `sensor="fuel_level",severity`) > strings.Index(out, `sensor="temperature",severity`) {
		t.Error("alerts_total series are not sorted by sensor")
	}
}

func TestMetrics_Empty(t *testing.T) {
	m := NewMetrics("metrics")
	if fams := m.Families(); len(fams) != 0 {
		t.Errorf("Families on empty: got %d, want 0", len(fams))
	}
	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("WriteText on empty: got %q", buf.String())
	}
}

func TestMetrics_WriteFile(t *testing.T) {
	m := NewMetrics("metrics")
	s := sensor.NewHumidity()
	s.Subscribe(m)
	s.Update(101) //nolint:errcheck

	path := filepath.Join(t.TempDir(), "sensorwatch.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `sensorwatch_last_alert_value{sensor="humidity"} 101`) {
		t.Errorf("file content:\n%s", data)
	}
}
