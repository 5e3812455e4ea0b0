package operator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sensorwatch/sensorwatch/monitor/internal/policy"
	"github.com/sensorwatch/sensorwatch/monitor/internal/sensor"
)

// --- helpers ----------------------------------------------------------------

func alert(text string) sensor.Alert {
	return sensor.Alert{SensorID: "temperature", Category: "Temperatura", Text: text}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

// --- console channels -------------------------------------------------------

func TestSecurity_WritesEveryAlert(t *testing.T) {
	var buf bytes.Buffer
	op := NewSecurity(&buf)
	s := sensor.NewTemperature()

	if err := op.OnAlert(s, alert("Alerta: Temperatura fuera de rango. Valor: 120")); err != nil {
		t.Fatalf("OnAlert: %v", err)
	}
	want := "Operador de Seguridad notificado: Alerta: Temperatura fuera de rango. Valor: 120\n"
	if buf.String() != want {
		t.Errorf("output: got %q, want %q", buf.String(), want)
	}
	if op.Name() != "security" {
		t.Errorf("Name: got %q", op.Name())
	}
}

func TestMaintenance_WritesEveryAlert(t *testing.T) {
	var buf bytes.Buffer
	op := NewMaintenance(&buf)

	op.OnAlert(sensor.NewFuelLevel(), alert("Alerta: Nivel de combustible bajo. Valor: 5")) //nolint:errcheck
	want := "Operador de Mantenimiento notificado: Alerta: Nivel de combustible bajo. Valor: 5\n"
	if buf.String() != want {
		t.Errorf("output: got %q, want %q", buf.String(), want)
	}
}

func TestManagement_KeywordFilter(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		renders bool
	}{
		{"no keyword", "Alerta: Temperatura fuera de rango. Valor: 120", false},
		{"crítico", "Alerta: Temperatura por debajo de nivel crítico. Valor: -5", true},
		{"grave", "Alerta: fuga grave. Valor: 3", true},
		{"critical", "Alert: Temperature below critical level. Value: -5", true},
		{"severe", "Alert: severe leak", true},
		{"substring inside word", "Alerta: nivel supercrítico", true},
		{"case sensitive", "Alerta: nivel CRÍTICO", false},
		{"unaccented", "Alerta: nivel critico", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			op := NewManagement(&buf)
			if err := op.OnAlert(sensor.NewTemperature(), alert(tc.text)); err != nil {
				t.Fatalf("OnAlert: %v", err)
			}
			if got := buf.Len() > 0; got != tc.renders {
				t.Errorf("rendered: got %v, want %v (output %q)", got, tc.renders, buf.String())
			}
			if tc.renders && !strings.HasPrefix(buf.String(), "Gerencia notificada: ") {
				t.Errorf("prefix: got %q", buf.String())
			}
		})
	}
}

func TestManagement_CustomKeywords(t *testing.T) {
	var buf bytes.Buffer
	op := NewManagement(&buf, "urgente")

	op.OnAlert(sensor.NewTemperature(), alert("nivel crítico")) //nolint:errcheck
	if buf.Len() != 0 {
		t.Errorf("default keyword should be replaced, got %q", buf.String())
	}
	op.OnAlert(sensor.NewTemperature(), alert("revisión urgente")) //nolint:errcheck
	if buf.Len() == 0 {
		t.Error("custom keyword: expected output")
	}
}

func TestKeywordFilter_Empty(t *testing.T) {
	f := KeywordFilter()
	if f(alert("anything crítico")) {
		t.Error("empty keyword list should accept nothing")
	}
	f = KeywordFilter("")
	if f(alert("anything")) {
		t.Error("empty keyword should not match every text")
	}
}

func TestOperator_WriteError(t *testing.T) {
	op := New("console", "> ", brokenWriter{}, nil)
	err := op.OnAlert(sensor.NewTemperature(), alert("x"))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("OnAlert: got %v, want wrapped write error", err)
	}
}

func TestPrefix_Languages(t *testing.T) {
	if got := Prefix(ChannelSecurity, policy.LangEN); got != "Security operator notified: " {
		t.Errorf("en security: got %q", got)
	}
	if got := Prefix(ChannelManagement, policy.LangES); got != "Gerencia notificada: " {
		t.Errorf("es management: got %q", got)
	}
	if got := Prefix(ChannelMaintenance, "xx"); got != "Operador de Mantenimiento notificado: " {
		t.Errorf("fallback: got %q", got)
	}
}

// --- end to end with a sensor ------------------------------------------------

func TestManagement_ThroughSensor(t *testing.T) {
	var buf bytes.Buffer
	s := sensor.NewTemperature()
	s.Subscribe(NewManagement(&buf))

	s.Update(120) //nolint:errcheck
	if buf.Len() != 0 {
		t.Fatalf("out of range alert should be filtered, got %q", buf.String())
	}

	s.Update(-5) //nolint:errcheck
	want := "Gerencia notificada: Alerta: Temperatura por debajo de nivel crítico. Valor: -5\n"
	if buf.String() != want {
		t.Errorf("output: got %q, want %q", buf.String(), want)
	}
}

func TestFailingOperator_DoesNotSilenceOthers(t *testing.T) {
	var buf bytes.Buffer
	s := sensor.NewTemperature()
	s.Subscribe(New("broken", "", brokenWriter{}, nil))
	s.Subscribe(NewSecurity(&buf))

	err := s.Update(120)
	var de *sensor.DispatchError
	if !errors.As(err, &de) || de.Observer != "broken" {
		t.Fatalf("Update: got %v, want DispatchError for broken", err)
	}
	if !strings.HasPrefix(buf.String(), "Operador de Seguridad notificado: ") {
		t.Errorf("security output: got %q", buf.String())
	}
}
