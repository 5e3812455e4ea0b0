package operator

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/sensorwatch/sensorwatch/monitor/internal/sensor"
)

// Exposed metric names.
const (
	metricAlertsTotal    = "sensorwatch_alerts_total"
	metricLastAlertValue = "sensorwatch_last_alert_value"
)

type alertKey struct {
	sensor   string
	category string
	severity string
}

// Metrics counts alerts per sensor and severity and remembers the last value
// that raised an alert on each sensor. It renders Prometheus text exposition.
//
// Metrics is safe for concurrent use.
type Metrics struct {
	name string

	mu     sync.Mutex
	counts map[alertKey]float64
	last   map[string]float64
}

// NewMetrics returns an empty Metrics operator.
func NewMetrics(name string) *Metrics {
	return &Metrics{
		name:   name,
		counts: make(map[alertKey]float64),
		last:   make(map[string]float64),
	}
}

// Name returns the operator name.
func (m *Metrics) Name() string { return m.name }

// OnAlert implements sensor.Observer.
func (m *Metrics) OnAlert(s *sensor.Sensor, a sensor.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[alertKey{sensor: s.ID(), category: a.Category, severity: string(a.Severity)}]++
	m.last[s.ID()] = a.Value
	return nil
}

// count returns the number of alerts seen for sensorID with severity.
func (m *Metrics) count(sensorID, severity string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n float64
	for k, v := range m.counts {
		if k.sensor == sensorID && k.severity == severity {
			n += v
		}
	}
	return n
}

// Families returns the current metric families, sorted by label values so
// the exposition output is stable.
func (m *Metrics) Families() []*dto.MetricFamily {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]alertKey, 0, len(m.counts))
	for k := range m.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sensor != keys[j].sensor {
			return keys[i].sensor < keys[j].sensor
		}
		return keys[i].severity < keys[j].severity
	})

	total := &dto.MetricFamily{
		Name: proto.String(metricAlertsTotal),
		Help: proto.String("Alerts delivered to this operator, by sensor and severity."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, k := range keys {
		total.Metric = append(total.Metric, &dto.Metric{
			Label: []*dto.LabelPair{
				label("category", k.category),
				label("sensor", k.sensor),
				label("severity", k.severity),
			},
			Counter: &dto.Counter{Value: proto.Float64(m.counts[k])},
		})
	}

	sensors := make([]string, 0, len(m.last))
	for id := range m.last {
		sensors = append(sensors, id)
	}
	sort.Strings(sensors)

	last := &dto.MetricFamily{
		Name: proto.String(metricLastAlertValue),
		Help: proto.String("Measurement that raised the most recent alert, by sensor."),
		Type: dto.MetricType_GAUGE.Enum(),
	}
	for _, id := range sensors {
		last.Metric = append(last.Metric, &dto.Metric{
			Label: []*dto.LabelPair{label("sensor", id)},
			Gauge: &dto.Gauge{Value: proto.Float64(m.last[id])},
		})
	}

	var out []*dto.MetricFamily
	for _, mf := range []*dto.MetricFamily{total, last} {
		if len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	return out
}

// WriteText writes the metric families in Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	for _, mf := range m.Families() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile renders the exposition text to path, replacing any previous file.
func (m *Metrics) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("metrics: write %q: %w", path, err)
	}
	return nil
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}
