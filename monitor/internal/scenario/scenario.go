package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sensorwatch/sensorwatch/monitor/internal/config"
	"github.com/sensorwatch/sensorwatch/monitor/internal/operator"
	"github.com/sensorwatch/sensorwatch/monitor/internal/policy"
	"github.com/sensorwatch/sensorwatch/monitor/internal/sensor"
)

// Result summarises one Run.
type Result struct {
	Readings       int // readings that updated a sensor value
	DispatchErrors int // observer deliveries that failed
}

// Monitor is a set of sensors wired to operators according to a config.
type Monitor struct {
	cfg      config.MonitorConfig
	sensors  map[string]*sensor.Sensor
	order    []string
	registry *operator.Registry
	metrics  []*operator.Metrics
	closers  []io.Closer
}

// Build constructs sensors and operators from cfg and applies the initial
// subscriptions. Console operators write to out.
func Build(cfg config.MonitorConfig, out io.Writer) (*Monitor, error) {
	lang := cfg.Lang()
	m := &Monitor{
		cfg:      cfg,
		sensors:  make(map[string]*sensor.Sensor, len(cfg.Sensors)),
		registry: operator.NewRegistry(),
	}

	for _, oc := range cfg.Operators {
		o, err := m.newOperator(oc, lang, out)
		if err != nil {
			m.Close() //nolint:errcheck
			return nil, err
		}
		if err := m.registry.Register(oc.Name, o); err != nil {
			m.Close() //nolint:errcheck
			return nil, err
		}
	}

	for _, sc := range cfg.Sensors {
		p, err := sc.Policy(lang)
		if err != nil {
			m.Close() //nolint:errcheck
			return nil, fmt.Errorf("scenario: sensor %q: %w", sc.ID, err)
		}
		s := sensor.NewWithPolicy(sc.ID, p)
		if err := m.registry.Subscribe(s, sc.Subscribers...); err != nil {
			m.Close() //nolint:errcheck
			return nil, fmt.Errorf("scenario: %w", err)
		}
		m.sensors[sc.ID] = s
		m.order = append(m.order, sc.ID)
		slog.Debug("scenario: sensor ready",
			"sensor", sc.ID,
			"kind", p.Kind,
			"min", p.Range.Min,
			"max", p.Range.Max,
			"subscribers", len(sc.Subscribers),
		)
	}

	slog.Debug("scenario: built",
		"sensors", len(m.order),
		"operators", m.registry.Count(),
	)
	return m, nil
}

func (m *Monitor) newOperator(oc config.OperatorConfig, lang policy.Language, out io.Writer) (sensor.Observer, error) {
	ch := operator.Channel(oc.Channel)
	prefix := oc.Prefix
	if prefix == "" {
		prefix = operator.Prefix(ch, lang)
	}

	switch ch {
	case operator.ChannelSecurity, operator.ChannelMaintenance:
		return operator.New(oc.Name, prefix, out, nil), nil
	case operator.ChannelManagement:
		keywords := oc.Keywords
		if len(keywords) == 0 {
			keywords = operator.DefaultSeverityKeywords
		}
		return operator.New(oc.Name, prefix, out, operator.KeywordFilter(keywords...)), nil
	case operator.ChannelAudit:
		a := operator.OpenAudit(oc.Name, m.cfg.Audit)
		m.closers = append(m.closers, a)
		return a, nil
	case operator.ChannelMetrics:
		mt := operator.NewMetrics(oc.Name)
		m.metrics = append(m.metrics, mt)
		return mt, nil
	default:
		return nil, fmt.Errorf("scenario: operator %q: unknown channel %q", oc.Name, oc.Channel)
	}
}

// Sensor returns the sensor with the given ID.
func (m *Monitor) Sensor(id string) (*sensor.Sensor, bool) {
	s, ok := m.sensors[id]
	return s, ok
}

// Sensors returns the sensors in configuration order.
func (m *Monitor) Sensors() []*sensor.Sensor {
	out := make([]*sensor.Sensor, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sensors[id])
	}
	return out
}

// Registry returns the operator registry.
func (m *Monitor) Registry() *operator.Registry { return m.registry }

// Run replays the configured readings in order. For each reading, subscription
// changes are applied first, then the value is fed to the sensor. Observer
// failures are logged and counted but do not stop the run.
//
// When a metrics path is configured, the exposition of every metrics operator
// is written there after the last reading.
func (m *Monitor) Run(ctx context.Context) (Result, error) {
	var res Result

	for i, r := range m.cfg.Readings {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s, ok := m.sensors[r.Sensor]
		if !ok {
			return res, fmt.Errorf("scenario: readings[%d]: unknown sensor %q", i, r.Sensor)
		}

		if err := m.registry.Subscribe(s, r.Subscribe...); err != nil {
			return res, fmt.Errorf("scenario: readings[%d]: %w", i, err)
		}
		if err := m.registry.Unsubscribe(s, r.Unsubscribe...); err != nil {
			return res, fmt.Errorf("scenario: readings[%d]: %w", i, err)
		}
		if r.Value == nil {
			continue
		}

		res.Readings++
		if err := s.Update(*r.Value); err != nil {
			res.DispatchErrors += countDispatchErrors(err)
			slog.Warn("scenario: reading delivered with errors",
				"sensor", r.Sensor, "value", *r.Value, "err", err)
		}
	}

	if err := m.writeMetrics(); err != nil {
		return res, err
	}

	slog.Info("scenario: run complete",
		"readings", res.Readings,
		"dispatch_errors", res.DispatchErrors,
	)
	return res, nil
}

func (m *Monitor) writeMetrics() error {
	path := m.cfg.Metrics.Path
	if path == "" || len(m.metrics) == 0 {
		return nil
	}
	if len(m.metrics) == 1 {
		return m.metrics[0].WriteFile(path)
	}
	// Several metrics operators: one file per operator name.
	for _, mt := range m.metrics {
		if err := mt.WriteFile(path + "." + mt.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Close releases operator sinks (audit files).
func (m *Monitor) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// countDispatchErrors counts the *sensor.DispatchError values in a joined error tree.
func countDispatchErrors(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(*sensor.DispatchError); ok {
		return 1
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, e := range j.Unwrap() {
			n += countDispatchErrors(e)
		}
		return n
	}
	return 1
}
