package operator

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/sensorwatch/sensorwatch/monitor/internal/policy"
	"github.com/sensorwatch/sensorwatch/monitor/internal/sensor"
)

// Channel identifies an operator variant.
type Channel string

const (
	ChannelSecurity    Channel = "security"
	ChannelMaintenance Channel = "maintenance"
	ChannelManagement  Channel = "management"
	ChannelAudit       Channel = "audit"
	ChannelMetrics     Channel = "metrics"
)

// DefaultSeverityKeywords are the substrings that let an alert through the
// management filter. Matching is case-sensitive.
var DefaultSeverityKeywords = []string{"crítico", "critical", "grave", "severe"}

var prefixes = map[policy.Language]map[Channel]string{
	policy.LangES: {
		ChannelSecurity:    "Operador de Seguridad notificado: ",
		ChannelMaintenance: "Operador de Mantenimiento notificado: ",
		ChannelManagement:  "Gerencia notificada: ",
	},
	policy.LangEN: {
		ChannelSecurity:    "Security operator notified: ",
		ChannelMaintenance: "Maintenance operator notified: ",
		ChannelManagement:  "Management notified: ",
	},
}

// Prefix returns the line prefix for a console channel in lang.
func Prefix(ch Channel, lang policy.Language) string {
	if p, ok := prefixes[lang][ch]; ok {
		return p
	}
	return prefixes[policy.DefaultLanguage][ch]
}

// Filter decides whether an operator reacts to an alert.
type Filter func(a sensor.Alert) bool

// KeywordFilter accepts alerts whose text contains any of keywords as a
// plain substring. An empty keyword list accepts nothing.
func KeywordFilter(keywords ...string) Filter {
	kw := append([]string(nil), keywords...)
	return func(a sensor.Alert) bool {
		for _, k := range kw {
			if k != "" && strings.Contains(a.Text, k) {
				return true
			}
		}
		return false
	}
}

// Operator writes one line per accepted alert to its sink: prefix + text.
type Operator struct {
	name   string
	prefix string
	filter Filter

	mu  sync.Mutex
	out io.Writer
}

// New creates an operator. A nil filter accepts every alert.
func New(name, prefix string, out io.Writer, filter Filter) *Operator {
	return &Operator{name: name, prefix: prefix, out: out, filter: filter}
}

// NewSecurity returns the security channel operator; it reacts to every alert.
func NewSecurity(out io.Writer) *Operator {
	return New(string(ChannelSecurity), Prefix(ChannelSecurity, policy.DefaultLanguage), out, nil)
}

// NewMaintenance returns the maintenance channel operator; it reacts to every alert.
func NewMaintenance(out io.Writer) *Operator {
	return New(string(ChannelMaintenance), Prefix(ChannelMaintenance, policy.DefaultLanguage), out, nil)
}

// NewManagement returns the management operator. It only reacts to alerts
// whose text contains one of keywords, or DefaultSeverityKeywords if none
// are given.
func NewManagement(out io.Writer, keywords ...string) *Operator {
	if len(keywords) == 0 {
		keywords = DefaultSeverityKeywords
	}
	return New(string(ChannelManagement), Prefix(ChannelManagement, policy.DefaultLanguage), out, KeywordFilter(keywords...))
}

// Name returns the operator name.
func (o *Operator) Name() string { return o.name }

// OnAlert implements sensor.Observer.
func (o *Operator) OnAlert(s *sensor.Sensor, a sensor.Alert) error {
	if o.filter != nil && !o.filter(a) {
		slog.Debug("operator: alert filtered", "operator", o.name, "sensor", s.ID(), "check", a.Check)
		return nil
	}

	o.mu.Lock()
	_, err := fmt.Fprintf(o.out, "%s%s\n", o.prefix, a.Text)
	o.mu.Unlock()
	if err != nil {
		return fmt.Errorf("operator %s: write: %w", o.name, err)
	}
	return nil
}
