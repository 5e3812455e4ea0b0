package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sensorwatch/sensorwatch/monitor/internal/policy"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultLogLevel       = "info"
	DefaultAuditMaxSizeMB = 10
	DefaultAuditBackups   = 3
	DefaultAuditMaxAge    = 28
)

// Config is the top-level configuration parsed from YAML.
type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

// MonitorConfig holds everything needed to build and drive a monitor.
type MonitorConfig struct {
	// Language selects alert wording and operator prefixes: es | en (default es).
	Language string `yaml:"language"`

	// LogLevel is one of: debug | info | warn | error (default info).
	LogLevel string `yaml:"log_level"`

	// Sensors lists the measurable entities, in construction order.
	Sensors []SensorConfig `yaml:"sensors"`

	// Operators lists the observers that sensors can subscribe by name.
	Operators []OperatorConfig `yaml:"operators"`

	// Readings is the measurement sequence replayed by the harness.
	Readings []Reading `yaml:"readings"`

	// Audit configures the rotated file used by audit operators.
	Audit AuditConfig `yaml:"audit"`

	// Metrics configures where metrics operators write their exposition text.
	Metrics MetricsConfig `yaml:"metrics"`
}

// SensorConfig describes one sensor.
type SensorConfig struct {
	// ID is the unique sensor identifier referenced by readings.
	ID string `yaml:"id"`

	// Kind is one of: generic | temperature | pressure | humidity | fuel_level.
	Kind string `yaml:"kind"`

	// Category is the label used in alert text. Defaults per kind and language;
	// required for generic sensors.
	Category string `yaml:"category"`

	// Min and Max override the kind's default safe range.
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`

	// Checks are extra supplementary checks, evaluated after the built-in ones.
	Checks []CheckConfig `yaml:"checks"`

	// Subscribers are operator names, subscribed in this order. Repeating a
	// name subscribes the operator twice.
	Subscribers []string `yaml:"subscribers"`
}

// CheckConfig defines one supplementary check.
type CheckConfig struct {
	// Name identifies the check in alerts; defaults to "check_<index>".
	Name string `yaml:"name"`

	// Condition is an expression like "value < 30".
	Condition string `yaml:"condition"`

	// Severity is attached to the alert (default "low").
	Severity string `yaml:"severity"`

	// Message is a built-in template name or a literal template with
	// {category} and {value} placeholders.
	Message string `yaml:"message"`
}

// OperatorConfig defines one operator.
type OperatorConfig struct {
	// Name is the unique handle sensors subscribe with.
	Name string `yaml:"name"`

	// Channel is one of: security | maintenance | management | audit | metrics.
	Channel string `yaml:"channel"`

	// Prefix overrides the console line prefix.
	Prefix string `yaml:"prefix"`

	// Keywords overrides the management severity keywords.
	Keywords []string `yaml:"keywords"`
}

// Reading is one step of the replayed sequence. Subscription changes are
// applied before the value.
type Reading struct {
	Sensor      string   `yaml:"sensor"`
	Value       *float64 `yaml:"value"`
	Subscribe   []string `yaml:"subscribe"`
	Unsubscribe []string `yaml:"unsubscribe"`
}

// AuditConfig controls the rotated audit log file.
type AuditConfig struct {
	// Path of the audit file. Required when an audit operator is configured.
	Path string `yaml:"path"`

	// MaxSizeMB is the size at which the file is rotated (default 10).
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is how long rotated files are kept (default 28).
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `yaml:"compress"`
}

// MetricsConfig controls the metrics exposition output.
type MetricsConfig struct {
	// Path receives the Prometheus text exposition after each run.
	// Empty disables the file.
	Path string `yaml:"path"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Monitor: MonitorConfig{
			Language: string(policy.DefaultLanguage),
			LogLevel: DefaultLogLevel,
			Audit: AuditConfig{
				MaxSizeMB:  DefaultAuditMaxSizeMB,
				MaxBackups: DefaultAuditBackups,
				MaxAgeDays: DefaultAuditMaxAge,
			},
		},
	}
}

// Validate checks required fields, references between sections and enums.
func Validate(cfg *Config) error {
	m := &cfg.Monitor

	lang, err := policy.ParseLanguage(m.Language)
	if err != nil {
		return fmt.Errorf("monitor.language: %w", err)
	}
	switch m.LogLevel {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("monitor.log_level %q unknown: want debug|info|warn|error", m.LogLevel)
	}

	operators := make(map[string]bool, len(m.Operators))
	hasAudit := false
	for i, op := range m.Operators {
		if op.Name == "" {
			return fmt.Errorf("operators[%d]: name is required", i)
		}
		if operators[op.Name] {
			return fmt.Errorf("operators[%d]: duplicate name %q", i, op.Name)
		}
		operators[op.Name] = true
		switch op.Channel {
		case "security", "maintenance", "management", "metrics":
		case "audit":
			hasAudit = true
		default:
			return fmt.Errorf("operators[%d] %q: unknown channel %q", i, op.Name, op.Channel)
		}
	}
	if hasAudit && m.Audit.Path == "" {
		return fmt.Errorf("monitor.audit.path is required when an audit operator is configured")
	}
	if m.Audit.MaxSizeMB < 0 || m.Audit.MaxBackups < 0 || m.Audit.MaxAgeDays < 0 {
		return fmt.Errorf("monitor.audit: limits must not be negative")
	}

	sensors := make(map[string]bool, len(m.Sensors))
	for i, s := range m.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensors[%d]: id is required", i)
		}
		if sensors[s.ID] {
			return fmt.Errorf("sensors[%d]: duplicate id %q", i, s.ID)
		}
		sensors[s.ID] = true

		if _, err := s.Policy(lang); err != nil {
			return fmt.Errorf("sensors[%d] %q: %w", i, s.ID, err)
		}
		for _, name := range s.Subscribers {
			if !operators[name] {
				return fmt.Errorf("sensors[%d] %q: unknown subscriber %q", i, s.ID, name)
			}
		}
	}

	for i, r := range m.Readings {
		if !sensors[r.Sensor] {
			return fmt.Errorf("readings[%d]: unknown sensor %q", i, r.Sensor)
		}
		for _, name := range append(append([]string(nil), r.Subscribe...), r.Unsubscribe...) {
			if !operators[name] {
				return fmt.Errorf("readings[%d]: unknown operator %q", i, name)
			}
		}
	}
	return nil
}

// Policy builds the sensor's alerting policy in lang.
func (s SensorConfig) Policy(lang policy.Language) (*policy.Policy, error) {
	kind, err := policy.ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}

	r := policy.DefaultRange(kind)
	if s.Min != nil {
		r.Min = *s.Min
	}
	if s.Max != nil {
		r.Max = *s.Max
	}

	checks := make([]policy.Check, 0, len(s.Checks))
	for i, c := range s.Checks {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("check_%d", i)
		}
		chk, err := policy.NewCheck(name, c.Condition, policy.Severity(c.Severity), c.Message)
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		checks = append(checks, chk)
	}

	return policy.New(kind, s.Category, r, lang, checks...)
}

// Lang returns the parsed monitor language. Call after Validate.
func (m MonitorConfig) Lang() policy.Language {
	lang, err := policy.ParseLanguage(m.Language)
	if err != nil {
		return policy.DefaultLanguage
	}
	return lang
}
