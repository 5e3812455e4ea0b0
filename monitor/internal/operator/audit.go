package operator

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sensorwatch/sensorwatch/monitor/internal/config"
	"github.com/sensorwatch/sensorwatch/monitor/internal/sensor"
)

// Audit records every alert it receives as a structured JSON line.
type Audit struct {
	name   string
	logger *slog.Logger
	closer io.Closer
}

// NewAudit writes audit records to w. Close is a no-op unless w is an io.Closer.
func NewAudit(name string, w io.Writer) *Audit {
	a := &Audit{
		name:   name,
		logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
	if c, ok := w.(io.Closer); ok {
		a.closer = c
	}
	return a
}

// OpenAudit writes audit records to a size-rotated file described by cfg.
func OpenAudit(name string, cfg config.AuditConfig) *Audit {
	return NewAudit(name, &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
}

// Name returns the operator name.
func (a *Audit) Name() string { return a.name }

// OnAlert implements sensor.Observer.
func (a *Audit) OnAlert(s *sensor.Sensor, al sensor.Alert) error {
	a.logger.Warn("alert",
		"id", al.ID.String(),
		"sensor", s.ID(),
		"kind", string(al.Kind),
		"category", al.Category,
		"check", al.Check,
		"severity", string(al.Severity),
		"value", al.Value,
		"text", al.Text,
		"raised_at", al.RaisedAt,
	)
	return nil
}

// Close releases the underlying sink.
func (a *Audit) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
