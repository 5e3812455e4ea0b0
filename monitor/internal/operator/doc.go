// Package operator provides the observers that react to sensor alerts.
//
// Console channels (operator.go) write "prefix + alert text" lines to an
// io.Writer:
//   - security: every alert
//   - maintenance: every alert
//   - management: only alerts whose text contains a severity keyword
//     ("crítico", "critical", "grave", "severe"); plain substring match
//
// Audit (audit.go) writes one JSON record per alert through log/slog, to any
// writer or to a lumberjack-rotated file.
//
// Metrics (metrics.go) counts alerts and renders Prometheus text exposition.
//
// Registry (registry.go) maps operator names to observers so configuration
// can subscribe and unsubscribe by name.
package operator
