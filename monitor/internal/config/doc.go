// Package config loads and watches the sensorwatch configuration file.
//
// Top-level types:
//   - Config{Monitor}: full config tree parsed from YAML
//   - MonitorConfig: language (es|en), log_level, sensors[], operators[],
//     readings[], audit, metrics
//   - SensorConfig: id, kind, category, min/max overrides, checks[],
//     subscribers[]; Policy(lang) builds the sensor's alerting policy
//   - OperatorConfig: name, channel (security|maintenance|management|audit|
//     metrics), prefix, keywords
//   - Reading: sensor, value, subscribe[], unsubscribe[]
//
// Load(path) reads the YAML file, applies defaults (language es, log level
// info, audit rotation 10MB/3 backups/28 days), then validates enums and the
// references between sensors, operators and readings.
//
// Default() returns the built-in demonstration scenario.
//
// LoadEnv reads .env files with godotenv; ApplyEnv applies SENSORWATCH_*
// overrides and re-validates.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config.
package config
