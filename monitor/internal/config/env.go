package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvLogLevel    = "SENSORWATCH_LOG_LEVEL"
	EnvLanguage    = "SENSORWATCH_LANGUAGE"
	EnvAuditPath   = "SENSORWATCH_AUDIT_PATH"
	EnvMetricsPath = "SENSORWATCH_METRICS_PATH"
)

// LoadEnv loads KEY=VALUE pairs from the given dotenv files into the process
// environment (".env" when none are given). Missing files are skipped;
// variables already set in the environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load env file %q: %w", f, err)
		}
		slog.Debug("config: loaded env file", "path", f)
	}
	return nil
}

// ApplyEnv overrides cfg with SENSORWATCH_* variables and re-validates it.
func ApplyEnv(cfg *Config) error {
	m := &cfg.Monitor
	if v := os.Getenv(EnvLogLevel); v != "" {
		m.LogLevel = v
	}
	if v := os.Getenv(EnvLanguage); v != "" {
		m.Language = v
	}
	if v := os.Getenv(EnvAuditPath); v != "" {
		m.Audit.Path = v
	}
	if v := os.Getenv(EnvMetricsPath); v != "" {
		m.Metrics.Path = v
	}
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return nil
}
