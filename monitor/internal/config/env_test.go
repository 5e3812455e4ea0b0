package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLanguage, "en")
	t.Setenv(EnvAuditPath, "/var/log/sensorwatch/audit.log")
	t.Setenv(EnvMetricsPath, "/tmp/sensorwatch.prom")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	m := cfg.Monitor
	if m.LogLevel != "warn" {
		t.Errorf("log_level: got %q, want warn", m.LogLevel)
	}
	if m.Language != "en" {
		t.Errorf("language: got %q, want en", m.Language)
	}
	if m.Audit.Path != "/var/log/sensorwatch/audit.log" {
		t.Errorf("audit.path: got %q", m.Audit.Path)
	}
	if m.Metrics.Path != "/tmp/sensorwatch.prom" {
		t.Errorf("metrics.path: got %q", m.Metrics.Path)
	}
}

func TestApplyEnv_Unset_KeepsFileValues(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLanguage, "")

	cfg := Default()
	cfg.Monitor.LogLevel = "debug"
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Monitor.LogLevel != "debug" {
		t.Errorf("log_level: got %q, want debug", cfg.Monitor.LogLevel)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv(EnvLanguage, "klingon")
	if err := ApplyEnv(Default()); err == nil {
		t.Fatal("expected validation error for bad language override, got nil")
	}
}

func TestLoadEnv_File(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(EnvLogLevel+"=error\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv(EnvLogLevel); got != "error" {
		t.Errorf("%s: got %q, want error", EnvLogLevel, got)
	}
}

func TestLoadEnv_MissingFileIgnored(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadEnv(missing): %v", err)
	}
}
