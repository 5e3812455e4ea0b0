package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const watchDelay = 20 * time.Millisecond

func levelConfig(level string) string {
	return "monitor:\n  log_level: " + level + "\n"
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// replaceFile saves content the way editors do: temp file, then rename over path.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	writeFile(t, tmp, content)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

// startWatch runs watch on path and returns the reloaded configs.
func startWatch(t *testing.T, path string) <-chan *Config {
	t.Helper()
	t.Setenv(EnvLogLevel, "")
	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan *Config, 16)
	ready := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- watch(ctx, path, watchDelay, func() { close(ready) }, func(cfg *Config) {
			reloads <- cfg
		})
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watch: %v", err)
		}
	})

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("watch exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not start")
	}
	return reloads
}

func waitReload(t *testing.T, reloads <-chan *Config, wantLevel string) {
	t.Helper()
	select {
	case cfg := <-reloads:
		if cfg.Monitor.LogLevel != wantLevel {
			t.Fatalf("reloaded log_level: got %q, want %q", cfg.Monitor.LogLevel, wantLevel)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no reload with log_level %q", wantLevel)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, levelConfig("info"))
	reloads := startWatch(t, path)

	writeFile(t, path, levelConfig("debug"))
	waitReload(t, reloads, "debug")

	writeFile(t, path, levelConfig("warn"))
	waitReload(t, reloads, "warn")
}

func TestWatch_SurvivesAtomicSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, levelConfig("info"))
	reloads := startWatch(t, path)

	replaceFile(t, path, levelConfig("debug"))
	waitReload(t, reloads, "debug")

	// The replaced file is still watched.
	writeFile(t, path, levelConfig("error"))
	waitReload(t, reloads, "error")
}

func TestWatch_InvalidReloadSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, levelConfig("info"))
	reloads := startWatch(t, path)

	writeFile(t, path, levelConfig("loud"))
	select {
	case cfg := <-reloads:
		t.Fatalf("invalid config delivered: %+v", cfg.Monitor)
	case <-time.After(10 * watchDelay):
	}

	writeFile(t, path, levelConfig("warn"))
	waitReload(t, reloads, "warn")
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, levelConfig("info"))
	reloads := startWatch(t, path)

	writeFile(t, filepath.Join(dir, "other.yaml"), levelConfig("debug"))
	select {
	case cfg := <-reloads:
		t.Fatalf("reload for unrelated file: %+v", cfg.Monitor)
	case <-time.After(10 * watchDelay):
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "config.yaml")
	err := watch(context.Background(), path, watchDelay, nil, func(*Config) {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
