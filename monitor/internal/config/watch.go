package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events a single save produces
// (truncate + write, or create + chmod) into one reload.
const reloadDelay = 100 * time.Millisecond

// Watch calls onChange with the freshly loaded Config each time the file at
// path is saved, until ctx is cancelled.
//
// The parent directory is watched rather than the file, so saves that
// replace the file (write to a temp file, rename over path) are seen and do
// not end the watch. A reload that fails to parse, validate or apply env
// overrides is logged and skipped; onChange is not called and the caller
// keeps its previous config.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return watch(ctx, path, reloadDelay, nil, onChange)
}

// watch is Watch with an adjustable debounce and a hook that fires once the
// directory watch is in place.
func watch(ctx context.Context, path string, delay time.Duration, ready func(), onChange func(*Config)) error {
	target := filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("config: watch %q: %w", filepath.Dir(target), err)
	}
	slog.Info("config: watching for changes", "path", target)
	if ready != nil {
		ready()
	}

	timer := time.NewTimer(delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			// Remove and Rename leave nothing to load; the replacement arrives as Create.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(delay)

		case <-timer.C:
			if cfg, ok := reload(target); ok {
				onChange(cfg)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

func reload(path string) (*Config, bool) {
	cfg, err := Load(path)
	if err != nil {
		slog.Error("config: reload failed, keeping previous config", "path", path, "err", err)
		return nil, false
	}
	if err := ApplyEnv(cfg); err != nil {
		slog.Error("config: env override rejected, keeping previous config", "path", path, "err", err)
		return nil, false
	}
	slog.Info("config: reloaded", "path", path, "sensors", len(cfg.Monitor.Sensors))
	return cfg, true
}
