package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sensorwatch/sensorwatch/monitor/internal/config"
	"github.com/sensorwatch/sensorwatch/monitor/internal/scenario"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty runs the built-in demonstration")
	envFile := flag.String("env", ".env", "dotenv file with SENSORWATCH_* overrides (ignored if missing)")
	watch := flag.Bool("watch", false, "re-run the scenario whenever the config file changes (requires -config)")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := checkFlags(*configPath, *watch); err != nil {
		slog.Error("invalid flags", "err", err)
		os.Exit(2)
	}

	if err := config.LoadEnv(*envFile); err != nil {
		slog.Error("failed to load env file", "err", err)
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		slog.Error("failed to apply env overrides", "err", err)
		os.Exit(1)
	}
	setLevel(level, cfg.Monitor.LogLevel)

	slog.Info("sensorwatch starting",
		"config", *configPath,
		"language", cfg.Monitor.Language,
		"sensors", len(cfg.Monitor.Sensors),
		"operators", len(cfg.Monitor.Operators),
		"readings", len(cfg.Monitor.Readings),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runOnce(ctx, cfg); err != nil {
		slog.Error("scenario failed", "err", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	err = config.Watch(ctx, *configPath, func(updated *config.Config) {
		setLevel(level, updated.Monitor.LogLevel)
		if err := runOnce(ctx, updated); err != nil {
			slog.Error("scenario failed after reload", "err", err)
		}
	})
	if err != nil {
		slog.Error("config watcher stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("sensorwatch shutting down")
}

// checkFlags rejects flag combinations that cannot run.
func checkFlags(configPath string, watch bool) error {
	if watch && configPath == "" {
		return errors.New("-watch requires -config")
	}
	return nil
}

// runOnce builds a fresh monitor from cfg and replays its readings.
func runOnce(ctx context.Context, cfg *config.Config) error {
	m, err := scenario.Build(cfg.Monitor, os.Stdout)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck

	_, err = m.Run(ctx)
	return err
}

func setLevel(v *slog.LevelVar, s string) {
	switch s {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
