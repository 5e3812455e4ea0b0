// Package scenario turns a config.MonitorConfig into live sensors and
// operators and replays the configured readings against them.
//
// Build(cfg, out) registers every operator by name, builds each sensor's
// policy and subscribes operators in config order. Run(ctx) feeds readings
// one by one, applying per-reading subscribe/unsubscribe first. Observer
// failures are counted in Result but never abort the run.
package scenario
