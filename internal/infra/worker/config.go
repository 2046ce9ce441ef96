// Package worker holds the infrastructure of the feed polling worker: its
// schedule configuration, its Prometheus metrics and its HTTP server.
package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"digestbot/pkg/config"
)

// WorkerConfig controls when and for how long the feed watcher runs.
type WorkerConfig struct {
	// Schedule is a standard five-field cron expression or a descriptor such as
	// "@every 1m". Default: "@every <RSS_POLL_INTERVAL>".
	Schedule string

	// Timezone is the IANA timezone used to evaluate Schedule. Default: "UTC".
	Timezone string

	// PollTimeout bounds one poll of every feed. Range: 1m to 4h. Default: 10m.
	PollTimeout time.Duration

	// PollOnStart runs one poll immediately after startup. Default: false.
	PollOnStart bool
}

// DefaultConfig returns the worker defaults for the given poll interval.
func DefaultConfig(pollInterval time.Duration) WorkerConfig {
	return WorkerConfig{
		Schedule:    "@every " + pollInterval.String(),
		Timezone:    "UTC",
		PollTimeout: 10 * time.Minute,
	}
}

// Validate checks every field and reports all problems at once.
func (c WorkerConfig) Validate() error {
	var errs []error

	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("schedule %q: %w", c.Schedule, err))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		errs = append(errs, fmt.Errorf("timezone %q is not a valid IANA name", c.Timezone))
	}
	if err := config.ValidateDurationRange(c.PollTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("poll timeout: %w", err))
	}

	return errors.Join(errs...)
}

// Location returns the schedule's timezone, or UTC when it cannot be loaded.
func (c WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads the worker configuration from the environment.
//
// Environment variables:
//   - FEEDS_CRON_SCHEDULE: cron expression (default: every pollInterval)
//   - WORKER_TIMEZONE: IANA timezone name (default: UTC)
//   - FEEDS_POLL_TIMEOUT: duration, e.g. "10m" (default: 10m)
//   - FEEDS_POLL_ON_START: boolean (default: false)
//
// An invalid configuration is reported together with the defaults so that the
// caller can decide to continue with them.
func LoadConfigFromEnv(pollInterval time.Duration) (WorkerConfig, error) {
	def := DefaultConfig(pollInterval)
	cfg := WorkerConfig{
		Schedule:    config.GetEnvString("FEEDS_CRON_SCHEDULE", def.Schedule),
		Timezone:    config.GetEnvString("WORKER_TIMEZONE", def.Timezone),
		PollTimeout: config.GetEnvDuration("FEEDS_POLL_TIMEOUT", def.PollTimeout),
		PollOnStart: config.GetEnvBool("FEEDS_POLL_ON_START", def.PollOnStart),
	}

	if err := cfg.Validate(); err != nil {
		return def, fmt.Errorf("invalid worker configuration: %w", err)
	}
	return cfg, nil
}
