package worker

import (
	"fmt"
	"log/slog"
	"time"

	"records-atlas/internal/pkg/config"
)

// WorkerConfig controls the scheduled jobs of the worker process: the nightly
// link sweep across catalogued resources and the periodic gazette feed poll.
//
// Loading is fail-open. A missing or invalid environment variable falls back
// to the default with a warning, so a bad deployment manifest degrades the
// schedule instead of taking the worker down.
type WorkerConfig struct {
	// SweepSchedule is the cron expression for the link liveness sweep.
	// Default: "0 4 * * *" (daily at 04:00).
	SweepSchedule string

	// PollSchedule is the cron expression for polling gazette feeds on
	// watched resources. Default: "0 */6 * * *" (every six hours).
	PollSchedule string

	// Timezone is the IANA timezone the cron schedules run in.
	// Default: "UTC".
	Timezone string

	// SweepTimeout bounds a single sweep run. Range 1m-4h, default 30m.
	SweepTimeout time.Duration

	// PollTimeout bounds a single feed poll run. Range 1m-1h, default 10m.
	PollTimeout time.Duration

	// HealthPort is the port for the liveness/readiness HTTP server.
	// Range 1024-65535, default 9091.
	HealthPort int
}

// DefaultConfig returns production defaults. The sweep runs off-hours so
// that checker traffic against government sites lands outside their busy
// window, and the poll cadence keeps gazette notices fresh without hammering
// their feeds.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		SweepSchedule: "0 4 * * *",
		PollSchedule:  "0 */6 * * *",
		Timezone:      "UTC",
		SweepTimeout:  30 * time.Minute,
		PollTimeout:   10 * time.Minute,
		HealthPort:    9091,
	}
}

// Validate checks every field and returns all violations together, so an
// operator fixing a manifest sees the full list at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.SweepSchedule); err != nil {
		errs = append(errs, fmt.Errorf("sweep schedule: %w", err))
	}
	if err := config.ValidateCronSchedule(c.PollSchedule); err != nil {
		errs = append(errs, fmt.Errorf("poll schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(1*time.Minute, 4*time.Hour)(c.SweepTimeout); err != nil {
		errs = append(errs, fmt.Errorf("sweep timeout: %w", err))
	}
	if err := config.ValidateDuration(1*time.Minute, 1*time.Hour)(c.PollTimeout); err != nil {
		errs = append(errs, fmt.Errorf("poll timeout: %w", err))
	}
	if err := config.ValidateIntRange(1024, 65535)(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from environment
// variables, falling back to defaults on invalid values. It never returns
// an error; fallbacks are logged and counted in metrics.
//
// Environment variables:
//   - SWEEP_SCHEDULE: cron expression (default "0 4 * * *")
//   - POLL_SCHEDULE: cron expression (default "0 */6 * * *")
//   - WORKER_TIMEZONE: IANA timezone (default "UTC")
//   - SWEEP_TIMEOUT: duration 1m-4h (default "30m")
//   - POLL_TIMEOUT: duration 1m-1h (default "10m")
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	applyString := func(field, envKey string, target *string, validator func(string) error) {
		result := config.LoadEnvWithFallback(envKey, *target, validator)
		*target = result.Value.(string)
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field)
			for _, warning := range result.Warnings {
				logger.Warn("Configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
	}

	applyDuration := func(field, envKey string, target *time.Duration, validator func(time.Duration) error) {
		result := config.LoadEnvDuration(envKey, *target, validator)
		*target = result.Value.(time.Duration)
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field)
			for _, warning := range result.Warnings {
				logger.Warn("Configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
	}

	applyString("sweep_schedule", "SWEEP_SCHEDULE", &cfg.SweepSchedule, config.ValidateCronSchedule)
	applyString("poll_schedule", "POLL_SCHEDULE", &cfg.PollSchedule, config.ValidateCronSchedule)
	applyString("timezone", "WORKER_TIMEZONE", &cfg.Timezone, config.ValidateTimezone)
	applyDuration("sweep_timeout", "SWEEP_TIMEOUT", &cfg.SweepTimeout, config.ValidateDuration(1*time.Minute, 4*time.Hour))
	applyDuration("poll_timeout", "POLL_TIMEOUT", &cfg.PollTimeout, config.ValidateDuration(1*time.Minute, 1*time.Hour))

	result := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.ValidateIntRange(1024, 65535))
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("health_port")
		metrics.RecordFallback("health_port")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "health_port"),
				slog.String("warning", warning))
		}
	}

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
