package checker

import (
	"time"

	"records-atlas/pkg/config"
)

// Config holds the configuration for liveness checking.
type Config struct {
	// Parallelism is the maximum number of concurrent checks in a sweep.
	Parallelism int

	// Timeout is the maximum duration for a single HTTP request.
	Timeout time.Duration

	// Interval is how long a check result stays fresh. Resources checked
	// within the interval are skipped by the sweep.
	Interval time.Duration

	// MaxBodySize is the maximum response body size read on GET fallback.
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Each redirect target is re-validated against the SSRF rules.
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private or loopback addresses.
	// Should always be true in production.
	DenyPrivateIPs bool

	// HostRPS and HostBurst bound the per-host request rate so a sweep
	// never hammers a single registry.
	HostRPS   float64
	HostBurst int

	// FetchPreviews enables readability extraction of a short description
	// from live pages.
	FetchPreviews bool
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() Config {
	return Config{
		Parallelism:    16,
		Timeout:        10 * time.Second,
		Interval:       24 * time.Hour,
		MaxBodySize:    2 << 20, // 2MB is plenty for a title and preview
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		HostRPS:        1.0,
		HostBurst:      3,
		FetchPreviews:  false,
	}
}

// LoadConfigFromEnv reads checker configuration from the environment,
// falling back to defaults on missing or invalid values.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Parallelism = config.GetEnvInt("CHECK_PARALLELISM", cfg.Parallelism)
	cfg.Timeout = config.GetEnvDuration("CHECK_TIMEOUT", cfg.Timeout)
	cfg.Interval = config.GetEnvDuration("CHECK_INTERVAL", cfg.Interval)
	cfg.MaxBodySize = int64(config.GetEnvInt("CHECK_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = config.GetEnvInt("CHECK_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = config.GetEnvBool("CHECK_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.HostRPS = float64(config.GetEnvInt("CHECK_HOST_RPS", int(cfg.HostRPS)))
	cfg.HostBurst = config.GetEnvInt("CHECK_HOST_BURST", cfg.HostBurst)
	cfg.FetchPreviews = config.GetEnvBool("CHECK_FETCH_PREVIEWS", cfg.FetchPreviews)

	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if cfg.HostRPS <= 0 {
		cfg.HostRPS = DefaultConfig().HostRPS
	}
	return cfg
}
