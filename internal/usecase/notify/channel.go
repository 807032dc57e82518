// Package notify dispatches dead-link alerts across multiple channels.
// When a link sweep marks a catalogued resource dead, the service fans the
// alert out to every enabled channel (Slack, Discord) with per-channel
// circuit breakers and a bounded worker pool, so a slow webhook never
// stalls the sweep itself.
package notify

import (
	"context"

	"records-atlas/internal/domain/entity"
)

// Channel represents one alert delivery channel. Each implementation
// handles its own rate limiting, retries, and error handling.
//
// Retry policy contract:
//   - Transient failures (5xx, network errors): retry with backoff (max 2 attempts)
//   - Rate limits (429): sleep for retry_after, then retry
//   - Client errors (4xx except 429): no retry
//   - Context timeout: no retry
//
// All methods must be safe for concurrent use, and Send must respect
// context cancellation.
type Channel interface {
	// Name returns the channel identifier (lowercase, e.g. "slack").
	// Used for logging, metrics, and health reporting.
	Name() string

	// IsEnabled reports whether this channel is enabled via configuration.
	// Disabled channels are skipped during dispatch.
	IsEnabled() bool

	// Send delivers a dead-link alert for the resource to this channel.
	// The resource carries the failing status in LastStatus; the
	// jurisdiction names the page the entry belongs to.
	//
	// Returns ErrChannelDisabled when called on a disabled channel,
	// ErrInvalidResource or ErrInvalidJurisdiction on nil inputs, and
	// wrapped network or API errors when delivery failed after retries.
	Send(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error
}
