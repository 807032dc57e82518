package notify

import "errors"

// Sentinel errors for alert dispatch.
var (
	// ErrChannelDisabled indicates that Send() was called on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidResource indicates a nil resource or one missing its URL.
	ErrInvalidResource = errors.New("invalid resource data")

	// ErrInvalidJurisdiction indicates a nil jurisdiction.
	ErrInvalidJurisdiction = errors.New("invalid jurisdiction data")

	// ErrNotificationDropped indicates an alert was dropped because the
	// worker pool was saturated. Non-critical, used for observability.
	ErrNotificationDropped = errors.New("alert dropped due to pool saturation")

	// ErrCircuitBreakerOpen indicates the channel's circuit breaker is open
	// and alerts are being rejected until the cooldown elapses.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")
)
