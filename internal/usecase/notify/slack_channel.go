package notify

import (
	"context"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/infra/notifier"
)

// SlackChannel adapts the Slack webhook notifier to the Channel interface.
type SlackChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewSlackChannel creates a Slack channel. When Slack alerts are disabled
// a NoOpNotifier backs the channel so the Channel contract always holds.
func NewSlackChannel(config notifier.SlackConfig) *SlackChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &SlackChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

// Name returns the channel identifier "slack".
func (c *SlackChannel) Name() string {
	return "slack"
}

// IsEnabled reports whether Slack alerts are enabled via configuration.
func (c *SlackChannel) IsEnabled() bool {
	return c.enabled
}

// Send delivers a dead-link alert to Slack. Rate limiting, retries, and
// request ID logging are handled by the underlying notifier.
func (c *SlackChannel) Send(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if resource == nil {
		return ErrInvalidResource
	}
	if jurisdiction == nil {
		return ErrInvalidJurisdiction
	}

	return c.notifier.NotifyDeadLink(ctx, resource, jurisdiction)
}
