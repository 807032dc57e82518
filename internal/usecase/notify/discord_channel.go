package notify

import (
	"context"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/infra/notifier"
)

// DiscordChannel adapts the Discord webhook notifier to the Channel interface.
type DiscordChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel creates a Discord channel. When Discord alerts are
// disabled a NoOpNotifier backs the channel.
func NewDiscordChannel(config notifier.DiscordConfig) *DiscordChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &DiscordChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

// Name returns the channel identifier "discord".
func (c *DiscordChannel) Name() string {
	return "discord"
}

// IsEnabled reports whether Discord alerts are enabled via configuration.
func (c *DiscordChannel) IsEnabled() bool {
	return c.enabled
}

// Send delivers a dead-link alert to Discord.
func (c *DiscordChannel) Send(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error {
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
