package notifier

import (
	"context"

	"records-atlas/internal/domain/entity"
)

// NoOpNotifier discards dead-link alerts. It stands in for a real channel
// when alerting is disabled, so callers never need a nil check.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyDeadLink does nothing and returns nil immediately.
func (n *NoOpNotifier) NotifyDeadLink(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error {
	return nil
}
