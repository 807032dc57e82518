// Package notifier sends dead-link alerts to external channels. When a link
// sweep finds that a catalogued registry or gazette URL has gone dark, an
// alert goes out so a curator can fix or retire the entry before users hit
// the broken link.
//
// The package includes webhook implementations for Slack and Discord and a
// no-op notifier for deployments that run without alerting.
package notifier

import (
	"context"

	"records-atlas/internal/domain/entity"
)

// Notifier delivers a dead-link alert to one destination.
// Implementations handle rate limiting, retries, and error logging
// internally and respect context cancellation.
type Notifier interface {
	// NotifyDeadLink reports that a resource's URL failed its liveness
	// check. The resource carries the failing status code and check time
	// in LastStatus and LastCheckedAt; the jurisdiction names the page
	// the entry belongs to.
	NotifyDeadLink(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error
}
