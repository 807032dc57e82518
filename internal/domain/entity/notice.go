package entity

import "time"

// Notice represents one item from a watched gazette or announcement feed,
// attached to the resource whose feed produced it.
type Notice struct {
	ID          int64
	ResourceID  int64
	Title       string
	URL         string
	PublishedAt time.Time
	CreatedAt   time.Time
}
