// Package gazette fetches official gazette and registry feeds. It uses
// the gofeed library with circuit breaker and retry for reliability.
package gazette

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"records-atlas/internal/resilience/circuitbreaker"
	"records-atlas/internal/resilience/retry"
	"records-atlas/internal/usecase/watch"
)

// FeedPoller implements watch.FeedPoller using the gofeed library.
type FeedPoller struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
}

// NewFeedPoller creates a FeedPoller with the given HTTP client.
func NewFeedPoller(client *http.Client) *FeedPoller {
	return &FeedPoller{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.FeedPollConfig()),
		retry:   retry.FeedPollConfig(),
	}
}

// Poll retrieves and parses a gazette feed from the given URL.
func (p *FeedPoller) Poll(ctx context.Context, feedURL string) ([]watch.FeedItem, error) {
	var items []watch.FeedItem

	retryErr := retry.WithBackoff(ctx, p.retry, func() error {
		cbResult, err := p.breaker.Execute(func() (interface{}, error) {
			return p.doPoll(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("gazette poll circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", p.breaker.State().String()))
			}
			return err
		}
		items = cbResult.([]watch.FeedItem)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return items, nil
}

// doPoll performs the actual feed fetch without retry or circuit breaker.
func (p *FeedPoller) doPoll(ctx context.Context, feedURL string) ([]watch.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "records-atlas-watcher/1.0"
	fp.Client = p.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]watch.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		pubAt := time.Now()
		if it.PublishedParsed != nil {
			pubAt = *it.PublishedParsed
		}
		items = append(items, watch.FeedItem{
			Title:       it.Title,
			URL:         it.Link,
			PublishedAt: pubAt,
		})
	}
	return items, nil
}
