// Package watch implements gazette feed monitoring. Resources that
// publish an official feed are polled periodically and new notices
// are recorded against the resource.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/observability/metrics"
	"records-atlas/internal/repository"
)

const defaultPollParallelism = 4

// FeedItem represents a single entry from a gazette feed.
type FeedItem struct {
	Title       string
	URL         string
	PublishedAt time.Time
}

// FeedPoller fetches and parses a gazette feed from a URL.
type FeedPoller interface {
	Poll(ctx context.Context, feedURL string) ([]FeedItem, error)
}

// Service polls gazette feeds attached to resources and stores new notices.
type Service struct {
	ResourceRepo repository.ResourceRepository
	NoticeRepo   repository.NoticeRepository
	Poller       FeedPoller
	Parallelism  int
}

// NewService creates a watch Service. A Parallelism of zero or less
// falls back to the default.
func NewService(
	resourceRepo repository.ResourceRepository,
	noticeRepo repository.NoticeRepository,
	poller FeedPoller,
	parallelism int,
) Service {
	if parallelism <= 0 {
		parallelism = defaultPollParallelism
	}
	return Service{
		ResourceRepo: resourceRepo,
		NoticeRepo:   noticeRepo,
		Poller:       poller,
		Parallelism:  parallelism,
	}
}

// WatchStats contains statistics about one feed polling run.
type WatchStats struct {
	Watched    int
	Items      int64
	Inserted   int64
	Duplicated int64
	PollErrors int64
	Duration   time.Duration
}

// PollAll polls every watched resource and stores notices that have not
// been seen before. Poll failures on a single feed are logged and
// counted; they never abort the run.
func (s *Service) PollAll(ctx context.Context) (*WatchStats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := &WatchStats{}

	watched, err := s.ResourceRepo.ListWatched(ctx)
	if err != nil {
		return nil, fmt.Errorf("PollAll: list watched resources: %w", err)
	}
	stats.Watched = len(watched)

	sem := make(chan struct{}, s.Parallelism)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, r := range watched {
		res := r
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			return s.pollOne(egCtx, res, stats)
		})
	}
	if err := eg.Wait(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	logger.Info("gazette poll completed",
		slog.Int("watched", stats.Watched),
		slog.Int64("items", stats.Items),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("poll_errors", stats.PollErrors),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// pollOne fetches a single resource's feed and records new notices.
// Context cancellation propagates; other failures are absorbed.
func (s *Service) pollOne(ctx context.Context, res *entity.Resource, stats *WatchStats) error {
	logger := slog.Default()

	items, err := s.Poller.Poll(ctx, res.FeedURL)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		atomic.AddInt64(&stats.PollErrors, 1)
		metrics.RecordFeedPollError("poll_failed")
		logger.Warn("failed to poll gazette feed",
			slog.Int64("resource_id", res.ID),
			slog.String("feed_url", res.FeedURL),
			slog.Any("error", err))
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	atomic.AddInt64(&stats.Items, int64(len(items)))

	urls := make([]string, 0, len(items))
	for _, it := range items {
		urls = append(urls, it.URL)
	}
	existsMap, err := s.NoticeRepo.ExistsByURLBatch(ctx, urls)
	if err != nil {
		atomic.AddInt64(&stats.PollErrors, 1)
		metrics.RecordFeedPollError("batch_check_failed")
		logger.Warn("failed to batch check notice URLs",
			slog.Int64("resource_id", res.ID),
			slog.Any("error", err))
		return nil
	}

	inserted := int64(0)
	for _, it := range items {
		if existsMap[it.URL] {
			atomic.AddInt64(&stats.Duplicated, 1)
			continue
		}
		n := &entity.Notice{
			ResourceID:  res.ID,
			Title:       it.Title,
			URL:         it.URL,
			PublishedAt: it.PublishedAt,
			CreatedAt:   time.Now(),
		}
		if err := s.NoticeRepo.Create(ctx, n); err != nil {
			return fmt.Errorf("pollOne: create notice: %w", err)
		}
		inserted++
	}
	atomic.AddInt64(&stats.Inserted, inserted)
	metrics.RecordNoticesFetched(res.ID, inserted)

	logger.Info("gazette feed polled",
		slog.Int64("resource_id", res.ID),
		slog.String("feed_url", res.FeedURL),
		slog.Int("items", len(items)),
		slog.Int64("inserted", inserted),
	)
	return nil
}
