// Package linkcheck implements the liveness sweep: every catalogued
// resource URL is probed periodically and the observed status recorded,
// so dead registry links surface without manual review.
package linkcheck

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

const defaultParallelism = 16

// Result is the outcome of probing one resource URL.
type Result struct {
	StatusCode int
	Alive      bool
	Duration   time.Duration
	Title      string
	Preview    string
}

// Prober checks whether a URL is alive. An unreachable URL is reported
// through Result, not through the error.
type Prober interface {
	Check(ctx context.Context, url string) (Result, error)
}

// Alerter dispatches a dead-link alert. Implemented by the notify service;
// a nil Alerter disables alerting.
type Alerter interface {
	NotifyDeadLink(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error
}

// Service sweeps catalogued resources for dead links.
type Service struct {
	ResourceRepo     repository.ResourceRepository
	JurisdictionRepo repository.JurisdictionRepository
	Prober           Prober
	Alerter          Alerter
	Parallelism      int
	Interval         time.Duration
}

// NewService creates a linkcheck Service. A Parallelism of zero or less
// falls back to the default. Alerter may be nil.
func NewService(
	resourceRepo repository.ResourceRepository,
	jurisdictionRepo repository.JurisdictionRepository,
	prober Prober,
	alerter Alerter,
	parallelism int,
	interval time.Duration,
) Service {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return Service{
		ResourceRepo:     resourceRepo,
		JurisdictionRepo: jurisdictionRepo,
		Prober:           prober,
		Alerter:          alerter,
		Parallelism:      parallelism,
		Interval:         interval,
	}
}

// SweepStats contains statistics about one sweep.
type SweepStats struct {
	Due      int
	Checked  int64
	Alive    int64
	Dead     int64
	Errors   int64
	Duration time.Duration
}

// SweepAll probes every resource whose last check is older than the
// interval. Individual probe failures are counted and the sweep
// continues; only context cancellation aborts it.
func (s *Service) SweepAll(ctx context.Context) (*SweepStats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := &SweepStats{}

	cutoff := start.Add(-s.Interval)
	due, err := s.ResourceRepo.ListDue(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("SweepAll: list due resources: %w", err)
	}
	stats.Due = len(due)

	sem := make(chan struct{}, s.Parallelism)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, r := range due {
		res := r
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			return s.checkOne(egCtx, res, stats)
		})
	}
	if err := eg.Wait(); err != nil {
		return stats, err
	}

	metrics.DeadLinks.Set(float64(atomic.LoadInt64(&stats.Dead)))

	stats.Duration = time.Since(start)
	logger.Info("link sweep completed",
		slog.Int("due", stats.Due),
		slog.Int64("checked", stats.Checked),
		slog.Int64("alive", stats.Alive),
		slog.Int64("dead", stats.Dead),
		slog.Int64("errors", stats.Errors),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// CheckOne probes a single resource immediately and records the result.
func (s *Service) CheckOne(ctx context.Context, resourceID int64) (Result, error) {
	if resourceID <= 0 {
		return Result{}, &entity.ValidationError{Field: "resourceID", Message: "must be positive"}
	}
	res, err := s.ResourceRepo.Get(ctx, resourceID)
	if err != nil {
		return Result{}, fmt.Errorf("CheckOne: get resource: %w", err)
	}
	if res == nil {
		return Result{}, fmt.Errorf("CheckOne: resource %d: %w", resourceID, entity.ErrNotFound)
	}

	result, err := s.Prober.Check(ctx, res.URL)
	if err != nil {
		return Result{}, fmt.Errorf("CheckOne: probe %s: %w", res.URL, err)
	}
	if err := s.ResourceRepo.RecordCheck(ctx, res.ID, outcomeOf(result, time.Now())); err != nil {
		return result, fmt.Errorf("CheckOne: record check: %w", err)
	}
	return result, nil
}

// checkOne probes one resource inside a sweep. Probe and persistence
// failures are absorbed into stats; context cancellation propagates.
func (s *Service) checkOne(ctx context.Context, res *entity.Resource, stats *SweepStats) error {
	logger := slog.Default()

	result, err := s.Prober.Check(ctx, res.URL)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		atomic.AddInt64(&stats.Errors, 1)
		logger.Warn("probe failed",
			slog.Int64("resource_id", res.ID),
			slog.String("url", res.URL),
			slog.Any("error", err))
		return nil
	}

	atomic.AddInt64(&stats.Checked, 1)
	if result.Alive {
		atomic.AddInt64(&stats.Alive, 1)
	} else {
		atomic.AddInt64(&stats.Dead, 1)
		logger.Info("dead link",
			slog.Int64("resource_id", res.ID),
			slog.String("url", res.URL),
			slog.Int("status", result.StatusCode))
	}

	checkedAt := time.Now()
	safeCtx := context.WithoutCancel(ctx)
	if err := s.ResourceRepo.RecordCheck(safeCtx, res.ID, outcomeOf(result, checkedAt)); err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		logger.Warn("failed to record check",
			slog.Int64("resource_id", res.ID),
			slog.Any("error", err))
	}

	// Alert only on the transition from alive to dead, not on every sweep
	// that sees an already-dead link.
	if s.Alerter != nil && res.Alive && !result.Alive {
		s.alertDeadLink(safeCtx, res, result, checkedAt)
	}
	return nil
}

// outcomeOf maps a probe result to the persisted check record, carrying
// the harvested page title and preview along with the liveness verdict.
func outcomeOf(result Result, checkedAt time.Time) repository.CheckOutcome {
	return repository.CheckOutcome{
		Status:    result.StatusCode,
		Alive:     result.Alive,
		PageTitle: result.Title,
		Preview:   result.Preview,
		CheckedAt: checkedAt,
	}
}

// alertDeadLink dispatches a dead-link alert for a resource that just
// failed its check. Lookup failures are logged and swallowed; alerting is
// best effort and never fails the sweep.
func (s *Service) alertDeadLink(ctx context.Context, res *entity.Resource, result Result, checkedAt time.Time) {
	logger := slog.Default()

	jur, err := s.JurisdictionRepo.Get(ctx, res.JurisdictionID)
	if err != nil || jur == nil {
		logger.Warn("dead-link alert skipped: jurisdiction lookup failed",
			slog.Int64("resource_id", res.ID),
			slog.Int64("jurisdiction_id", res.JurisdictionID),
			slog.Any("error", err))
		return
	}

	alerted := *res
	alerted.LastStatus = result.StatusCode
	alerted.LastCheckedAt = &checkedAt
	alerted.Alive = false

	if err := s.Alerter.NotifyDeadLink(ctx, &alerted, jur); err != nil {
		logger.Warn("dead-link alert dispatch failed",
			slog.Int64("resource_id", res.ID),
			slog.Any("error", err))
	}
}
