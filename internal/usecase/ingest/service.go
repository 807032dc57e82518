// Package ingest implements corpus imports: it parses jurisdiction
// wikitext pages and replaces the stored catalog entries with the
// parsed result.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/observability/metrics"
	"records-atlas/internal/repository"
	"records-atlas/internal/wikitext"
)

// PageMeta carries a jurisdiction's index metadata: display name,
// region grouping, and gazette feeds keyed by resource URL.
type PageMeta struct {
	Name   string
	Region string
	Feeds  map[string]string
}

// Corpus resolves jurisdiction page codes to metadata and raw wikitext.
type Corpus interface {
	Codes() []string
	Entry(code string) (PageMeta, error)
	Page(code string) (string, error)
}

// Summarizer condenses page prose into a short jurisdiction overview.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Service imports corpus pages into the catalog.
type Service struct {
	JurisdictionRepo repository.JurisdictionRepository
	ResourceRepo     repository.ResourceRepository
	Corpus           Corpus
	Summarizer       Summarizer
}

// ImportStats contains statistics about one import run.
type ImportStats struct {
	Pages     int
	Imported  int
	Resources int
	Errors    int
	Duration  time.Duration
}

// ImportAll imports every page in the corpus. A failing page is logged
// and counted; it never aborts the run.
func (s *Service) ImportAll(ctx context.Context) (*ImportStats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := &ImportStats{}

	codes := s.Corpus.Codes()
	stats.Pages = len(codes)

	for _, code := range codes {
		n, err := s.ImportOne(ctx, code)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			stats.Errors++
			metrics.RecordPageImported(false)
			logger.Warn("failed to import page",
				slog.String("code", code),
				slog.Any("error", err))
			continue
		}
		stats.Imported++
		stats.Resources += n
		metrics.RecordPageImported(true)
	}

	stats.Duration = time.Since(start)
	logger.Info("corpus import completed",
		slog.Int("pages", stats.Pages),
		slog.Int("imported", stats.Imported),
		slog.Int("resources", stats.Resources),
		slog.Int("errors", stats.Errors),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// ImportOne imports a single jurisdiction page, replacing its stored
// resources. Returns the number of resources stored.
func (s *Service) ImportOne(ctx context.Context, code string) (int, error) {
	code = strings.ToLower(strings.TrimSpace(code))

	meta, err := s.Corpus.Entry(code)
	if err != nil {
		return 0, fmt.Errorf("ImportOne: %w", err)
	}
	raw, err := s.Corpus.Page(code)
	if err != nil {
		return 0, fmt.Errorf("ImportOne: %w", err)
	}

	page := wikitext.Parse(raw)
	if page.IsEmpty() {
		return 0, fmt.Errorf("ImportOne: page %q has no sections or entries", code)
	}

	name := meta.Name
	if name == "" {
		name = strings.ToUpper(code)
	}

	j := &entity.Jurisdiction{
		Code:     code,
		Name:     name,
		Region:   meta.Region,
		Overview: s.buildOverview(ctx, code, page),
		RawPage:  raw,
		Active:   true,
	}
	if err := j.Validate(); err != nil {
		return 0, fmt.Errorf("ImportOne: validate jurisdiction: %w", err)
	}
	if err := s.JurisdictionRepo.Upsert(ctx, j); err != nil {
		return 0, fmt.Errorf("ImportOne: upsert jurisdiction: %w", err)
	}

	// An import replaces the page's entries wholesale. Check history on
	// surviving URLs is lost, which keeps the import idempotent.
	if err := s.ResourceRepo.DeleteByJurisdiction(ctx, j.ID); err != nil {
		return 0, fmt.Errorf("ImportOne: clear resources: %w", err)
	}

	stored := 0
	for _, sec := range page.Sections {
		for _, e := range sec.Entries {
			if err := entity.ValidateURL(e.URL); err != nil {
				slog.Warn("skipping entry with invalid URL",
					slog.String("code", code),
					slog.String("url", e.URL),
					slog.Any("error", err))
				continue
			}
			r := &entity.Resource{
				JurisdictionID: j.ID,
				Section:        sec.Heading,
				Title:          e.Title,
				URL:            e.URL,
				Tags:           e.Tags,
				Note:           e.Note,
				FeedURL:        meta.Feeds[e.URL],
				CreatedAt:      time.Now(),
			}
			if err := s.ResourceRepo.Create(ctx, r); err != nil {
				return stored, fmt.Errorf("ImportOne: create resource: %w", err)
			}
			stored++
		}
	}

	if err := s.JurisdictionRepo.TouchImportedAt(ctx, j.ID, time.Now()); err != nil {
		return stored, fmt.Errorf("ImportOne: touch imported timestamp: %w", err)
	}
	return stored, nil
}

// buildOverview condenses the page's guidance prose. Overview failures
// are logged and produce an empty overview; they never fail an import.
func (s *Service) buildOverview(ctx context.Context, code string, page *wikitext.Page) string {
	if s.Summarizer == nil {
		return ""
	}
	var prose []string
	for _, sec := range page.Sections {
		prose = append(prose, sec.Notes...)
	}
	joined := strings.TrimSpace(strings.Join(prose, "\n"))
	if joined == "" {
		return ""
	}

	overview, err := s.Summarizer.Summarize(ctx, joined)
	if err != nil {
		slog.Warn("overview generation failed",
			slog.String("code", code),
			slog.Any("error", err))
		return ""
	}
	return overview
}
