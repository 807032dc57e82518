package resource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/repository"
)

const defaultNoticeLimit = 50

// CreateInput represents the input parameters for adding a resource.
type CreateInput struct {
	JurisdictionID int64
	Section        string
	Title          string
	URL            string
	Tags           []string
	Note           string
	FeedURL        string
}

// UpdateInput represents the input parameters for updating a resource.
// Nil fields are left unchanged.
type UpdateInput struct {
	ID      int64
	Section *string
	Title   *string
	URL     *string
	Tags    []string
	Note    *string
	FeedURL *string
}

// Service provides resource management use cases.
type Service struct {
	Repo       repository.ResourceRepository
	NoticeRepo repository.NoticeRepository
}

// List retrieves resources matching the given filters.
func (s *Service) List(ctx context.Context, filters repository.ResourceFilters) ([]*entity.Resource, error) {
	resources, err := s.Repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// Search finds resources whose title or note matches the keyword.
func (s *Service) Search(ctx context.Context, keyword string) ([]repository.ResourceWithJurisdiction, error) {
	resources, err := s.Repo.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	return resources, nil
}

// Get retrieves a resource by its ID.
// Returns ErrResourceNotFound if the resource does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Resource, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	if r == nil {
		return nil, ErrResourceNotFound
	}
	return r, nil
}

// Create adds a resource with the provided input.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) error {
	if in.JurisdictionID <= 0 {
		return &entity.ValidationError{Field: "jurisdictionID", Message: "must be positive"}
	}
	if in.Title == "" {
		return &entity.ValidationError{Field: "title", Message: "is required"}
	}
	if in.URL == "" {
		return &entity.ValidationError{Field: "url", Message: "is required"}
	}
	if err := entity.ValidateURL(in.URL); err != nil {
		return fmt.Errorf("validate resource URL: %w", err)
	}
	if in.FeedURL != "" {
		if err := entity.ValidateURL(in.FeedURL); err != nil {
			return fmt.Errorf("validate feed URL: %w", err)
		}
	}

	r := &entity.Resource{
		JurisdictionID: in.JurisdictionID,
		Section:        in.Section,
		Title:          in.Title,
		URL:            in.URL,
		Tags:           NormalizeTags(in.Tags),
		Note:           in.Note,
		FeedURL:        in.FeedURL,
		CreatedAt:      time.Now(),
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// Update modifies an existing resource with the provided input.
// Returns ErrResourceNotFound if the resource does not exist.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	if in.ID <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	r, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("get resource: %w", err)
	}
	if r == nil {
		return ErrResourceNotFound
	}

	if in.Section != nil {
		r.Section = *in.Section
	}
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.URL != nil {
		if err := entity.ValidateURL(*in.URL); err != nil {
			return fmt.Errorf("validate resource URL: %w", err)
		}
		r.URL = *in.URL
	}
	if in.Tags != nil {
		r.Tags = NormalizeTags(in.Tags)
	}
	if in.Note != nil {
		r.Note = *in.Note
	}
	if in.FeedURL != nil {
		if *in.FeedURL != "" {
			if err := entity.ValidateURL(*in.FeedURL); err != nil {
				return fmt.Errorf("validate feed URL: %w", err)
			}
		}
		r.FeedURL = *in.FeedURL
	}

	if err := s.Repo.Update(ctx, r); err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}

// Delete removes a resource by its ID.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

// Notices retrieves the most recent gazette notices for a resource.
// A limit of zero or less falls back to the default.
func (s *Service) Notices(ctx context.Context, resourceID int64, limit int) ([]*entity.Notice, error) {
	if resourceID <= 0 {
		return nil, &entity.ValidationError{Field: "resourceID", Message: "must be positive"}
	}
	if limit <= 0 {
		limit = defaultNoticeLimit
	}
	notices, err := s.NoticeRepo.ListByResource(ctx, resourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return notices, nil
}

// NormalizeTags lowercases, trims, and deduplicates annotation tags
// while preserving their original order. Unknown tags are kept as-is
// so pages can introduce new annotations without a code change.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
