package jurisdiction

import (
	"context"
	"fmt"
	"strings"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/repository"
)

// Service provides jurisdiction catalog use cases.
type Service struct {
	Repo repository.JurisdictionRepository
}

// List retrieves all jurisdictions from the repository.
func (s *Service) List(ctx context.Context) ([]*entity.Jurisdiction, error) {
	jurisdictions, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jurisdictions: %w", err)
	}
	return jurisdictions, nil
}

// Search finds jurisdictions whose name or region matches the keyword.
func (s *Service) Search(ctx context.Context, keyword string) ([]*entity.Jurisdiction, error) {
	jurisdictions, err := s.Repo.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search jurisdictions: %w", err)
	}
	return jurisdictions, nil
}

// GetByCode retrieves a jurisdiction by its page code, such as "de" or
// "us-ca". Lookup is case insensitive.
// Returns ErrJurisdictionNotFound if no such jurisdiction exists.
func (s *Service) GetByCode(ctx context.Context, code string) (*entity.Jurisdiction, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, &entity.ValidationError{Field: "code", Message: "is required"}
	}

	j, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get jurisdiction by code: %w", err)
	}
	if j == nil {
		return nil, ErrJurisdictionNotFound
	}
	return j, nil
}

// Delete removes a jurisdiction by its ID. Resources belonging to the
// jurisdiction are removed by the database through the foreign key.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete jurisdiction: %w", err)
	}
	return nil
}
