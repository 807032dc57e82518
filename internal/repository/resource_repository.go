package repository

import (
	"context"
	"time"

	"records-atlas/internal/domain/entity"
)

// ResourceWithJurisdiction represents a resource along with its jurisdiction code.
type ResourceWithJurisdiction struct {
	Resource         *entity.Resource
	JurisdictionCode string
}

// ResourceFilters contains optional filters for resource listing and search.
type ResourceFilters struct {
	JurisdictionID *int64  // Optional: filter by jurisdiction
	Section        *string // Optional: filter by section heading
	Tag            *string // Optional: filter by access tag
	Alive          *bool   // Optional: filter by last observed liveness
}

// CheckOutcome is the result of one liveness check written back to a
// resource. PageTitle and Preview are extracted from live GET responses;
// empty values leave the previously stored enrichment in place.
type CheckOutcome struct {
	Status    int
	Alive     bool
	PageTitle string
	Preview   string
	CheckedAt time.Time
}

type ResourceRepository interface {
	Get(ctx context.Context, id int64) (*entity.Resource, error)
	List(ctx context.Context, filters ResourceFilters) ([]*entity.Resource, error)
	// ListWatched returns resources that carry a feed URL to poll.
	ListWatched(ctx context.Context) ([]*entity.Resource, error)
	// ListDue returns resources never checked or last checked before the cutoff.
	ListDue(ctx context.Context, cutoff time.Time) ([]*entity.Resource, error)
	Search(ctx context.Context, keyword string) ([]ResourceWithJurisdiction, error)
	Create(ctx context.Context, r *entity.Resource) error
	Update(ctx context.Context, r *entity.Resource) error
	Delete(ctx context.Context, id int64) error
	// DeleteByJurisdiction removes all resources of a jurisdiction, used when
	// an import replaces a page's entries.
	DeleteByJurisdiction(ctx context.Context, jurisdictionID int64) error
	// RecordCheck stores the outcome of one liveness check.
	RecordCheck(ctx context.Context, id int64, check CheckOutcome) error
}
