package repository

import (
	"context"

	"records-atlas/internal/domain/entity"
)

type NoticeRepository interface {
	ListByResource(ctx context.Context, resourceID int64, limit int) ([]*entity.Notice, error)
	Create(ctx context.Context, n *entity.Notice) error
	// ExistsByURLBatch batch-checks notice URLs so feed polling avoids N+1 lookups.
	ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error)
}
