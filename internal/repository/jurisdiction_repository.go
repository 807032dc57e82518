package repository

import (
	"context"
	"time"

	"records-atlas/internal/domain/entity"
)

type JurisdictionRepository interface {
	Get(ctx context.Context, id int64) (*entity.Jurisdiction, error)
	GetByCode(ctx context.Context, code string) (*entity.Jurisdiction, error)
	List(ctx context.Context) ([]*entity.Jurisdiction, error)
	Search(ctx context.Context, keyword string) ([]*entity.Jurisdiction, error)
	Upsert(ctx context.Context, j *entity.Jurisdiction) error
	Delete(ctx context.Context, id int64) error
	TouchImportedAt(ctx context.Context, id int64, t time.Time) error
}
