// Package postgres implements the repository interfaces on PostgreSQL
// via database/sql and the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/repository"
)

type JurisdictionRepo struct{ db *sql.DB }

func NewJurisdictionRepo(db *sql.DB) repository.JurisdictionRepository {
	return &JurisdictionRepo{db: db}
}

const jurisdictionColumns = `id, code, name, region, overview, raw_page, imported_at, active`

func (repo *JurisdictionRepo) Get(ctx context.Context, id int64) (*entity.Jurisdiction, error) {
	const query = `
SELECT ` + jurisdictionColumns + `
FROM jurisdictions
WHERE id = $1
LIMIT 1`
	return repo.scanOne(repo.db.QueryRowContext(ctx, query, id))
}

func (repo *JurisdictionRepo) GetByCode(ctx context.Context, code string) (*entity.Jurisdiction, error) {
	const query = `
SELECT ` + jurisdictionColumns + `
FROM jurisdictions
WHERE code = $1
LIMIT 1`
	return repo.scanOne(repo.db.QueryRowContext(ctx, query, code))
}

func (repo *JurisdictionRepo) scanOne(row *sql.Row) (*entity.Jurisdiction, error) {
	var j entity.Jurisdiction
	err := row.Scan(&j.ID, &j.Code, &j.Name, &j.Region, &j.Overview,
		&j.RawPage, &j.ImportedAt, &j.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: Scan: %w", err)
	}
	return &j, nil
}

func (repo *JurisdictionRepo) List(ctx context.Context) ([]*entity.Jurisdiction, error) {
	const query = `
SELECT ` + jurisdictionColumns + `
FROM jurisdictions
ORDER BY code ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanJurisdictions(rows)
}

func (repo *JurisdictionRepo) Search(ctx context.Context, keyword string) ([]*entity.Jurisdiction, error) {
	const query = `
SELECT ` + jurisdictionColumns + `
FROM jurisdictions
WHERE code ILIKE $1
   OR name ILIKE $1
   OR region ILIKE $1
ORDER BY code ASC`
	rows, err := repo.db.QueryContext(ctx, query, "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("Search: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanJurisdictions(rows)
}

func scanJurisdictions(rows *sql.Rows) ([]*entity.Jurisdiction, error) {
	out := make([]*entity.Jurisdiction, 0, 50)
	for rows.Next() {
		var j entity.Jurisdiction
		if err := rows.Scan(&j.ID, &j.Code, &j.Name, &j.Region, &j.Overview,
			&j.RawPage, &j.ImportedAt, &j.Active); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		out = append(out, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return out, nil
}

// Upsert inserts the jurisdiction or updates it in place when the code is
// already catalogued. The entity's ID is populated either way.
func (repo *JurisdictionRepo) Upsert(ctx context.Context, j *entity.Jurisdiction) error {
	const query = `
INSERT INTO jurisdictions (code, name, region, overview, raw_page, imported_at, active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (code) DO UPDATE SET
    name        = EXCLUDED.name,
    region      = EXCLUDED.region,
    overview    = EXCLUDED.overview,
    raw_page    = EXCLUDED.raw_page,
    imported_at = EXCLUDED.imported_at,
    active      = EXCLUDED.active
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		j.Code, j.Name, j.Region, j.Overview, j.RawPage, j.ImportedAt, j.Active,
	).Scan(&j.ID)
	if err != nil {
		return fmt.Errorf("Upsert: QueryRowContext: %w", err)
	}
	return nil
}

func (repo *JurisdictionRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM jurisdictions WHERE id = $1`

	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *JurisdictionRepo) TouchImportedAt(ctx context.Context, id int64, t time.Time) error {
	const query = `UPDATE jurisdictions SET imported_at = $1 WHERE id = $2`
	_, err := repo.db.ExecContext(ctx, query, t, id)
	return err
}
