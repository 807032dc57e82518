// Package sqlite implements the repository interfaces on SQLite via
// database/sql and the modernc.org/sqlite driver. It backs local use and
// the lookup CLI.
// Note: SQLite uses LIKE instead of ILIKE (case-insensitive by default for ASCII).
package sqlite

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
WHERE id = ?
LIMIT 1`
	return scanJurisdiction(repo.db.QueryRowContext(ctx, query, id))
}

func (repo *JurisdictionRepo) GetByCode(ctx context.Context, code string) (*entity.Jurisdiction, error) {
	const query = `
SELECT ` + jurisdictionColumns + `
FROM jurisdictions
WHERE code = ?
LIMIT 1`
	return scanJurisdiction(repo.db.QueryRowContext(ctx, query, code))
}

func scanJurisdiction(row *sql.Row) (*entity.Jurisdiction, error) {
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
WHERE code LIKE ?
   OR name LIKE ?
   OR region LIKE ?
ORDER BY code ASC`
	param := "%" + keyword + "%"
	rows, err := repo.db.QueryContext(ctx, query, param, param, param)
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
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (code) DO UPDATE SET
    name        = excluded.name,
    region      = excluded.region,
    overview    = excluded.overview,
    raw_page    = excluded.raw_page,
    imported_at = excluded.imported_at,
    active      = excluded.active`
	if _, err := repo.db.ExecContext(ctx, query,
		j.Code, j.Name, j.Region, j.Overview, j.RawPage, j.ImportedAt, j.Active,
	); err != nil {
		return fmt.Errorf("Upsert: ExecContext: %w", err)
	}

	// RETURNING is avoided for driver compatibility; re-read the id by code.
	const idQuery = `SELECT id FROM jurisdictions WHERE code = ? LIMIT 1`
	if err := repo.db.QueryRowContext(ctx, idQuery, j.Code).Scan(&j.ID); err != nil {
		return fmt.Errorf("Upsert: read id: %w", err)
	}
	return nil
}

func (repo *JurisdictionRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM jurisdictions WHERE id = ?`

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
	const query = `UPDATE jurisdictions SET imported_at = ? WHERE id = ?`
	_, err := repo.db.ExecContext(ctx, query, t, id)
	return err
}
