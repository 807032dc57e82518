package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/repository"
)

type ResourceRepo struct{ db *sql.DB }

func NewResourceRepo(db *sql.DB) repository.ResourceRepository {
	return &ResourceRepo{db: db}
}

const resourceColumns = `id, jurisdiction_id, section, title, url, tags, note,
    feed_url, last_checked_at, last_status, alive, page_title, preview, created_at`

func (repo *ResourceRepo) Get(ctx context.Context, id int64) (*entity.Resource, error) {
	const query = `
SELECT ` + resourceColumns + `
FROM resources
WHERE id = ?
LIMIT 1`
	var r entity.Resource
	var tags string
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.JurisdictionID, &r.Section, &r.Title, &r.URL, &tags, &r.Note,
		&r.FeedURL, &r.LastCheckedAt, &r.LastStatus, &r.Alive,
		&r.PageTitle, &r.Preview, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	r.Tags = splitTags(tags)
	return &r, nil
}

func (repo *ResourceRepo) List(ctx context.Context, filters repository.ResourceFilters) ([]*entity.Resource, error) {
	var conditions []string
	var args []interface{}

	if filters.JurisdictionID != nil {
		conditions = append(conditions, "jurisdiction_id = ?")
		args = append(args, *filters.JurisdictionID)
	}
	if filters.Section != nil {
		conditions = append(conditions, "section = ?")
		args = append(args, *filters.Section)
	}
	if filters.Tag != nil {
		// tags are stored comma-joined, match as a delimited token
		conditions = append(conditions, "(',' || tags || ',') LIKE ?")
		args = append(args, "%,"+*filters.Tag+",%")
	}
	if filters.Alive != nil {
		conditions = append(conditions, "alive = ?")
		args = append(args, *filters.Alive)
	}

	query := `
SELECT ` + resourceColumns + `
FROM resources`
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nORDER BY id ASC"

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanResources(rows)
}

func (repo *ResourceRepo) ListWatched(ctx context.Context) ([]*entity.Resource, error) {
	const query = `
SELECT ` + resourceColumns + `
FROM resources
WHERE feed_url <> ''
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListWatched: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanResources(rows)
}

func (repo *ResourceRepo) ListDue(ctx context.Context, cutoff time.Time) ([]*entity.Resource, error) {
	// NULLs sort first under ASC in SQLite, so never-checked rows lead.
	const query = `
SELECT ` + resourceColumns + `
FROM resources
WHERE last_checked_at IS NULL
   OR last_checked_at < ?
ORDER BY last_checked_at ASC`
	rows, err := repo.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("ListDue: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanResources(rows)
}

func (repo *ResourceRepo) Search(ctx context.Context, keyword string) ([]repository.ResourceWithJurisdiction, error) {
	const query = `
SELECT r.id, r.jurisdiction_id, r.section, r.title, r.url, r.tags, r.note,
       r.feed_url, r.last_checked_at, r.last_status, r.alive,
       r.page_title, r.preview, r.created_at,
       j.code
FROM resources r
JOIN jurisdictions j ON j.id = r.jurisdiction_id
WHERE r.title LIKE ?
   OR r.url   LIKE ?
   OR r.note  LIKE ?
ORDER BY r.id ASC`
	param := "%" + keyword + "%"
	rows, err := repo.db.QueryContext(ctx, query, param, param, param)
	if err != nil {
		return nil, fmt.Errorf("Search: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]repository.ResourceWithJurisdiction, 0, 50)
	for rows.Next() {
		var r entity.Resource
		var tags, code string
		if err := rows.Scan(
			&r.ID, &r.JurisdictionID, &r.Section, &r.Title, &r.URL, &tags, &r.Note,
			&r.FeedURL, &r.LastCheckedAt, &r.LastStatus, &r.Alive,
			&r.PageTitle, &r.Preview, &r.CreatedAt,
			&code,
		); err != nil {
			return nil, fmt.Errorf("Search: Scan: %w", err)
		}
		r.Tags = splitTags(tags)
		out = append(out, repository.ResourceWithJurisdiction{
			Resource:         &r,
			JurisdictionCode: code,
		})
	}
	return out, rows.Err()
}

func scanResources(rows *sql.Rows) ([]*entity.Resource, error) {
	out := make([]*entity.Resource, 0, 50)
	for rows.Next() {
		var r entity.Resource
		var tags string
		if err := rows.Scan(
			&r.ID, &r.JurisdictionID, &r.Section, &r.Title, &r.URL, &tags, &r.Note,
			&r.FeedURL, &r.LastCheckedAt, &r.LastStatus, &r.Alive,
			&r.PageTitle, &r.Preview, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		r.Tags = splitTags(tags)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return out, nil
}

func (repo *ResourceRepo) Create(ctx context.Context, r *entity.Resource) error {
	const query = `
INSERT INTO resources
(jurisdiction_id, section, title, url, tags, note, feed_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		r.JurisdictionID, r.Section, r.Title, r.URL, joinTags(r.Tags),
		r.Note, r.FeedURL, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	r.ID = id
	return nil
}

func (repo *ResourceRepo) Update(ctx context.Context, r *entity.Resource) error {
	const query = `
UPDATE resources SET
    section  = ?,
    title    = ?,
    url      = ?,
    tags     = ?,
    note     = ?,
    feed_url = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		r.Section, r.Title, r.URL, joinTags(r.Tags), r.Note, r.FeedURL, r.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *ResourceRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM resources WHERE id = ?`

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

func (repo *ResourceRepo) DeleteByJurisdiction(ctx context.Context, jurisdictionID int64) error {
	const query = `DELETE FROM resources WHERE jurisdiction_id = ?`
	_, err := repo.db.ExecContext(ctx, query, jurisdictionID)
	if err != nil {
		return fmt.Errorf("DeleteByJurisdiction: ExecContext: %w", err)
	}
	return nil
}

func (repo *ResourceRepo) RecordCheck(ctx context.Context, id int64, check repository.CheckOutcome) error {
	// Empty title/preview keep the last stored values, so a dead check
	// does not wipe enrichment harvested while the page was alive.
	const query = `
UPDATE resources SET
    last_checked_at = ?,
    last_status     = ?,
    alive           = ?,
    page_title      = COALESCE(NULLIF(?, ''), page_title),
    preview         = COALESCE(NULLIF(?, ''), preview)
WHERE id = ?`
	_, err := repo.db.ExecContext(ctx, query,
		check.CheckedAt, check.Status, check.Alive, check.PageTitle, check.Preview, id,
	)
	if err != nil {
		return fmt.Errorf("RecordCheck: ExecContext: %w", err)
	}
	return nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
