package postgres

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
WHERE id = $1
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

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filters.JurisdictionID != nil {
		add("jurisdiction_id = $%d", *filters.JurisdictionID)
	}
	if filters.Section != nil {
		add("section = $%d", *filters.Section)
	}
	if filters.Tag != nil {
		// tags are stored comma-joined, match as a delimited token
		add("(',' || tags || ',') LIKE $%d", "%,"+*filters.Tag+",%")
	}
	if filters.Alive != nil {
		add("alive = $%d", *filters.Alive)
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
	const query = `
SELECT ` + resourceColumns + `
FROM resources
WHERE last_checked_at IS NULL
   OR last_checked_at < $1
ORDER BY last_checked_at ASC NULLS FIRST`
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
WHERE r.title ILIKE $1
   OR r.url   ILIKE $1
   OR r.note  ILIKE $1
ORDER BY r.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, "%"+keyword+"%")
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
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		r.JurisdictionID, r.Section, r.Title, r.URL, joinTags(r.Tags),
		r.Note, r.FeedURL, r.CreatedAt,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("Create: QueryRowContext: %w", err)
	}
	return nil
}

func (repo *ResourceRepo) Update(ctx context.Context, r *entity.Resource) error {
	const query = `
UPDATE resources SET
    section  = $1,
    title    = $2,
    url      = $3,
    tags     = $4,
    note     = $5,
    feed_url = $6
WHERE id = $7`
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
	const query = `DELETE FROM resources WHERE id = $1`

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
	const query = `DELETE FROM resources WHERE jurisdiction_id = $1`
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
    last_checked_at = $1,
    last_status     = $2,
    alive           = $3,
    page_title      = COALESCE(NULLIF($4, ''), page_title),
    preview         = COALESCE(NULLIF($5, ''), preview)
WHERE id = $6`
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
