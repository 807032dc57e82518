package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/repository"
)

type NoticeRepo struct{ db *sql.DB }

func NewNoticeRepo(db *sql.DB) repository.NoticeRepository {
	return &NoticeRepo{db: db}
}

func (repo *NoticeRepo) ListByResource(ctx context.Context, resourceID int64, limit int) ([]*entity.Notice, error) {
	const query = `
SELECT id, resource_id, title, url, published_at, created_at
FROM notices
WHERE resource_id = ?
ORDER BY published_at DESC
LIMIT ?`
	rows, err := repo.db.QueryContext(ctx, query, resourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListByResource: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	notices := make([]*entity.Notice, 0, limit)
	for rows.Next() {
		var n entity.Notice
		if err := rows.Scan(&n.ID, &n.ResourceID, &n.Title, &n.URL,
			&n.PublishedAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByResource: Scan: %w", err)
		}
		notices = append(notices, &n)
	}
	return notices, rows.Err()
}

func (repo *NoticeRepo) Create(ctx context.Context, n *entity.Notice) error {
	const query = `
INSERT INTO notices (resource_id, title, url, published_at, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (url) DO NOTHING`
	_, err := repo.db.ExecContext(ctx, query,
		n.ResourceID, n.Title, n.URL, n.PublishedAt, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	return nil
}

// ExistsByURLBatch batch-checks notice URLs to avoid an N+1 query per feed item.
func (repo *NoticeRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	if len(urls) == 0 {
		return make(map[string]bool), nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(urls)), ", ")
	args := make([]interface{}, len(urls))
	for i, u := range urls {
		args[i] = u
	}

	query := `SELECT url FROM notices WHERE url IN (` + placeholders + `)`
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: Scan: %w", err)
		}
		result[url] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: rows.Err: %w", err)
	}

	return result, nil
}
