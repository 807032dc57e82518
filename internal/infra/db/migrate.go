package db

import (
	"database/sql"
	"fmt"
)

// MigrateUp creates the schema for the given driver. All statements are
// idempotent so the migration can run at every startup.
func MigrateUp(database *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverPostgres:
		stmts = postgresSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unknown driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS jurisdictions (
    id          SERIAL PRIMARY KEY,
    code        TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    region      TEXT NOT NULL DEFAULT '',
    overview    TEXT NOT NULL DEFAULT '',
    raw_page    TEXT NOT NULL DEFAULT '',
    imported_at TIMESTAMPTZ,
    active      BOOLEAN DEFAULT TRUE
)`,
	`CREATE TABLE IF NOT EXISTS resources (
    id              SERIAL PRIMARY KEY,
    jurisdiction_id INTEGER NOT NULL REFERENCES jurisdictions(id) ON DELETE CASCADE,
    section         TEXT NOT NULL DEFAULT '',
    title           TEXT NOT NULL,
    url             TEXT NOT NULL,
    tags            TEXT NOT NULL DEFAULT '',
    note            TEXT NOT NULL DEFAULT '',
    feed_url        TEXT NOT NULL DEFAULT '',
    last_checked_at TIMESTAMPTZ,
    last_status     INTEGER NOT NULL DEFAULT 0,
    alive           BOOLEAN NOT NULL DEFAULT FALSE,
    page_title      TEXT NOT NULL DEFAULT '',
    preview         TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS notices (
    id           SERIAL PRIMARY KEY,
    resource_id  INTEGER NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL UNIQUE,
    published_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_jurisdiction_id ON resources(jurisdiction_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_last_checked_at ON resources(last_checked_at)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_feed_url ON resources(feed_url) WHERE feed_url <> ''`,
	`CREATE INDEX IF NOT EXISTS idx_notices_resource_id ON notices(resource_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jurisdictions_code ON jurisdictions(code)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS jurisdictions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    code        TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    region      TEXT NOT NULL DEFAULT '',
    overview    TEXT NOT NULL DEFAULT '',
    raw_page    TEXT NOT NULL DEFAULT '',
    imported_at TIMESTAMP,
    active      BOOLEAN DEFAULT TRUE
)`,
	`CREATE TABLE IF NOT EXISTS resources (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    jurisdiction_id INTEGER NOT NULL REFERENCES jurisdictions(id) ON DELETE CASCADE,
    section         TEXT NOT NULL DEFAULT '',
    title           TEXT NOT NULL,
    url             TEXT NOT NULL,
    tags            TEXT NOT NULL DEFAULT '',
    note            TEXT NOT NULL DEFAULT '',
    feed_url        TEXT NOT NULL DEFAULT '',
    last_checked_at TIMESTAMP,
    last_status     INTEGER NOT NULL DEFAULT 0,
    alive           BOOLEAN NOT NULL DEFAULT FALSE,
    page_title      TEXT NOT NULL DEFAULT '',
    preview         TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS notices (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    resource_id  INTEGER NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL UNIQUE,
    published_at TIMESTAMP,
    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_jurisdiction_id ON resources(jurisdiction_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_last_checked_at ON resources(last_checked_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notices_resource_id ON notices(resource_id)`,
}
