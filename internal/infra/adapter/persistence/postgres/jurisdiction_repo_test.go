package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/infra/adapter/persistence/postgres"
)

var jurisdictionCols = []string{
	"id", "code", "name", "region", "overview", "raw_page", "imported_at", "active",
}

func jurisdictionRow(j *entity.Jurisdiction) *sqlmock.Rows {
	return sqlmock.NewRows(jurisdictionCols).AddRow(
		j.ID, j.Code, j.Name, j.Region, j.Overview, j.RawPage, j.ImportedAt, j.Active,
	)
}

func ukJurisdiction() *entity.Jurisdiction {
	imported := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &entity.Jurisdiction{
		ID:         1,
		Code:       "uk",
		Name:       "United Kingdom",
		Region:     "Europe",
		Overview:   "Companies House covers England, Wales, Scotland and Northern Ireland.",
		RawPage:    "==Company registers==\n* [https://example.gov.uk Companies House] ''pub''",
		ImportedAt: &imported,
		Active:     true,
	}
}

func TestJurisdictionRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := ukJurisdiction()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(1)).
		WillReturnRows(jurisdictionRow(want))

	repo := postgres.NewJurisdictionRepo(db)
	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(jurisdictionCols))

	repo := postgres.NewJurisdictionRepo(db)
	got, err := repo.Get(context.Background(), 99)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	// Absence is reported as nil, nil; the usecase maps it to not-found.
	if got != nil {
		t.Fatalf("expected nil for missing row, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_GetByCode(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := ukJurisdiction()
	mock.ExpectQuery(`WHERE code = \$1`).
		WithArgs("uk").
		WillReturnRows(jurisdictionRow(want))

	repo := postgres.NewJurisdictionRepo(db)
	got, err := repo.GetByCode(context.Background(), "uk")
	if err != nil {
		t.Fatalf("GetByCode err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM jurisdictions`).
		WillReturnRows(jurisdictionRow(ukJurisdiction()))

	repo := postgres.NewJurisdictionRepo(db)
	got, err := repo.List(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_Search(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM jurisdictions`).
		WithArgs("%king%").
		WillReturnRows(sqlmock.NewRows(jurisdictionCols)) // empty set OK

	repo := postgres.NewJurisdictionRepo(db)
	if _, err := repo.Search(context.Background(), "king"); err != nil {
		t.Fatalf("Search err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_Upsert(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	j := ukJurisdiction()
	j.ID = 0

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO jurisdictions`)).
		WithArgs(j.Code, j.Name, j.Region, j.Overview, j.RawPage, j.ImportedAt, j.Active).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := postgres.NewJurisdictionRepo(db)
	if err := repo.Upsert(context.Background(), j); err != nil {
		t.Fatalf("Upsert err=%v", err)
	}
	if j.ID != 7 {
		t.Fatalf("expected returned id 7, got %d", j.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM jurisdictions`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewJurisdictionRepo(db)
	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_Delete_NoRows(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM jurisdictions`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := postgres.NewJurisdictionRepo(db)
	if err := repo.Delete(context.Background(), 99); err == nil {
		t.Fatal("expected error for zero rows affected")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_TouchImportedAt(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE jurisdictions SET imported_at`)).
		WithArgs(now, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewJurisdictionRepo(db)
	if err := repo.TouchImportedAt(context.Background(), 1, now); err != nil {
		t.Fatalf("TouchImportedAt err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJurisdictionRepo_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM jurisdictions`).
		WillReturnError(errors.New("connection reset"))

	repo := postgres.NewJurisdictionRepo(db)
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error from query failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
