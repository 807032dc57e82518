package jurisdiction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"records-atlas/internal/domain/entity"
	jurUC "records-atlas/internal/usecase/jurisdiction"
)

// Minimal in-memory JurisdictionRepository.
type stubRepo struct {
	data map[string]*entity.Jurisdiction // keyed by code
	err  error
}

func newStub() *stubRepo {
	return &stubRepo{data: map[string]*entity.Jurisdiction{}}
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Jurisdiction, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, j := range s.data {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetByCode(_ context.Context, code string) (*entity.Jurisdiction, error) {
	return s.data[code], s.err
}

func (s *stubRepo) List(_ context.Context) ([]*entity.Jurisdiction, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Jurisdiction
	for _, j := range s.data {
		out = append(out, j)
	}
	return out, nil
}

func (s *stubRepo) Search(_ context.Context, _ string) ([]*entity.Jurisdiction, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Jurisdiction
	for _, j := range s.data {
		out = append(out, j)
	}
	return out, nil
}

func (s *stubRepo) Upsert(_ context.Context, j *entity.Jurisdiction) error {
	if s.err != nil {
		return s.err
	}
	s.data[j.Code] = j
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	for code, j := range s.data {
		if j.ID == id {
			delete(s.data, code)
		}
	}
	return nil
}

func (s *stubRepo) TouchImportedAt(_ context.Context, id int64, t time.Time) error {
	if s.err != nil {
		return s.err
	}
	for _, j := range s.data {
		if j.ID == id {
			j.ImportedAt = &t
		}
	}
	return nil
}

func TestService_GetByCode(t *testing.T) {
	stub := newStub()
	stub.data["de"] = &entity.Jurisdiction{ID: 1, Code: "de", Name: "Germany"}
	svc := jurUC.Service{Repo: stub}

	t.Run("found", func(t *testing.T) {
		got, err := svc.GetByCode(context.Background(), "de")
		if err != nil {
			t.Fatalf("GetByCode err=%v", err)
		}
		if got.Name != "Germany" {
			t.Fatalf("want Germany, got %q", got.Name)
		}
	})

	t.Run("case insensitive with whitespace", func(t *testing.T) {
		got, err := svc.GetByCode(context.Background(), "  DE ")
		if err != nil {
			t.Fatalf("GetByCode err=%v", err)
		}
		if got.Code != "de" {
			t.Fatalf("want code de, got %q", got.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetByCode(context.Background(), "zz")
		if !errors.Is(err, jurUC.ErrJurisdictionNotFound) {
			t.Fatalf("want ErrJurisdictionNotFound, got %v", err)
		}
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := svc.GetByCode(context.Background(), "")
		var vErr *entity.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("want ValidationError, got %v", err)
		}
	})
}

func TestService_List_error(t *testing.T) {
	stub := newStub()
	stub.err = errors.New("db down")
	svc := jurUC.Service{Repo: stub}

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("want error, got nil")
	}
}

func TestService_Search(t *testing.T) {
	stub := newStub()
	stub.data["de"] = &entity.Jurisdiction{ID: 1, Code: "de", Name: "Germany", Region: "Europe"}
	stub.data["fr"] = &entity.Jurisdiction{ID: 2, Code: "fr", Name: "France", Region: "Europe"}
	svc := jurUC.Service{Repo: stub}

	got, err := svc.Search(context.Background(), "Europe")
	if err != nil {
		t.Fatalf("Search err=%v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 results, got %d", len(got))
	}
}

func TestService_Delete_validation(t *testing.T) {
	svc := jurUC.Service{Repo: newStub()}
	if err := svc.Delete(context.Background(), -1); err == nil {
		t.Fatalf("want validation error, got nil")
	}
}
