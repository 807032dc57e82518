package jurisdiction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/handler/http/jurisdiction"
	"records-atlas/internal/repository"
	jurUC "records-atlas/internal/usecase/jurisdiction"
	resUC "records-atlas/internal/usecase/resource"
)

const ukPage = `Court records are held separately, see the courts page.

== Company registers ==
Filings are free of charge since 2015.
* [https://find-and-update.company-information.service.gov.uk/ Companies House] (''pub'')
`

// JurisdictionRepository stub keyed by code.
type stubJurRepo struct {
	jur *entity.Jurisdiction
}

func (s *stubJurRepo) Get(_ context.Context, _ int64) (*entity.Jurisdiction, error) {
	return s.jur, nil
}
func (s *stubJurRepo) GetByCode(_ context.Context, code string) (*entity.Jurisdiction, error) {
	if s.jur != nil && s.jur.Code == code {
		return s.jur, nil
	}
	return nil, nil
}
func (s *stubJurRepo) List(_ context.Context) ([]*entity.Jurisdiction, error) { return nil, nil }
func (s *stubJurRepo) Search(_ context.Context, _ string) ([]*entity.Jurisdiction, error) {
	return nil, nil
}
func (s *stubJurRepo) Upsert(_ context.Context, _ *entity.Jurisdiction) error { return nil }
func (s *stubJurRepo) Delete(_ context.Context, _ int64) error                { return nil }
func (s *stubJurRepo) TouchImportedAt(_ context.Context, _ int64, _ time.Time) error {
	return nil
}

// ResourceRepository stub serving a fixed list.
type stubResourceRepo struct {
	resources []*entity.Resource
}

func (s *stubResourceRepo) Get(_ context.Context, _ int64) (*entity.Resource, error) {
	return nil, nil
}
func (s *stubResourceRepo) List(_ context.Context, _ repository.ResourceFilters) ([]*entity.Resource, error) {
	return s.resources, nil
}
func (s *stubResourceRepo) ListWatched(_ context.Context) ([]*entity.Resource, error) {
	return nil, nil
}
func (s *stubResourceRepo) ListDue(_ context.Context, _ time.Time) ([]*entity.Resource, error) {
	return nil, nil
}
func (s *stubResourceRepo) Search(_ context.Context, _ string) ([]repository.ResourceWithJurisdiction, error) {
	return nil, nil
}
func (s *stubResourceRepo) Create(_ context.Context, _ *entity.Resource) error    { return nil }
func (s *stubResourceRepo) Update(_ context.Context, _ *entity.Resource) error    { return nil }
func (s *stubResourceRepo) Delete(_ context.Context, _ int64) error               { return nil }
func (s *stubResourceRepo) DeleteByJurisdiction(_ context.Context, _ int64) error { return nil }
func (s *stubResourceRepo) RecordCheck(_ context.Context, _ int64, _ repository.CheckOutcome) error {
	return nil
}

func newGetHandler(jur *entity.Jurisdiction, resources []*entity.Resource) jurisdiction.GetHandler {
	return jurisdiction.GetHandler{
		Svc:         jurUC.Service{Repo: &stubJurRepo{jur: jur}},
		ResourceSvc: resUC.Service{Repo: &stubResourceRepo{resources: resources}},
	}
}

func getJurisdiction(t *testing.T, handler jurisdiction.GetHandler, code string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/jurisdictions/"+code, nil)
	r.SetPathValue("code", code)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestGetHandler_RendersPageSections(t *testing.T) {
	jur := &entity.Jurisdiction{
		ID:      1,
		Code:    "uk",
		Name:    "United Kingdom",
		RawPage: ukPage,
		Active:  true,
	}
	checked := time.Date(2026, 8, 20, 4, 0, 0, 0, time.UTC)
	resources := []*entity.Resource{{
		ID:             1,
		JurisdictionID: 1,
		Section:        "Company registers",
		Title:          "Companies House",
		URL:            "https://find-and-update.company-information.service.gov.uk/",
		Tags:           []string{entity.TagPublic},
		LastCheckedAt:  &checked,
		LastStatus:     200,
		Alive:          true,
		PageTitle:      "Find and update company information",
		Preview:        "Search the register of companies.",
	}}

	w := getJurisdiction(t, newGetHandler(jur, resources), "uk")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp jurisdiction.DetailDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(resp.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(resp.Sections))
	}
	if resp.Sections[0].Heading != "" || len(resp.Sections[0].Notes) != 1 {
		t.Fatalf("unexpected lead section: %+v", resp.Sections[0])
	}
	if resp.Sections[1].Heading != "Company registers" {
		t.Fatalf("unexpected heading: %q", resp.Sections[1].Heading)
	}
	if len(resp.Sections[1].Notes) != 1 || resp.Sections[1].Notes[0] != "Filings are free of charge since 2015." {
		t.Fatalf("guidance notes not rendered: %+v", resp.Sections[1].Notes)
	}

	if len(resp.Resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resp.Resources))
	}
	got := resp.Resources[0]
	if got.PageTitle != "Find and update company information" {
		t.Fatalf("page title not surfaced: %q", got.PageTitle)
	}
	if got.Preview != "Search the register of companies." {
		t.Fatalf("preview not surfaced: %q", got.Preview)
	}
}

func TestGetHandler_EmptyPageOmitsSections(t *testing.T) {
	jur := &entity.Jurisdiction{ID: 2, Code: "fr", Name: "France", Active: true}

	w := getJurisdiction(t, newGetHandler(jur, nil), "fr")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp jurisdiction.DetailDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Sections != nil {
		t.Fatalf("expected no sections for an empty page, got %+v", resp.Sections)
	}
}

func TestGetHandler_NotFound(t *testing.T) {
	w := getJurisdiction(t, newGetHandler(nil, nil), "zz")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
