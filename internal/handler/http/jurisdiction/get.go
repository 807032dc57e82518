package jurisdiction

import (
	"errors"
	"net/http"

	"records-atlas/internal/handler/http/respond"
	"records-atlas/internal/repository"
	jurUC "records-atlas/internal/usecase/jurisdiction"
	resUC "records-atlas/internal/usecase/resource"
	"records-atlas/internal/wikitext"
)

// GetHandler serves a single jurisdiction looked up by page code,
// including every resource catalogued on its page.
type GetHandler struct {
	Svc         jurUC.Service
	ResourceSvc resUC.Service
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("invalid jurisdiction code"))
		return
	}

	j, err := h.Svc.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, jurUC.ErrJurisdictionNotFound) {
			respond.SafeError(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	resources, err := h.ResourceSvc.List(r.Context(), repository.ResourceFilters{
		JurisdictionID: &j.ID,
	})
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := DetailDTO{
		DTO:       toDTO(j),
		Sections:  renderSections(j.RawPage),
		Resources: make([]ResourceDTO, 0, len(resources)),
	}
	for _, res := range resources {
		out.Resources = append(out.Resources, ResourceDTO{
			ID:            res.ID,
			Section:       res.Section,
			Title:         res.Title,
			URL:           res.URL,
			Tags:          res.Tags,
			Note:          res.Note,
			FeedURL:       res.FeedURL,
			LastCheckedAt: res.LastCheckedAt,
			LastStatus:    res.LastStatus,
			Alive:         res.Alive,
			PageTitle:     res.PageTitle,
			Preview:       res.Preview,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}

// renderSections parses the stored page markup on demand. The catalogued
// entries are served from the resource rows; this surfaces the headings
// and guidance notes that only live on the page itself.
func renderSections(raw string) []SectionDTO {
	if raw == "" {
		return nil
	}
	page := wikitext.Parse(raw)
	out := make([]SectionDTO, 0, len(page.Sections))
	for _, s := range page.Sections {
		out = append(out, SectionDTO{Heading: s.Heading, Notes: s.Notes})
	}
	return out
}
