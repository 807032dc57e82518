package resource

import (
	"errors"
	"net/http"
	"strconv"

	"records-atlas/internal/handler/http/respond"
	"records-atlas/internal/repository"
	jurUC "records-atlas/internal/usecase/jurisdiction"
	resUC "records-atlas/internal/usecase/resource"
)

// ListHandler serves filtered resource listings. The jurisdiction
// filter accepts a page code and is resolved to an ID before querying.
type ListHandler struct {
	Svc    resUC.Service
	JurSvc jurUC.Service
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if filters == nil {
		// Jurisdiction code matched nothing, so the result is empty.
		respond.JSON(w, http.StatusOK, []DTO{})
		return
	}

	list, err := h.Svc.List(r.Context(), *filters)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, res := range list {
		out = append(out, toDTO(res))
	}
	respond.JSON(w, http.StatusOK, out)
}

// parseFilters builds repository filters from query parameters. A nil
// result with nil error means the jurisdiction filter cannot match.
func (h ListHandler) parseFilters(r *http.Request) (*repository.ResourceFilters, error) {
	q := r.URL.Query()
	filters := &repository.ResourceFilters{}

	if code := q.Get("jurisdiction"); code != "" {
		j, err := h.JurSvc.GetByCode(r.Context(), code)
		if err != nil {
			if errors.Is(err, jurUC.ErrJurisdictionNotFound) {
				return nil, nil
			}
			return nil, err
		}
		filters.JurisdictionID = &j.ID
	}
	if section := q.Get("section"); section != "" {
		filters.Section = &section
	}
	if tag := q.Get("tag"); tag != "" {
		filters.Tag = &tag
	}
	if aliveStr := q.Get("alive"); aliveStr != "" {
		alive, err := strconv.ParseBool(aliveStr)
		if err != nil {
			return nil, errors.New("alive must be a boolean")
		}
		filters.Alive = &alive
	}
	return filters, nil
}
