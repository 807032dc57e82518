package resource

import (
	"errors"
	"net/http"

	"records-atlas/internal/common/pagination"
	"records-atlas/internal/handler/http/respond"
	resUC "records-atlas/internal/usecase/resource"
)

// SearchHandler serves full-catalogue keyword search. Results are paged:
// search spans every jurisdiction, so the result set is unbounded in a way
// the per-jurisdiction listings are not.
type SearchHandler struct {
	Svc     resUC.Service
	PageCfg pagination.Config
}

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("q query param required"))
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PageCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	list, err := h.Svc.Search(r.Context(), keyword)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]DTO, 0, len(list))
	for _, rw := range list {
		dto := toDTO(rw.Resource)
		dto.Jurisdiction = rw.JurisdictionCode
		out = append(out, dto)
	}

	page := pagination.Slice(out, params)
	meta := pagination.BuildMetadata(params, int64(len(out)))
	respond.JSON(w, http.StatusOK, pagination.NewResponse(page, meta))
}
