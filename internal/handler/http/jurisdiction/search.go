package jurisdiction

import (
	"errors"
	"net/http"

	"records-atlas/internal/handler/http/respond"
	jurUC "records-atlas/internal/usecase/jurisdiction"
)

type SearchHandler struct{ Svc jurUC.Service }

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("q query param required"))
		return
	}
	list, err := h.Svc.Search(r.Context(), keyword)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, j := range list {
		out = append(out, toDTO(j))
	}
	respond.JSON(w, http.StatusOK, out)
}
