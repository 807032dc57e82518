package resource

import (
	"net/http"

	"records-atlas/internal/handler/http/pathutil"
	"records-atlas/internal/handler/http/respond"
	resUC "records-atlas/internal/usecase/resource"
)

type DeleteHandler struct{ Svc resUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/resources/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
