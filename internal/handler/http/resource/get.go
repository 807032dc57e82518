package resource

import (
	"errors"
	"net/http"

	"records-atlas/internal/handler/http/pathutil"
	"records-atlas/internal/handler/http/respond"
	resUC "records-atlas/internal/usecase/resource"
)

type GetHandler struct{ Svc resUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/resources/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, resUC.ErrResourceNotFound) {
			respond.SafeError(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(res))
}
