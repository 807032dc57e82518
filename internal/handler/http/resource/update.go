package resource

import (
	"encoding/json"
	"errors"
	"net/http"

	"records-atlas/internal/handler/http/pathutil"
	"records-atlas/internal/handler/http/respond"
	resUC "records-atlas/internal/usecase/resource"
)

type UpdateHandler struct{ Svc resUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/resources/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Section *string  `json:"section"`
		Title   *string  `json:"title"`
		URL     *string  `json:"url"`
		Tags    []string `json:"tags"`
		Note    *string  `json:"note"`
		FeedURL *string  `json:"feedURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	err = h.Svc.Update(r.Context(), resUC.UpdateInput{
		ID:      id,
		Section: req.Section,
		Title:   req.Title,
		URL:     req.URL,
		Tags:    req.Tags,
		Note:    req.Note,
		FeedURL: req.FeedURL,
	})
	if err != nil {
		if errors.Is(err, resUC.ErrResourceNotFound) {
			respond.SafeError(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
