package resource

import (
	"encoding/json"
	"errors"
	"net/http"

	"records-atlas/internal/handler/http/respond"
	resUC "records-atlas/internal/usecase/resource"
)

type CreateHandler struct{ Svc resUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JurisdictionID int64    `json:"jurisdictionID"`
		Section        string   `json:"section"`
		Title          string   `json:"title"`
		URL            string   `json:"url"`
		Tags           []string `json:"tags"`
		Note           string   `json:"note"`
		FeedURL        string   `json:"feedURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.JurisdictionID <= 0 || req.Title == "" || req.URL == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("jurisdictionID, title and url required"))
		return
	}
	err := h.Svc.Create(r.Context(), resUC.CreateInput{
		JurisdictionID: req.JurisdictionID,
		Section:        req.Section,
		Title:          req.Title,
		URL:            req.URL,
		Tags:           req.Tags,
		Note:           req.Note,
		FeedURL:        req.FeedURL,
	})
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
